package model //import "github.com/WaelFer/BooksApp/internal/model"

// CartItem is one row of the carts table. BookID references books.id,
// nothing cascades when the book goes away.
type CartItem struct {
	ID       int  `json:"id"`
	Quantite *int `json:"quantite"`
	BookID   int  `json:"Book_id"`
}

type NewCartItem struct {
	Quantite *int `json:"quantite"`
	BookID   int  `json:"Book_id"`
}

func (c *NewCartItem) Validate() error {
	if c == nil {
		return &FieldError{Field: "cart item", Reason: "is nil"}
	}
	if c.BookID <= 0 {
		return &FieldError{Field: "Book_id", Reason: "must be a positive integer"}
	}
	if c.Quantite != nil && *c.Quantite <= 0 {
		return &FieldError{Field: "quantite", Reason: "must be positive"}
	}
	return nil
}

type FindCartItem struct {
	BookID *int `json:"Book_id"`
}
