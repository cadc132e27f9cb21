package model //import "github.com/WaelFer/BooksApp/internal/model"

import (
	"math"
	"strings"

	"github.com/WaelFer/BooksApp/internal/util"
)

// Book is one row of the books table. Optional columns are pointers, nil
// means the value is unknown and is stored as NULL.
type Book struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Country       *string  `json:"country"`
	Language      *string  `json:"language"`
	Link          *string  `json:"link"`
	Pages         *int     `json:"pages"`
	PublishedDate *int     `json:"publishedDate"`
	Prix          *float64 `json:"prix"`
	// Image is a remote URL or a local device URI, stored verbatim.
	Image string `json:"image"`
}

// HasRemoteImage reports whether the cover can be fetched over http(s).
func (b *Book) HasRemoteImage() bool {
	return util.HasPrefixes(b.Image, "http://", "https://")
}

// Clone returns a copy that shares no pointers with b.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	clone := *b
	clone.Country = clonePtr(b.Country)
	clone.Language = clonePtr(b.Language)
	clone.Link = clonePtr(b.Link)
	clone.Pages = clonePtr(b.Pages)
	clone.PublishedDate = clonePtr(b.PublishedDate)
	clone.Prix = clonePtr(b.Prix)
	return &clone
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// isFinite reports whether a price can be stored as given. The engine
// turns NaN into NULL, which would read back as unknown.
func isFinite(v *float64) bool {
	return v == nil || !(math.IsNaN(*v) || math.IsInf(*v, 0))
}

// NewBookInput is what the add-book form hands to the store.
type NewBookInput struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Country       *string  `json:"country"`
	Language      *string  `json:"language"`
	Link          *string  `json:"link"`
	Pages         *int     `json:"pages"`
	PublishedDate *int     `json:"publishedDate"`
	Prix          *float64 `json:"prix"`
	Image         string   `json:"image"`
}

// Validate checks the columns declared NOT NULL. Field-level rules (URL
// shape, year bounds) belong to the caller.
func (in *NewBookInput) Validate() error {
	if in == nil {
		return &FieldError{Field: "book", Reason: "is nil"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return &FieldError{Field: "title", Reason: "is empty"}
	}
	if strings.TrimSpace(in.Author) == "" {
		return &FieldError{Field: "author", Reason: "is empty"}
	}
	if strings.TrimSpace(in.Image) == "" {
		return &FieldError{Field: "image", Reason: "is empty"}
	}
	if !isFinite(in.Prix) {
		return &FieldError{Field: "prix", Reason: "is not a finite number"}
	}
	return nil
}

// UpdateBook patches a book. Nil fields are left unchanged.
type UpdateBook struct {
	ID            int      `json:"id"`
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Country       *string  `json:"country"`
	Language      *string  `json:"language"`
	Link          *string  `json:"link"`
	Pages         *int     `json:"pages"`
	PublishedDate *int     `json:"publishedDate"`
	Prix          *float64 `json:"prix"`
	Image         *string  `json:"image"`
}

func (u *UpdateBook) Validate() error {
	if u == nil {
		return &FieldError{Field: "book", Reason: "is nil"}
	}
	if u.ID <= 0 {
		return &FieldError{Field: "id", Reason: "must be a positive integer"}
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return &FieldError{Field: "title", Reason: "is empty"}
	}
	if u.Author != nil && strings.TrimSpace(*u.Author) == "" {
		return &FieldError{Field: "author", Reason: "is empty"}
	}
	if u.Image != nil && strings.TrimSpace(*u.Image) == "" {
		return &FieldError{Field: "image", Reason: "is empty"}
	}
	if !isFinite(u.Prix) {
		return &FieldError{Field: "prix", Reason: "is not a finite number"}
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (u *UpdateBook) IsEmpty() bool {
	return u.Title == nil && u.Author == nil && u.Country == nil && u.Language == nil &&
		u.Link == nil && u.Pages == nil && u.PublishedDate == nil && u.Prix == nil && u.Image == nil
}

type FindBook struct {
	ID     *int    `json:"id"`
	Title  *string `json:"title"`
	Author *string `json:"author"`
	// OrderBy is one of the sortable columns, prefix with "-" for descending.
	// Defaults to ascending id, which is insertion order.
	OrderBy *string `json:"order_by"`

	// Limit and Offset page through the list. Nil means no paging.
	Limit  *int `json:"limit"`
	Offset *int `json:"offset"`
}
