package validator // import "github.com/WaelFer/BooksApp/internal/validator"

import (
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/WaelFer/BooksApp/internal/model"
)

// MinPublishedYear is the earliest year accepted, years must have four digits.
const MinPublishedYear = 1000

// ValidateBookCreateRequest applies the add-book form rules. The first
// failing field is reported.
func ValidateBookCreateRequest(book *model.NewBookInput) error {
	if book == nil {
		return errors.New("book is nil")
	}
	if strings.TrimSpace(book.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(book.Author) == "" {
		return errors.New("author is required")
	}
	if strings.TrimSpace(book.Image) == "" {
		return errors.New("image is required")
	}
	return validateOptional(book.Link, book.Pages, book.PublishedDate, book.Prix)
}

// ValidateBookUpdateRequest applies the same rules to the fields being changed.
func ValidateBookUpdateRequest(book *model.UpdateBook) error {
	if book == nil {
		return errors.New("book is nil")
	}
	if book.ID <= 0 {
		return errors.New("id must be a positive integer")
	}
	if v := book.Title; v != nil && strings.TrimSpace(*v) == "" {
		return errors.New("title is required")
	}
	if v := book.Author; v != nil && strings.TrimSpace(*v) == "" {
		return errors.New("author is required")
	}
	if v := book.Image; v != nil && strings.TrimSpace(*v) == "" {
		return errors.New("image is required")
	}
	return validateOptional(book.Link, book.Pages, book.PublishedDate, book.Prix)
}

func validateOptional(link *string, pages, publishedDate *int, prix *float64) error {
	if link != nil {
		if err := validateLink(*link); err != nil {
			return err
		}
	}
	if pages != nil && *pages <= 0 {
		return errors.New("pages must be a positive integer")
	}
	if publishedDate != nil {
		currentYear := time.Now().Year()
		if *publishedDate < MinPublishedYear {
			return errors.Errorf("published year must have four digits, got %d", *publishedDate)
		}
		if *publishedDate > currentYear {
			return errors.Errorf("published year must not be after %d", currentYear)
		}
	}
	if prix != nil {
		if math.IsNaN(*prix) || math.IsInf(*prix, 0) {
			return errors.New("price must be a finite number")
		}
		if *prix <= 0 {
			return errors.New("price must be positive")
		}
	}
	return nil
}

func validateLink(link string) error {
	u, err := url.ParseRequestURI(link)
	if err != nil {
		return errors.Wrap(err, "link is invalid")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("link scheme %q is not http or https", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("link has no host")
	}
	return nil
}
