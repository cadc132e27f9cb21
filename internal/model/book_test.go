package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestNewBookInputValidate(t *testing.T) {
	valid := NewBookInput{Title: "Foundation", Author: "Asimov", Image: "file:///x.jpg"}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name  string
		in    NewBookInput
		field string
	}{
		{"empty title", NewBookInput{Author: "Asimov", Image: "x"}, "title"},
		{"blank author", NewBookInput{Title: "Dune", Author: "   ", Image: "x"}, "author"},
		{"empty image", NewBookInput{Title: "Dune", Author: "Herbert"}, "image"},
		{"NaN price", NewBookInput{Title: "Dune", Author: "Herbert", Image: "x", Prix: ptr(math.NaN())}, "prix"},
		{"infinite price", NewBookInput{Title: "Dune", Author: "Herbert", Image: "x", Prix: ptr(math.Inf(1))}, "prix"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.in.Validate()
			var fe *FieldError
			if assert.ErrorAs(t, err, &fe) {
				assert.Equal(t, c.field, fe.Field)
			}
		})
	}

	var nilInput *NewBookInput
	assert.Error(t, nilInput.Validate())
}

func TestUpdateBookValidate(t *testing.T) {
	assert.Error(t, (&UpdateBook{}).Validate())
	assert.Error(t, (&UpdateBook{ID: 1, Title: ptr("")}).Validate())
	assert.NoError(t, (&UpdateBook{ID: 1, Country: ptr("")}).Validate())
	assert.Error(t, (&UpdateBook{ID: 1, Prix: ptr(math.NaN())}).Validate())
	assert.Error(t, (&UpdateBook{ID: 1, Prix: ptr(math.Inf(-1))}).Validate())
	assert.True(t, (&UpdateBook{ID: 1}).IsEmpty())
	assert.False(t, (&UpdateBook{ID: 1, Prix: ptr(3.5)}).IsEmpty())
}

func TestNewCartItemValidate(t *testing.T) {
	assert.NoError(t, (&NewCartItem{BookID: 1}).Validate())
	assert.NoError(t, (&NewCartItem{BookID: 1, Quantite: ptr(2)}).Validate())
	assert.Error(t, (&NewCartItem{BookID: 0}).Validate())
	assert.Error(t, (&NewCartItem{BookID: 1, Quantite: ptr(0)}).Validate())
}

func TestHasRemoteImage(t *testing.T) {
	assert.True(t, (&Book{Image: "https://covers.example/1.jpg"}).HasRemoteImage())
	assert.True(t, (&Book{Image: "http://covers.example/1.jpg"}).HasRemoteImage())
	assert.False(t, (&Book{Image: "file:///data/cover.jpg"}).HasRemoteImage())
}

func TestBookClone(t *testing.T) {
	book := &Book{ID: 1, Title: "Dune", Country: ptr("USA"), Pages: ptr(412), Prix: ptr(9.5)}
	clone := book.Clone()
	assert.Equal(t, book, clone)

	*clone.Country = "France"
	*clone.Pages = 1
	*clone.Prix = 0
	assert.Equal(t, "USA", *book.Country)
	assert.Equal(t, 412, *book.Pages)
	assert.Equal(t, 9.5, *book.Prix)
	assert.Nil(t, clone.Language)

	var nilBook *Book
	assert.Nil(t, nilBook.Clone())
}
