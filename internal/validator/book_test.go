package validator

import (
	"math"
	"testing"
	"time"

	"github.com/WaelFer/BooksApp/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestValidateBookCreateRequest(t *testing.T) {
	base := func() *model.NewBookInput {
		return &model.NewBookInput{Title: "Foundation", Author: "Asimov", Image: "file:///x.jpg"}
	}

	tests := []struct {
		name    string
		mutate  func(b *model.NewBookInput)
		wantErr bool
	}{
		{"minimal", func(b *model.NewBookInput) {}, false},
		{"all fields", func(b *model.NewBookInput) {
			b.Link = ptr("https://example.com/foundation")
			b.Pages = ptr(255)
			b.PublishedDate = ptr(1951)
			b.Prix = ptr(12.5)
		}, false},
		{"current year", func(b *model.NewBookInput) { b.PublishedDate = ptr(time.Now().Year()) }, false},
		{"missing title", func(b *model.NewBookInput) { b.Title = "" }, true},
		{"missing author", func(b *model.NewBookInput) { b.Author = " " }, true},
		{"missing image", func(b *model.NewBookInput) { b.Image = "" }, true},
		{"relative link", func(b *model.NewBookInput) { b.Link = ptr("foundation.html") }, true},
		{"ftp link", func(b *model.NewBookInput) { b.Link = ptr("ftp://example.com/x") }, true},
		{"zero pages", func(b *model.NewBookInput) { b.Pages = ptr(0) }, true},
		{"three digit year", func(b *model.NewBookInput) { b.PublishedDate = ptr(999) }, true},
		{"future year", func(b *model.NewBookInput) { b.PublishedDate = ptr(time.Now().Year() + 1) }, true},
		{"negative price", func(b *model.NewBookInput) { b.Prix = ptr(-1.0) }, true},
		{"NaN price", func(b *model.NewBookInput) { b.Prix = ptr(math.NaN()) }, true},
		{"infinite price", func(b *model.NewBookInput) { b.Prix = ptr(math.Inf(1)) }, true},
		{"negative infinite price", func(b *model.NewBookInput) { b.Prix = ptr(math.Inf(-1)) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base()
			tt.mutate(b)
			err := ValidateBookCreateRequest(b)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBookCreateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if ValidateBookCreateRequest(nil) == nil {
		t.Error("nil book should fail")
	}
}

func TestValidateBookUpdateRequest(t *testing.T) {
	if err := ValidateBookUpdateRequest(&model.UpdateBook{ID: 1, Prix: ptr(9.9)}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if ValidateBookUpdateRequest(&model.UpdateBook{ID: 0}) == nil {
		t.Error("id 0 should fail")
	}
	if ValidateBookUpdateRequest(&model.UpdateBook{ID: 1, Title: ptr("")}) == nil {
		t.Error("empty title should fail")
	}
	if ValidateBookUpdateRequest(&model.UpdateBook{ID: 1, Prix: ptr(math.NaN())}) == nil {
		t.Error("NaN price should fail")
	}
	if ValidateBookUpdateRequest(&model.UpdateBook{ID: 1, Link: ptr("not a url")}) == nil {
		t.Error("bad link should fail")
	}
}
