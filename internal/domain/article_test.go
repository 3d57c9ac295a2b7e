package domain

import (
	"errors"
	"testing"
)

func TestExtractedInvariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		title, body string
		wantSuccess bool
	}{
		{"title and body", "T", "B", true},
		{"title only", "T", "", true},
		{"body only", "", "B", true},
		{"neither", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Extracted("https://n.news.naver.com/a", tt.title, tt.body)
			if r.Success != tt.wantSuccess {
				t.Fatalf("Success = %v, want %v", r.Success, tt.wantSuccess)
			}
			if !r.Success {
				if r.Title != "" || r.Body != "" {
					t.Fatalf("failed result carries text: %+v", r)
				}
				if r.Error != "title and body not found" {
					t.Fatalf("unexpected error: %q", r.Error)
				}
			}
		})
	}
}

func TestFailedCarriesNoText(t *testing.T) {
	t.Parallel()

	r := Failed("https://example.com", "fetch failed: boom")
	if r.Success || r.Title != "" || r.Body != "" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.URL != "https://example.com" {
		t.Fatalf("unexpected url: %s", r.URL)
	}
}

func TestSearchQueryValidate(t *testing.T) {
	t.Parallel()

	if err := (SearchQuery{Keyword: "ai", MaxResults: 5}).Validate(); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
	if err := (SearchQuery{Keyword: "  ", MaxResults: 5}).Validate(); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for blank keyword, got %v", err)
	}
	if err := (SearchQuery{Keyword: "ai", MaxResults: 0}).Validate(); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for zero bound, got %v", err)
	}
}
