package core_test

import (
	"testing"

	"resale-office/internal/core"
)

func TestListingSuggestion_NormalizationAndValidation(t *testing.T) {
	tests := []struct {
		name       string
		price      string
		title      string
		confidence float64
		expectErr  bool
	}{
		{
			name:       "happy path",
			price:      "24.99",
			title:      "Vintage Levi's 501 Jeans 32x30",
			confidence: 0.85,
			expectErr:  false,
		},
		{
			name:       "currency symbol stripped",
			price:      "$19.50",
			title:      "Nike Air Zoom Running Shoes",
			confidence: 0.7,
			expectErr:  false,
		},
		{
			name:       "null price",
			price:      "null",
			title:      "Cast Iron Skillet",
			confidence: 0.5,
			expectErr:  true,
		},
		{
			name:       "negative price",
			price:      "-5.00",
			title:      "Broken Headphones For Parts",
			confidence: 0.9,
			expectErr:  true,
		},
		{
			name:       "missing title",
			price:      "10.00",
			title:      "  ",
			confidence: 0.5,
			expectErr:  true,
		},
		{
			name:       "confidence out of range",
			price:      "10.00",
			title:      "Board Game Lot",
			confidence: 1.3,
			expectErr:  true,
		},
		{
			name:       "non-numeric price",
			price:      "about twenty",
			title:      "Mystery Box",
			confidence: 0.2,
			expectErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := core.ListingSuggestion{
				SuggestedPrice: tt.price,
				Title:          tt.title,
				Confidence:     tt.confidence,
				Keywords:       []string{" Vintage ", "", "denim"},
			}
			s.Normalize()
			err := s.Validate()

			if tt.expectErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v, suggestion: %+v", err, s)
			}
		})
	}
}

func TestListingSuggestion_KeywordNormalization(t *testing.T) {
	s := core.ListingSuggestion{
		SuggestedPrice: "12.00",
		Title:          "Wool Peacoat",
		Confidence:     0.6,
		Keywords:       []string{" Wool ", "", "PEACOAT", "  "},
	}
	s.Normalize()

	want := []string{"wool", "peacoat"}
	if len(s.Keywords) != len(want) {
		t.Fatalf("expected %d keywords, got %d: %v", len(want), len(s.Keywords), s.Keywords)
	}
	for i, k := range want {
		if s.Keywords[i] != k {
			t.Errorf("keyword %d: expected %q, got %q", i, k, s.Keywords[i])
		}
	}
}
