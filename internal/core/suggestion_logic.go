package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const maxSuggestionTitleLen = 80

// Normalize cleans up LLM output, dealing with common formatting issues
// before validation.
func (s *ListingSuggestion) Normalize() {
	s.SuggestedPrice = strings.TrimSpace(s.SuggestedPrice)
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)

	if strings.ToLower(s.SuggestedPrice) == "null" {
		s.SuggestedPrice = ""
	}
	// Models occasionally prefix a currency symbol despite the schema.
	s.SuggestedPrice = strings.TrimPrefix(s.SuggestedPrice, "$")

	keywords := s.Keywords[:0]
	for _, k := range s.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, strings.ToLower(k))
		}
	}
	s.Keywords = keywords
}

// Validate enforces the rules a suggestion must satisfy before it is shown
// to the operator. Price must parse as a non-negative decimal; a negative
// "suggested price" is never meaningful, unlike a sale's profit.
func (s *ListingSuggestion) Validate() error {
	if s.Title == "" {
		return errors.New("suggestion must include a title")
	}
	if len(s.Title) > maxSuggestionTitleLen {
		return fmt.Errorf("title exceeds %d characters", maxSuggestionTitleLen)
	}

	if s.SuggestedPrice == "" {
		return errors.New("suggestion must include a price")
	}
	price, err := decimal.NewFromString(s.SuggestedPrice)
	if err != nil {
		return fmt.Errorf("invalid suggested price %q: %v", s.SuggestedPrice, err)
	}
	if price.IsNegative() {
		return fmt.Errorf("suggested price cannot be negative, got %s", price)
	}

	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("confidence must be within [0, 1], got %g", s.Confidence)
	}
	return nil
}

// Price returns the suggested price as a decimal. Call Validate first.
func (s *ListingSuggestion) Price() decimal.Decimal {
	price, _ := decimal.NewFromString(s.SuggestedPrice)
	return price
}
