// Package search implements the client-side card filters. The API has no
// server-side search, so every predicate is evaluated per fetched card.
package search

import (
	"strings"

	"kzone/internal/service"
)

// Filter selects cards. Zero-valued fields do not constrain.
type Filter struct {
	// Query is a case-insensitive substring of title or description.
	Query string

	// Label, Owner and Column match case-insensitively by equality.
	Label  string
	Owner  string
	Column string

	// Priority matches the card priority textually ("1".."4").
	Priority string

	// Blocked keeps only blocked cards.
	Blocked bool
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Match reports whether c passes every set predicate.
func (f Filter) Match(c service.Card) bool {
	if f.Label != "" && !strings.EqualFold(c.Label, f.Label) {
		return false
	}
	if f.Owner != "" && !strings.EqualFold(c.Owner, f.Owner) {
		return false
	}
	if f.Column != "" && !strings.EqualFold(c.ColumnTitle, f.Column) {
		return false
	}
	if f.Priority != "" && string(c.Priority) != f.Priority {
		return false
	}
	if f.Blocked && !c.Blocked {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}
	return true
}

// Apply returns the cards of cards matching f, preserving order.
func (f Filter) Apply(cards []service.Card) []service.Card {
	out := make([]service.Card, 0, len(cards))
	for _, c := range cards {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
