// Package service defines the backend-agnostic interface for KanbanZone
// operations, along with the request and response types it exchanges.
package service

import (
	"context"
	"encoding/json"
)

// Service defines the interface for KanbanZone API operations.
// Commands never build HTTP requests themselves.
type Service interface {
	// ListBoards returns the organization's boards.
	ListBoards(ctx context.Context, opts BoardOptions) (*BoardList, error)

	// GetBoard returns a single board wrapped in a BoardList, as the API does.
	GetBoard(ctx context.Context, boardID string, includeColumns bool) (*BoardList, error)

	// ListCards returns one page of a board's cards.
	ListCards(ctx context.Context, q CardQuery) (*CardPage, error)

	// GetCard returns a card by its board-scoped number.
	GetCard(ctx context.Context, boardID, number string) (json.RawMessage, error)

	// CreateCard creates one card.
	CreateCard(ctx context.Context, req *CreateCardRequest) (json.RawMessage, error)

	// CreateCards creates many cards from a bulk document.
	CreateCards(ctx context.Context, req CreateCardsRequest) (json.RawMessage, error)

	// UpdateCard applies a partial update (including link changes).
	UpdateCard(ctx context.Context, number int, req *UpdateCardRequest) (json.RawMessage, error)

	// MoveCard moves a card to another column.
	MoveCard(ctx context.Context, number int, req *MoveCardRequest) (json.RawMessage, error)
}

// CardLister is the part of Service the pagination walker needs.
type CardLister interface {
	ListCards(ctx context.Context, q CardQuery) (*CardPage, error)
}

// BoardOptions are the query flags of GET /boards.
type BoardOptions struct {
	IncludeArchived bool
	IncludeColumns  bool
}

// MaxPageSize is the largest page the API serves.
const MaxPageSize = 100

// CardQuery selects a page of GET /cards.
type CardQuery struct {
	Board string

	// Page is 1-based.
	Page int

	// Count is the page size, 1..MaxPageSize.
	Count int

	// DaysSinceUpdate filters by recency when non-nil.
	DaysSinceUpdate *int

	IncludeArchived bool
}

// Validate checks the query before it is sent.
func (q CardQuery) Validate() error {
	if q.Board == "" {
		return Validationf("board ID required")
	}
	if q.Page < 1 {
		return Validationf("invalid page number: %d", q.Page)
	}
	if q.Count < 1 || q.Count > MaxPageSize {
		return Validationf("invalid count: %d (expected 1-%d)", q.Count, MaxPageSize)
	}
	if q.DaysSinceUpdate != nil && *q.DaysSinceUpdate < 0 {
		return Validationf("invalid days since update: %d", *q.DaysSinceUpdate)
	}
	return nil
}
