// Package paging walks the paginated card listing of a board.
package paging

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"kzone/internal/service"
)

// DefaultMaxPages caps a walk so a server that keeps answering
// hasMore=true cannot loop forever.
const DefaultMaxPages = 10000

// Options tune a walk.
type Options struct {
	// MaxPages is the hard page cap; DefaultMaxPages when zero.
	MaxPages int

	// Logger receives one debug record per page. May be nil.
	Logger *slog.Logger
}

// Pages returns a lazy sequence of card pages for q, starting at page 1.
// The sequence ends after a page with hasMore=false or an empty page.
// Errors are yielded once and end the sequence; exceeding the page cap
// yields an exhaustion error.
func Pages(ctx context.Context, lister service.CardLister, q service.CardQuery, opts Options) iter.Seq2[*service.CardPage, error] {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if q.Count == 0 {
		q.Count = service.MaxPageSize
	}

	return func(yield func(*service.CardPage, error) bool) {
		for page := 1; ; page++ {
			if page > maxPages {
				yield(nil, &service.Error{
					Kind:    service.KindExhaustion,
					Message: fmt.Sprintf("board %s: server still reports more cards after %d pages", q.Board, maxPages),
					Err:     service.ErrExhausted,
				})
				return
			}
			if err := ctx.Err(); err != nil {
				yield(nil, service.TransportError(err))
				return
			}

			q.Page = page
			p, err := lister.ListCards(ctx, q)
			if err != nil {
				yield(nil, err)
				return
			}
			if opts.Logger != nil {
				opts.Logger.Debug("page", "board", q.Board, "page", page,
					"cards", len(p.Cards), "has_more", p.HasMore)
			}
			if !yield(p, nil) {
				return
			}
			if !p.HasMore || len(p.Cards) == 0 {
				return
			}
		}
	}
}

// All drains Pages and returns every card in server order.
func All(ctx context.Context, lister service.CardLister, q service.CardQuery, opts Options) ([]service.Card, error) {
	var cards []service.Card
	for p, err := range Pages(ctx, lister, q, opts) {
		if err != nil {
			return nil, err
		}
		cards = append(cards, p.Cards...)
	}
	return cards, nil
}

// Collect drains Pages and keeps the cards accepted by keep.
func Collect(ctx context.Context, lister service.CardLister, q service.CardQuery, opts Options, keep func(service.Card) bool) ([]service.Card, error) {
	var cards []service.Card
	for p, err := range Pages(ctx, lister, q, opts) {
		if err != nil {
			return nil, err
		}
		for _, c := range p.Cards {
			if keep(c) {
				cards = append(cards, c)
			}
		}
	}
	return cards, nil
}
