package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"kzone/internal/config"
	"kzone/internal/paging"
	"kzone/internal/service"
)

func init() {
	Register(&CardsCmd{})
	Register(&CardCmd{})
}

// CardsCmd implements the cards command.
type CardsCmd struct {
	page            int
	count           int
	daysSinceUpdate optInt
	includeArchived bool
	filters         filterFlags
}

func (c *CardsCmd) Name() string     { return "cards" }
func (c *CardsCmd) Synopsis() string { return "List cards on a board" }
func (c *CardsCmd) Usage() string {
	return "kzone cards [--page <n>] [--count <n>] [--days-since-update <n>] [--include-archived] [filters]"
}
func (c *CardsCmd) NeedsService() bool { return true }

func (c *CardsCmd) RegisterFlags(fs *flag.FlagSet) {
	c.daysSinceUpdate = optInt{}
	fs.IntVar(&c.page, "page", 1, "")
	fs.IntVar(&c.count, "count", service.MaxPageSize, "")
	fs.Var(&c.daysSinceUpdate, "days-since-update", "")
	fs.BoolVar(&c.includeArchived, "include-archived", false, "")
	c.filters.register(fs, true)
}

// filteredCards is printed when client-side filters are applied; it
// mirrors the shape of a server page.
type filteredCards struct {
	Count          int            `json:"count"`
	TotalAvailable int            `json:"totalAvailable"`
	Cards          []service.Card `json:"cards"`
	HasMore        bool           `json:"hasMore"`
}

func (c *CardsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	board, err := requireBoard(cfg)
	if err != nil {
		return fail(out, err)
	}

	q := service.CardQuery{
		Board:           board,
		Page:            c.page,
		Count:           c.count,
		DaysSinceUpdate: c.daysSinceUpdate.ptr(),
		IncludeArchived: c.includeArchived,
	}
	if err := q.Validate(); err != nil {
		return fail(out, err)
	}

	filter := c.filters.filter()
	if filter.IsZero() {
		page, err := svc.ListCards(ctx, q)
		if err != nil {
			return fail(out, err)
		}
		return emit(out, page)
	}

	// Filters are evaluated locally over every page.
	cards, err := paging.Collect(ctx, svc, q, paging.Options{Logger: cfg.Logger}, filter.Match)
	if err != nil {
		return fail(out, err)
	}
	if cards == nil {
		cards = []service.Card{}
	}
	return emit(out, filteredCards{
		Count:          len(cards),
		TotalAvailable: len(cards),
		Cards:          cards,
		HasMore:        false,
	})
}

// CardCmd implements the card command.
type CardCmd struct {
	number string
}

func (c *CardCmd) Name() string       { return "card" }
func (c *CardCmd) Synopsis() string   { return "Get a single card by number" }
func (c *CardCmd) Usage() string      { return "kzone card --number <n>" }
func (c *CardCmd) NeedsService() bool { return true }

func (c *CardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.number, "number", "", "")
}

func (c *CardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	number := strings.TrimSpace(c.number)
	if number == "" {
		return fail(out, service.Validationf("card number required (--number)"))
	}
	if !isAllDigits(number) {
		return fail(out, service.Validationf("invalid card number: %s", number))
	}
	board, err := requireBoard(cfg)
	if err != nil {
		return fail(out, err)
	}

	card, err := svc.GetCard(ctx, board, number)
	if err != nil {
		return fail(out, err)
	}
	return emit(out, card)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
