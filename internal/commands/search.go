package commands

import (
	"context"
	"flag"
	"io"

	"kzone/internal/config"
	"kzone/internal/paging"
	"kzone/internal/service"
)

func init() {
	Register(&SearchCardsCmd{})
}

// SearchCardsCmd implements the search-cards command.
type SearchCardsCmd struct {
	filters         filterFlags
	includeArchived bool
}

func (c *SearchCardsCmd) Name() string     { return "search-cards" }
func (c *SearchCardsCmd) Synopsis() string { return "Search cards across all boards" }
func (c *SearchCardsCmd) Usage() string {
	return "kzone search-cards [--query <text>] [--label <l>] [--owner <email>] [--priority <p>] [--blocked] [--include-archived]"
}
func (c *SearchCardsCmd) NeedsService() bool { return true }

func (c *SearchCardsCmd) RegisterFlags(fs *flag.FlagSet) {
	c.filters.register(fs, false)
	fs.BoolVar(&c.includeArchived, "include-archived", false, "")
}

type searchResult struct {
	Count int            `json:"count"`
	Cards []service.Card `json:"cards"`
}

func (c *SearchCardsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	filter := c.filters.filter()
	if filter.IsZero() {
		return fail(out, service.Validationf("provide --query and/or filter flags (--label, --owner, --priority, --blocked)"))
	}

	boards, err := c.boards(ctx, cfg, svc)
	if err != nil {
		return fail(out, err)
	}

	results := []service.Card{}
	for _, board := range boards {
		q := service.CardQuery{
			Board:           board,
			Count:           service.MaxPageSize,
			IncludeArchived: c.includeArchived,
		}
		cards, err := paging.Collect(ctx, svc, q, paging.Options{Logger: cfg.Logger}, filter.Match)
		if err != nil {
			return fail(out, err)
		}
		results = append(results, cards...)
	}

	return emit(out, searchResult{Count: len(results), Cards: results})
}

// boards returns the boards to search: the one given with --board, or
// every non-archived board of the organization.
func (c *SearchCardsCmd) boards(ctx context.Context, cfg *config.Config, svc service.Service) ([]string, error) {
	if cfg.BoardExplicit {
		return []string{cfg.Board}, nil
	}
	list, err := svc.ListBoards(ctx, service.BoardOptions{})
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, b := range list.Boards {
		if b.IsArchived || b.PublicID == "" {
			continue
		}
		ids = append(ids, b.PublicID)
	}
	return ids, nil
}
