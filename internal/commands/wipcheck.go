package commands

import (
	"context"
	"flag"
	"io"

	"kzone/internal/config"
	"kzone/internal/paging"
	"kzone/internal/service"
	"kzone/internal/wip"
)

func init() {
	Register(&WIPCheckCmd{})
}

// WIPCheckCmd implements the wip-check command.
type WIPCheckCmd struct{}

func (c *WIPCheckCmd) Name() string       { return "wip-check" }
func (c *WIPCheckCmd) Synopsis() string   { return "Check WIP limits across board columns" }
func (c *WIPCheckCmd) Usage() string      { return "kzone wip-check [--board <id>]" }
func (c *WIPCheckCmd) NeedsService() bool { return true }

func (c *WIPCheckCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WIPCheckCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	board, err := requireBoard(cfg)
	if err != nil {
		return fail(out, err)
	}

	list, err := svc.GetBoard(ctx, board, true)
	if err != nil {
		return fail(out, err)
	}
	if len(list.Boards) == 0 {
		return fail(out, &service.Error{Kind: service.KindRemote, Message: "board not found: " + board, Body: list.Raw})
	}

	// Active cards only; archived cards hold no WIP.
	cards, err := paging.All(ctx, svc, service.CardQuery{Board: board, Count: service.MaxPageSize}, paging.Options{Logger: cfg.Logger})
	if err != nil {
		return fail(out, err)
	}

	return emit(out, wip.Aggregate(board, list.Boards[0].Columns, cards))
}
