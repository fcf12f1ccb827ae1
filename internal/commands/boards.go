package commands

import (
	"context"
	"flag"
	"io"

	"kzone/internal/config"
	"kzone/internal/service"
)

func init() {
	Register(&BoardsCmd{})
	Register(&BoardCmd{})
}

// BoardsCmd implements the boards command.
type BoardsCmd struct {
	includeArchived bool
	includeColumns  bool
}

func (c *BoardsCmd) Name() string       { return "boards" }
func (c *BoardsCmd) Synopsis() string   { return "List all boards with metrics" }
func (c *BoardsCmd) Usage() string      { return "kzone boards [--include-archived] [--include-columns]" }
func (c *BoardsCmd) NeedsService() bool { return true }

func (c *BoardsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.includeArchived, "include-archived", false, "")
	fs.BoolVar(&c.includeColumns, "include-columns", false, "")
}

func (c *BoardsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	list, err := svc.ListBoards(ctx, service.BoardOptions{
		IncludeArchived: c.includeArchived,
		IncludeColumns:  c.includeColumns,
	})
	if err != nil {
		return fail(out, err)
	}
	return emit(out, list)
}

// BoardCmd implements the board command.
type BoardCmd struct {
	includeColumns bool
}

func (c *BoardCmd) Name() string       { return "board" }
func (c *BoardCmd) Synopsis() string   { return "Get a board's details" }
func (c *BoardCmd) Usage() string      { return "kzone board [--board <id>] [--include-columns]" }
func (c *BoardCmd) NeedsService() bool { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.includeColumns, "include-columns", false, "")
}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	board, err := requireBoard(cfg)
	if err != nil {
		return fail(out, err)
	}
	list, err := svc.GetBoard(ctx, board, c.includeColumns)
	if err != nil {
		return fail(out, err)
	}
	return emit(out, list)
}
