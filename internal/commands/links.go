package commands

import (
	"context"
	"flag"
	"io"

	"kzone/internal/config"
	"kzone/internal/service"
)

func init() {
	Register(&LinkCardCmd{})
	Register(&UnlinkCardCmd{})
}

// LinkCardCmd implements the link-card command.
type LinkCardCmd struct {
	id          int
	target      service.LinkTarget
	mirrorBoard string
}

func (c *LinkCardCmd) Name() string     { return "link-card" }
func (c *LinkCardCmd) Synopsis() string { return "Add a link to a card" }
func (c *LinkCardCmd) Usage() string {
	return "kzone link-card --id <n> (--card <n> | --url <url> [--title <text>]) [--type <type>] [--mirror-board <id>]"
}
func (c *LinkCardCmd) NeedsService() bool { return true }

func (c *LinkCardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.id, "id", 0, "")
	fs.IntVar(&c.target.Card, "card", 0, "")
	fs.StringVar(&c.target.URL, "url", "", "")
	fs.StringVar(&c.target.Type, "type", "", "")
	fs.StringVar(&c.target.Title, "title", "", "")
	fs.StringVar(&c.mirrorBoard, "mirror-board", "", "")
}

func (c *LinkCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	if err := requireCardNumber(c.id); err != nil {
		return fail(out, err)
	}
	link, err := c.target.AddLink()
	if err != nil {
		return fail(out, err)
	}
	return runLinkUpdate(ctx, svc, c.id, c.mirrorBoard, &service.LinkChanges{Add: []service.Link{link}}, out)
}

// UnlinkCardCmd implements the unlink-card command.
type UnlinkCardCmd struct {
	id          int
	target      service.LinkTarget
	mirrorBoard string
}

func (c *UnlinkCardCmd) Name() string     { return "unlink-card" }
func (c *UnlinkCardCmd) Synopsis() string { return "Remove a link from a card" }
func (c *UnlinkCardCmd) Usage() string {
	return "kzone unlink-card --id <n> (--card <n> | --url <url>) [--mirror-board <id>]"
}
func (c *UnlinkCardCmd) NeedsService() bool { return true }

func (c *UnlinkCardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.id, "id", 0, "")
	fs.IntVar(&c.target.Card, "card", 0, "")
	fs.StringVar(&c.target.URL, "url", "", "")
	fs.StringVar(&c.mirrorBoard, "mirror-board", "", "")
}

func (c *UnlinkCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	if err := requireCardNumber(c.id); err != nil {
		return fail(out, err)
	}
	link, err := c.target.RemoveLink()
	if err != nil {
		return fail(out, err)
	}
	return runLinkUpdate(ctx, svc, c.id, c.mirrorBoard, &service.LinkChanges{Remove: []service.Link{link}}, out)
}

// runLinkUpdate sends a link change as a card update.
func runLinkUpdate(ctx context.Context, svc service.Service, id int, mirrorBoard string, links *service.LinkChanges, out io.Writer) int {
	req := &service.UpdateCardRequest{Board: mirror(mirrorBoard), Links: links}
	if err := req.Validate(); err != nil {
		return fail(out, err)
	}
	resp, err := svc.UpdateCard(ctx, id, req)
	if err != nil {
		return fail(out, err)
	}
	return emit(out, resp)
}
