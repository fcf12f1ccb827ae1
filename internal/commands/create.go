package commands

import (
	"context"
	"flag"
	"io"
	"os"

	"kzone/internal/config"
	"kzone/internal/service"
)

func init() {
	Register(&CreateCardCmd{})
	Register(&CreateCardsCmd{})
}

// cardFields are the flags shared by create-card and update-card.
type cardFields struct {
	title        optString
	columnID     optString
	description  optString
	owner        optString
	priority     optString
	label        optString
	size         optString
	due          optString
	watchers     stringList
	customFields stringList
}

func (f *cardFields) register(fs *flag.FlagSet) {
	*f = cardFields{}
	fs.Var(&f.title, "title", "")
	fs.Var(&f.columnID, "column-id", "")
	fs.Var(&f.description, "description", "")
	fs.Var(&f.owner, "owner", "")
	fs.Var(&f.priority, "priority", "")
	fs.Var(&f.label, "label", "")
	fs.Var(&f.size, "size", "")
	fs.Var(&f.due, "due", "")
	fs.Var(&f.watchers, "watcher", "")
	fs.Var(&f.customFields, "custom-field", "")
}

// CreateCardCmd implements the create-card command.
type CreateCardCmd struct {
	fields     cardFields
	templateID string
	addToTop   bool
}

func (c *CreateCardCmd) Name() string     { return "create-card" }
func (c *CreateCardCmd) Synopsis() string { return "Create a single card" }
func (c *CreateCardCmd) Usage() string {
	return "kzone create-card --title <title> [--column-id <id>] [card fields] [--template-id <id>] [--add-to-top]"
}
func (c *CreateCardCmd) NeedsService() bool { return true }

func (c *CreateCardCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fields.register(fs)
	fs.StringVar(&c.templateID, "template-id", "", "")
	fs.BoolVar(&c.addToTop, "add-to-top", false, "")
}

func (c *CreateCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	board, err := requireBoard(cfg)
	if err != nil {
		return fail(out, err)
	}
	req, err := c.request(board)
	if err != nil {
		return fail(out, err)
	}

	resp, err := svc.CreateCard(ctx, req)
	if err != nil {
		return fail(out, err)
	}
	return emit(out, resp)
}

// request builds and validates the creation body.
func (c *CreateCardCmd) request(board string) (*service.CreateCardRequest, error) {
	f := &c.fields
	custom, err := service.ParseCustomFields(f.customFields)
	if err != nil {
		return nil, err
	}
	req := &service.CreateCardRequest{
		Board:       board,
		Title:       f.title.value,
		ColumnID:    f.columnID.value,
		Description: f.description.value,
		Owner:       f.owner.value,
		Priority:    f.priority.value,
		Label:       f.label.value,
		Size:        f.size.value,
		DueAt:       f.due.value,
		TemplateID:  c.templateID,
		AddToTop:    c.addToTop,
		Watchers:    f.watchers,
	}
	if len(custom) > 0 {
		req.CustomFields = custom
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// CreateCardsCmd implements the create-cards command.
type CreateCardsCmd struct {
	file string
}

func (c *CreateCardsCmd) Name() string       { return "create-cards" }
func (c *CreateCardsCmd) Synopsis() string   { return "Create multiple cards from a JSON file" }
func (c *CreateCardsCmd) Usage() string      { return "kzone create-cards --file <path>" }
func (c *CreateCardsCmd) NeedsService() bool { return true }

func (c *CreateCardsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "file", "", "")
}

func (c *CreateCardsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	if c.file == "" {
		return fail(out, service.Validationf("cards file required (--file)"))
	}
	data, err := os.ReadFile(c.file)
	if err != nil {
		return fail(out, service.Validationf("read cards file: %v", err))
	}
	req, err := service.ParseCreateCards(data, cfg.Board)
	if err != nil {
		return fail(out, err)
	}

	resp, err := svc.CreateCards(ctx, req)
	if err != nil {
		return fail(out, err)
	}
	return emit(out, resp)
}
