package commands

import (
	"context"
	"flag"
	"io"

	"kzone/internal/config"
	"kzone/internal/service"
)

func init() {
	Register(&UpdateCardCmd{})
	Register(&MoveCardCmd{})
}

// UpdateCardCmd implements the update-card command.
type UpdateCardCmd struct {
	id            int
	fields        cardFields
	blocked       optBool
	blockedBy     optString
	blockedReason optString
	mirrorBoard   string
}

func (c *UpdateCardCmd) Name() string     { return "update-card" }
func (c *UpdateCardCmd) Synopsis() string { return "Update a card's fields" }
func (c *UpdateCardCmd) Usage() string {
	return "kzone update-card --id <n> [card fields] [--blocked true|false] [--blocked-by <email>] [--blocked-reason <text>] [--mirror-board <id>]"
}
func (c *UpdateCardCmd) NeedsService() bool { return true }

func (c *UpdateCardCmd) RegisterFlags(fs *flag.FlagSet) {
	c.blocked = optBool{}
	c.blockedBy = optString{}
	c.blockedReason = optString{}
	fs.IntVar(&c.id, "id", 0, "")
	c.fields.register(fs)
	fs.Var(&c.blocked, "blocked", "")
	fs.Var(&c.blockedBy, "blocked-by", "")
	fs.Var(&c.blockedReason, "blocked-reason", "")
	fs.StringVar(&c.mirrorBoard, "mirror-board", "", "")
}

func (c *UpdateCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	if err := requireCardNumber(c.id); err != nil {
		return fail(out, err)
	}
	req, err := c.request()
	if err != nil {
		return fail(out, err)
	}

	resp, err := svc.UpdateCard(ctx, c.id, req)
	if err != nil {
		return fail(out, err)
	}
	return emit(out, resp)
}

// request builds the partial-update body from the flags actually given.
func (c *UpdateCardCmd) request() (*service.UpdateCardRequest, error) {
	f := &c.fields
	req := &service.UpdateCardRequest{
		Board:         mirror(c.mirrorBoard),
		Title:         f.title.ptr(),
		Description:   f.description.ptr(),
		ColumnID:      f.columnID.ptr(),
		Owner:         f.owner.ptr(),
		Priority:      f.priority.ptr(),
		Label:         f.label.ptr(),
		Size:          f.size.ptr(),
		DueAt:         f.due.ptr(),
		Blocked:       c.blocked.ptr(),
		BlockedBy:     c.blockedBy.ptr(),
		BlockedReason: c.blockedReason.ptr(),
		Watchers:      f.watchers,
	}
	if len(f.customFields) > 0 {
		custom, err := service.ParseCustomFields(f.customFields)
		if err != nil {
			return nil, err
		}
		req.CustomFields = custom
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// MoveCardCmd implements the move-card command.
type MoveCardCmd struct {
	id          int
	columnID    string
	mirrorBoard string
}

func (c *MoveCardCmd) Name() string     { return "move-card" }
func (c *MoveCardCmd) Synopsis() string { return "Move a card to a different column" }
func (c *MoveCardCmd) Usage() string {
	return "kzone move-card --id <n> --column-id <id> [--mirror-board <id>]"
}
func (c *MoveCardCmd) NeedsService() bool { return true }

func (c *MoveCardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.id, "id", 0, "")
	fs.StringVar(&c.columnID, "column-id", "", "")
	fs.StringVar(&c.mirrorBoard, "mirror-board", "", "")
}

func (c *MoveCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := noArgs(args); err != nil {
		return fail(out, err)
	}
	if err := requireCardNumber(c.id); err != nil {
		return fail(out, err)
	}
	req := &service.MoveCardRequest{ColumnID: c.columnID, Board: c.mirrorBoard}
	if err := req.Validate(); err != nil {
		return fail(out, err)
	}

	resp, err := svc.MoveCard(ctx, c.id, req)
	if err != nil {
		return fail(out, err)
	}
	return emit(out, resp)
}

func requireCardNumber(id int) error {
	if id <= 0 {
		return service.Validationf("card number required (--id)")
	}
	return nil
}

// mirror returns the board to send for a mirrored card, or nil.
func mirror(board string) *string {
	if board == "" {
		return nil
	}
	return &board
}
