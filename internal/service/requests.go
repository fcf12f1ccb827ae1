package service

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// CustomField is a single label/value pair on a card.
type CustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ParseCustomFields turns ["Label=Value", ...] into custom fields.
// Labels and values are trimmed; the first '=' splits.
func ParseCustomFields(tokens []string) ([]CustomField, error) {
	fields := make([]CustomField, 0, len(tokens))
	for _, tok := range tokens {
		label, value, ok := strings.Cut(tok, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, Validationf("invalid custom field format: %q (use Label=Value)", tok)
		}
		fields = append(fields, CustomField{Label: label, Value: strings.TrimSpace(value)})
	}
	return fields, nil
}

// Link is a card link: either a CardLink or a URLLink.
type Link interface {
	isLink()
	validate() error
}

// CardLink points at another card on the board.
type CardLink struct {
	Card int    `json:"card"`
	Type string `json:"type,omitempty"`
}

// URLLink points at an external URL.
type URLLink struct {
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

func (CardLink) isLink() {}
func (URLLink) isLink()  {}

func (l CardLink) validate() error {
	if l.Card <= 0 {
		return Validationf("invalid link target card: %d", l.Card)
	}
	return nil
}

func (l URLLink) validate() error {
	if strings.TrimSpace(l.URL) == "" {
		return Validationf("link URL required")
	}
	return nil
}

// Default link types.
const (
	LinkTypeRelated  = "related"
	LinkTypeExternal = "external"
)

// LinkTarget describes the --card/--url pair given on the command line.
type LinkTarget struct {
	Card  int
	URL   string
	Type  string
	Title string
}

// AddLink builds the link to add. Exactly one of Card or URL must be set.
func (t LinkTarget) AddLink() (Link, error) {
	switch {
	case t.Card != 0 && t.URL != "":
		return nil, Validationf("provide either --card or --url, not both")
	case t.Card != 0:
		if t.Title != "" {
			return nil, Validationf("--title applies to URL links only")
		}
		l := CardLink{Card: t.Card, Type: t.Type}
		if l.Type == "" {
			l.Type = LinkTypeRelated
		}
		return l, l.validate()
	case t.URL != "":
		l := URLLink{URL: t.URL, Type: t.Type, Title: t.Title}
		if l.Type == "" {
			l.Type = LinkTypeExternal
		}
		return l, l.validate()
	default:
		return nil, Validationf("provide either --card or --url to link")
	}
}

// RemoveLink builds the link to remove; only the target is sent.
func (t LinkTarget) RemoveLink() (Link, error) {
	switch {
	case t.Card != 0 && t.URL != "":
		return nil, Validationf("provide either --card or --url, not both")
	case t.Card != 0:
		l := CardLink{Card: t.Card}
		return l, l.validate()
	case t.URL != "":
		l := URLLink{URL: t.URL}
		return l, l.validate()
	default:
		return nil, Validationf("provide either --card or --url to unlink")
	}
}

// LinkChanges is the "links" member of an update body.
type LinkChanges struct {
	Add    []Link `json:"add,omitempty"`
	Remove []Link `json:"remove,omitempty"`
}

// CreateCardRequest is the body of POST /card.
type CreateCardRequest struct {
	Board        string        `json:"board"`
	Title        string        `json:"title"`
	ColumnID     string        `json:"columnId,omitempty"`
	Description  string        `json:"description,omitempty"`
	Owner        string        `json:"owner,omitempty"`
	Priority     string        `json:"priority,omitempty"`
	Label        string        `json:"label,omitempty"`
	Size         string        `json:"size,omitempty"`
	DueAt        string        `json:"dueAt,omitempty"`
	TemplateID   string        `json:"templateId,omitempty"`
	AddToTop     bool          `json:"addToTop"`
	Watchers     []string      `json:"watchers,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// Validate checks the request before it is sent.
func (r *CreateCardRequest) Validate() error {
	if strings.TrimSpace(r.Board) == "" {
		return Validationf("board ID required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return Validationf("card title required")
	}
	return validateCommon(r.Priority, r.Size, r.DueAt, r.Watchers)
}

// UpdateCardRequest is the body of PUT /card/{number}. Nil fields are
// omitted so that only what the caller supplied is changed.
type UpdateCardRequest struct {
	Board         *string       `json:"board,omitempty"`
	Title         *string       `json:"title,omitempty"`
	Description   *string       `json:"description,omitempty"`
	ColumnID      *string       `json:"columnId,omitempty"`
	Owner         *string       `json:"owner,omitempty"`
	Priority      *string       `json:"priority,omitempty"`
	Label         *string       `json:"label,omitempty"`
	Size          *string       `json:"size,omitempty"`
	DueAt         *string       `json:"dueAt,omitempty"`
	Blocked       *bool         `json:"blocked,omitempty"`
	BlockedBy     *string       `json:"blockedBy,omitempty"`
	BlockedReason *string       `json:"blockedReason,omitempty"`
	Watchers      []string      `json:"watchers,omitempty"`
	CustomFields  []CustomField `json:"customFields,omitempty"`
	Links         *LinkChanges  `json:"links,omitempty"`
}

// IsEmpty reports whether no field (other than the mirror board) is set.
func (r *UpdateCardRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.ColumnID == nil &&
		r.Owner == nil && r.Priority == nil && r.Label == nil &&
		r.Size == nil && r.DueAt == nil && r.Blocked == nil &&
		r.BlockedBy == nil && r.BlockedReason == nil &&
		len(r.Watchers) == 0 && len(r.CustomFields) == 0 && r.Links == nil
}

// Validate checks the request before it is sent.
func (r *UpdateCardRequest) Validate() error {
	if r.IsEmpty() {
		return Validationf("no fields to update: provide at least one field flag")
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return Validationf("card title cannot be empty")
	}
	if r.ColumnID != nil && strings.TrimSpace(*r.ColumnID) == "" {
		return Validationf("column ID cannot be empty")
	}
	if r.Links != nil {
		for _, l := range append(append([]Link{}, r.Links.Add...), r.Links.Remove...) {
			if err := l.validate(); err != nil {
				return err
			}
		}
	}
	return validateCommon(deref(r.Priority), deref(r.Size), deref(r.DueAt), r.Watchers)
}

// MoveCardRequest is the body of POST /card/{number}/move.
type MoveCardRequest struct {
	ColumnID string `json:"columnId"`
	Board    string `json:"board,omitempty"`
}

// Validate checks the request before it is sent.
func (r *MoveCardRequest) Validate() error {
	if strings.TrimSpace(r.ColumnID) == "" {
		return Validationf("column ID required (--column-id)")
	}
	return nil
}

// CreateCardsRequest is the body of POST /cards, read from a file. The
// document is kept as a generic object so unknown fields pass through.
type CreateCardsRequest map[string]any

// ParseCreateCards decodes and checks a bulk-creation document.
// defaultBoard is injected when the document names no board.
func ParseCreateCards(data []byte, defaultBoard string) (CreateCardsRequest, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Validationf("cards file must contain a JSON object: %v", err)
	}
	cards, ok := doc["cards"].([]any)
	if !ok || len(cards) == 0 {
		return nil, Validationf("cards file must contain a non-empty \"cards\" array")
	}
	for i, c := range cards {
		card, ok := c.(map[string]any)
		if !ok {
			return nil, Validationf("cards[%d] is not an object", i)
		}
		if title, _ := card["title"].(string); strings.TrimSpace(title) == "" {
			return nil, Validationf("cards[%d]: card title required", i)
		}
	}
	if b, _ := doc["board"].(string); b == "" {
		if defaultBoard == "" {
			return nil, Validationf("board ID required: set \"board\" in the file, use --board or set KANBANZONE_BOARD_ID")
		}
		doc["board"] = defaultBoard
	}
	return doc, nil
}

// ValidPriorities and ValidSizes are the values the API accepts.
var (
	ValidPriorities = []string{"1", "2", "3", "4"}
	ValidSizes      = []string{"S", "M", "L", "XL"}
)

// dueLayouts are accepted due date formats; the value is sent as given.
var dueLayouts = []string{"01/02/2006", "2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func validateCommon(priority, size, due string, watchers []string) error {
	if priority != "" && !slices.Contains(ValidPriorities, priority) {
		return Validationf("invalid priority: %s (expected 1-4)", priority)
	}
	if size != "" && !slices.Contains(ValidSizes, size) {
		return Validationf("invalid size: %s (expected S, M, L or XL)", size)
	}
	if due != "" {
		if err := ValidateDue(due); err != nil {
			return err
		}
	}
	for _, w := range watchers {
		if !strings.Contains(w, "@") {
			return Validationf("invalid watcher email: %s", w)
		}
	}
	return nil
}

// ValidateDue accepts MM/DD/YYYY and ISO-8601 dates.
func ValidateDue(s string) error {
	for _, layout := range dueLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return Validationf("invalid due date: %s (use MM/DD/YYYY or ISO 8601)", s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
