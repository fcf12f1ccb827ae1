package service

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Column is a workflow stage of a board.
type Column struct {
	ColumnID       string  `json:"columnId"`
	ParentID       *string `json:"parentId"`
	Title          string  `json:"title"`
	Type           string  `json:"type"` // "CARD" or "PARENT"
	State          string  `json:"columnState"`
	MinWIP         *int    `json:"minWIP"`
	MaxWIP         *int    `json:"maxWIP"`
	EntryAgreement string  `json:"entryAgreement,omitempty"`
}

// ColumnTypeCard marks columns that hold cards.
const ColumnTypeCard = "CARD"

// UnmarshalJSON accepts both bare columns and {"ColumnItem": {...}}.
func (c *Column) UnmarshalJSON(data []byte) error {
	type plain Column
	var p plain
	if err := json.Unmarshal(unwrap(data, "ColumnItem"), &p); err != nil {
		return err
	}
	*c = Column(p)
	return nil
}

// Board is a kanban workspace.
type Board struct {
	PublicID   string   `json:"publicId"`
	Name       string   `json:"name"`
	IsArchived bool     `json:"isArchived"`
	Columns    []Column `json:"columns,omitempty"`
}

// UnmarshalJSON accepts both bare boards and {"BoardItem": {...}}.
func (b *Board) UnmarshalJSON(data []byte) error {
	type plain Board
	var p plain
	if err := json.Unmarshal(unwrap(data, "BoardItem"), &p); err != nil {
		return err
	}
	*b = Board(p)
	return nil
}

// BoardList is the response of GET /boards and GET /board/{id}.
// Raw holds the server document for verbatim output.
type BoardList struct {
	Boards []Board
	Raw    json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *BoardList) UnmarshalJSON(data []byte) error {
	var body struct {
		Boards []Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("decode boards: %w", err)
	}
	l.Boards = body.Boards
	l.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the server document.
func (l BoardList) MarshalJSON() ([]byte, error) {
	if len(l.Raw) > 0 {
		return l.Raw, nil
	}
	return json.Marshal(struct {
		Boards []Board `json:"boards"`
	}{l.Boards})
}

// Card is a work item. Only the fields the client reasons about are
// decoded; Raw keeps the full server representation.
type Card struct {
	Board       string `json:"board"`
	ColumnID    string `json:"columnId"`
	ColumnTitle string `json:"columnTitle"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Blocked     bool   `json:"blocked"`
	Owner       string `json:"owner"`
	Label       string `json:"label"`
	Priority    Scalar `json:"priority"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts both bare cards and {"CardItem": {...}}. Top-level
// fields take precedence over CardItem ones, as the API mixes both.
func (c *Card) UnmarshalJSON(data []byte) error {
	type plain Card
	var inner plain
	if item := unwrap(data, "CardItem"); !bytes.Equal(item, data) {
		if err := json.Unmarshal(item, &inner); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	*c = Card(inner)
	c.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the server representation when known.
func (c Card) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type plain Card
	return json.Marshal(plain(c))
}

// CardPage is one page of GET /cards.
type CardPage struct {
	Count          int    `json:"count"`
	TotalAvailable int    `json:"totalAvailable"`
	HasMore        bool   `json:"hasMore"`
	Cards          []Card `json:"cards"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *CardPage) UnmarshalJSON(data []byte) error {
	type plain CardPage
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode cards: %w", err)
	}
	*p = CardPage(v)
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the server document.
func (p CardPage) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	type plain CardPage
	return json.Marshal(plain(p))
}

// Scalar is a JSON number or string kept in its textual form; the API
// is not consistent about how it sends priorities.
type Scalar string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Scalar(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = Scalar(num.String())
	return nil
}

// unwrap returns the value under key when data is an object holding it.
func unwrap(data []byte, key string) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return data
	}
	if inner, ok := env[key]; ok && len(inner) > 0 && inner[0] == '{' {
		return inner
	}
	return data
}
