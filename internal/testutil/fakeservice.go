// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"kzone/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = &service.Error{Kind: service.KindRemote, Status: 404, Message: "Not Found", Body: []byte(`{"error":true,"message":"Not Found"}`)}

// Call records one Service invocation.
type Call struct {
	Method string
	Number int
	Query  service.CardQuery
	Body   any
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	boards []service.Board
	cards  map[string][]service.Card // board ID -> cards, archived ones included
	arch   map[string]map[int]bool   // board ID -> card number -> archived
	calls  []Call

	// Response is returned verbatim by the write operations.
	Response json.RawMessage

	// ForceHasMore makes every card page claim more pages exist.
	ForceHasMore bool

	// Error injection for testing
	ListBoardsErr error
	GetBoardErr   error
	ListCardsErr  map[string]error // board ID -> error
	GetCardErr    error
	WriteErr      error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		cards:        make(map[string][]service.Card),
		arch:         make(map[string]map[int]bool),
		ListCardsErr: make(map[string]error),
		Response:     json.RawMessage(`{"ok":true}`),
	}
}

// AddBoard adds a board with the given columns.
func (f *FakeService) AddBoard(id, name string, archived bool, columns ...service.Column) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards = append(f.boards, service.Board{PublicID: id, Name: name, IsArchived: archived, Columns: columns})
}

// AddCard adds a card to a board. The card's Raw form is generated from
// its fields so it prints like a server card.
func (f *FakeService) AddCard(board string, c service.Card) {
	f.addCard(board, c, false)
}

// AddArchivedCard adds a card only visible with IncludeArchived.
func (f *FakeService) AddArchivedCard(board string, c service.Card) {
	f.addCard(board, c, true)
}

func (f *FakeService) addCard(board string, c service.Card, archived bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.Board = board
	if c.Number == 0 {
		c.Number = len(f.cards[board]) + 1
	}
	if c.Raw == nil {
		raw, _ := json.Marshal(c)
		c.Raw = raw
	}
	f.cards[board] = append(f.cards[board], c)
	if f.arch[board] == nil {
		f.arch[board] = make(map[int]bool)
	}
	f.arch[board][c.Number] = archived
}

// Calls returns the recorded invocations.
func (f *FakeService) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many times method was invoked.
func (f *FakeService) CallCount(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeService) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// ListBoards implements service.Service.
func (f *FakeService) ListBoards(ctx context.Context, opts service.BoardOptions) (*service.BoardList, error) {
	f.record(Call{Method: "ListBoards"})
	if f.ListBoardsErr != nil {
		return nil, f.ListBoardsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var boards []service.Board
	for _, b := range f.boards {
		if b.IsArchived && !opts.IncludeArchived {
			continue
		}
		if !opts.IncludeColumns {
			b.Columns = nil
		}
		boards = append(boards, b)
	}
	return boardList(boards)
}

// GetBoard implements service.Service.
func (f *FakeService) GetBoard(ctx context.Context, boardID string, includeColumns bool) (*service.BoardList, error) {
	f.record(Call{Method: "GetBoard"})
	if f.GetBoardErr != nil {
		return nil, f.GetBoardErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.boards {
		if b.PublicID == boardID {
			if !includeColumns {
				b.Columns = nil
			}
			return boardList([]service.Board{b})
		}
	}
	return nil, ErrNotFound
}

// ListCards implements service.Service. Pages follow the server rule
// hasMore = count*page < totalAvailable.
func (f *FakeService) ListCards(ctx context.Context, q service.CardQuery) (*service.CardPage, error) {
	f.record(Call{Method: "ListCards", Query: q})
	if err, ok := f.ListCardsErr[q.Board]; ok && err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var visible []service.Card
	for _, c := range f.cards[q.Board] {
		if f.arch[q.Board][c.Number] && !q.IncludeArchived {
			continue
		}
		visible = append(visible, c)
	}

	start := (q.Page - 1) * q.Count
	end := min(start+q.Count, len(visible))
	page := &service.CardPage{TotalAvailable: len(visible), Cards: []service.Card{}}
	if start < len(visible) {
		page.Cards = append(page.Cards, visible[start:end]...)
	}
	page.Count = len(page.Cards)
	page.HasMore = q.Count*q.Page < len(visible) || f.ForceHasMore
	if f.ForceHasMore && len(page.Cards) == 0 {
		page.Cards = []service.Card{{Number: q.Page, Title: fmt.Sprintf("phantom %d", q.Page)}}
	}
	return page, nil
}

// GetCard implements service.Service.
func (f *FakeService) GetCard(ctx context.Context, boardID, number string) (json.RawMessage, error) {
	f.record(Call{Method: "GetCard", Body: number})
	if f.GetCardErr != nil {
		return nil, f.GetCardErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cards[boardID] {
		if fmt.Sprint(c.Number) == number {
			return c.Raw, nil
		}
	}
	return nil, ErrNotFound
}

// CreateCard implements service.Service.
func (f *FakeService) CreateCard(ctx context.Context, req *service.CreateCardRequest) (json.RawMessage, error) {
	return f.write(Call{Method: "CreateCard", Body: req})
}

// CreateCards implements service.Service.
func (f *FakeService) CreateCards(ctx context.Context, req service.CreateCardsRequest) (json.RawMessage, error) {
	return f.write(Call{Method: "CreateCards", Body: req})
}

// UpdateCard implements service.Service.
func (f *FakeService) UpdateCard(ctx context.Context, number int, req *service.UpdateCardRequest) (json.RawMessage, error) {
	return f.write(Call{Method: "UpdateCard", Number: number, Body: req})
}

// MoveCard implements service.Service.
func (f *FakeService) MoveCard(ctx context.Context, number int, req *service.MoveCardRequest) (json.RawMessage, error) {
	return f.write(Call{Method: "MoveCard", Number: number, Body: req})
}

func (f *FakeService) write(c Call) (json.RawMessage, error) {
	f.record(c)
	if f.WriteErr != nil {
		return nil, f.WriteErr
	}
	return f.Response, nil
}

// LastBody returns the JSON encoding of the most recent write body.
func (f *FakeService) LastBody() (string, error) {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Body != nil && calls[i].Method != "GetCard" {
			data, err := json.Marshal(calls[i].Body)
			return string(data), err
		}
	}
	return "", errors.New("no write recorded")
}

// boardList builds a BoardList whose Raw form wraps boards the way the
// API does.
func boardList(boards []service.Board) (*service.BoardList, error) {
	if boards == nil {
		boards = []service.Board{}
	}
	data, err := json.Marshal(struct {
		Boards []service.Board `json:"boards"`
	}{boards})
	if err != nil {
		return nil, err
	}
	var list service.BoardList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
