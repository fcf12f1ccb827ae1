package service_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"kzone/internal/service"
)

func TestBoardList_UnwrapsBoardItem(t *testing.T) {
	doc := `{"boards":[
		{"BoardItem":{"publicId":"b1","name":"Dev","isArchived":false,
			"columns":[{"ColumnItem":{"columnId":"c1","title":"Doing","type":"CARD","columnState":"In Progress","minWIP":2,"maxWIP":5}}]}},
		{"publicId":"b2","name":"Old","isArchived":true}
	]}`

	var list service.BoardList
	if err := json.Unmarshal([]byte(doc), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(list.Boards))
	}

	b := list.Boards[0]
	if b.PublicID != "b1" || b.Name != "Dev" || b.IsArchived {
		t.Errorf("unexpected first board: %+v", b)
	}
	if len(b.Columns) != 1 {
		t.Fatalf("expected 1 column, got %d", len(b.Columns))
	}
	col := b.Columns[0]
	if col.ColumnID != "c1" || col.Type != service.ColumnTypeCard || col.State != "In Progress" {
		t.Errorf("unexpected column: %+v", col)
	}
	if col.MinWIP == nil || *col.MinWIP != 2 || col.MaxWIP == nil || *col.MaxWIP != 5 {
		t.Errorf("unexpected WIP limits: %v %v", col.MinWIP, col.MaxWIP)
	}
	if !list.Boards[1].IsArchived {
		t.Error("expected second board archived")
	}

	out, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(doc)); err != nil {
		t.Fatalf("compact: %v", err)
	}
	if string(out) != compact.String() {
		t.Errorf("expected BoardList to re-emit the server document, got %s", out)
	}
}

func TestColumn_NullLimits(t *testing.T) {
	var col service.Column
	if err := json.Unmarshal([]byte(`{"columnId":"c","type":"PARENT","parentId":null,"minWIP":null,"maxWIP":null}`), &col); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if col.MinWIP != nil || col.MaxWIP != nil || col.ParentID != nil {
		t.Errorf("expected nil limits and parent, got %+v", col)
	}
}

func TestCard_CardItemAndRaw(t *testing.T) {
	doc := `{"columnTitle":"Doing","CardItem":{"number":7,"title":"Fix login","description":"OAuth flow","blocked":true,"owner":"a@x.io","label":"Bug","priority":2,"columnId":"c1"}}`

	var card service.Card
	if err := json.Unmarshal([]byte(doc), &card); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if card.Number != 7 || card.Title != "Fix login" || !card.Blocked || card.ColumnID != "c1" {
		t.Errorf("unexpected card: %+v", card)
	}
	if card.ColumnTitle != "Doing" {
		t.Errorf("expected top-level columnTitle, got %q", card.ColumnTitle)
	}
	if card.Priority != "2" {
		t.Errorf("expected numeric priority as text, got %q", card.Priority)
	}

	out, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != doc {
		t.Errorf("expected verbatim card, got %s", out)
	}
}

func TestCard_StringPriority(t *testing.T) {
	var card service.Card
	if err := json.Unmarshal([]byte(`{"number":1,"priority":"3"}`), &card); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if card.Priority != "3" {
		t.Errorf("expected priority 3, got %q", card.Priority)
	}
}

func TestCardPage(t *testing.T) {
	doc := `{"count":2,"totalAvailable":5,"hasMore":true,"cards":[{"number":1},{"number":2}]}`
	var page service.CardPage
	if err := json.Unmarshal([]byte(doc), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if page.Count != 2 || page.TotalAvailable != 5 || !page.HasMore || len(page.Cards) != 2 {
		t.Errorf("unexpected page: %+v", page)
	}
	if page.Cards[1].Number != 2 {
		t.Errorf("expected second card number 2, got %d", page.Cards[1].Number)
	}
}

func TestError(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	err := service.TransportError(inner)
	if !errors.Is(err, inner) {
		t.Error("expected transport error to unwrap to its cause")
	}
	if service.KindOf(err) != service.KindTransport {
		t.Errorf("expected transport kind, got %q", service.KindOf(err))
	}
	if service.KindOf(inner) != "" {
		t.Error("expected empty kind for foreign errors")
	}

	remote := &service.Error{Kind: service.KindRemote, Status: 400, Message: "Bad Request", Body: []byte(`{"msg":"x"}`)}
	if remote.Error() != "remote error: 400 Bad Request" {
		t.Errorf("unexpected message %q", remote.Error())
	}
	if string(remote.BodyJSON()) != `{"msg":"x"}` {
		t.Errorf("expected JSON body verbatim, got %s", remote.BodyJSON())
	}

	plain := &service.Error{Kind: service.KindRemote, Status: 502, Body: []byte("Bad Gateway")}
	if string(plain.BodyJSON()) != `"Bad Gateway"` {
		t.Errorf("expected quoted text body, got %s", plain.BodyJSON())
	}
}
