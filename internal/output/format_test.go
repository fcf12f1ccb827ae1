package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"kzone/internal/output"
	"kzone/internal/service"
)

func TestJSON_ReindentsRawMessage(t *testing.T) {
	var buf bytes.Buffer
	raw := json.RawMessage(`{"z":1,"a":{"url":"https://x.io/?a=1&b=<2>"}}`)
	if err := output.JSON(&buf, raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "{\n  \"z\": 1,\n  \"a\": {\n    \"url\": \"https://x.io/?a=1&b=<2>\"\n  }\n}\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestEnvelope_Validation(t *testing.T) {
	env := output.NewEnvelope(service.Validationf("column ID required (--column-id)"))

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":true,"kind":"validation","message":"column ID required (--column-id)","errors":["validation error: column ID required (--column-id)"]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestEnvelope_RemoteCarriesStatusAndBody(t *testing.T) {
	err := &service.Error{Kind: service.KindRemote, Status: 404, Message: "Not Found", Body: []byte(`{"message":"no such card"}`)}

	var buf bytes.Buffer
	if e := output.Error(&buf, err); e != nil {
		t.Fatalf("unexpected error: %v", e)
	}

	var got map[string]any
	if e := json.Unmarshal(buf.Bytes(), &got); e != nil {
		t.Fatalf("output is not JSON: %v", e)
	}
	if got["error"] != true || got["kind"] != "remote" {
		t.Errorf("unexpected envelope %v", got)
	}
	if got["status"] != float64(404) {
		t.Errorf("expected status 404, got %v", got["status"])
	}
	body, ok := got["body"].(map[string]any)
	if !ok || body["message"] != "no such card" {
		t.Errorf("expected server body verbatim, got %v", got["body"])
	}
}

func TestEnvelope_ForeignErrorIsTransport(t *testing.T) {
	env := output.NewEnvelope(errors.New("connection reset"))
	if env.Kind != service.KindTransport {
		t.Errorf("expected transport kind, got %q", env.Kind)
	}
	if env.Message != "connection reset" {
		t.Errorf("unexpected message %q", env.Message)
	}
	if len(env.Errors) != 1 {
		t.Errorf("expected one error string, got %v", env.Errors)
	}
}
