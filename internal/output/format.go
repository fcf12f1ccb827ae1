// Package output writes the JSON documents printed by every command.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"kzone/internal/service"
)

// indent is the indentation of every document.
const indent = "  "

// JSON writes v as an indented JSON document followed by a newline.
// json.RawMessage values are re-indented with their key order intact.
func JSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Envelope is the error document.
type Envelope struct {
	Error   bool            `json:"error"`
	Kind    service.Kind    `json:"kind"`
	Message string          `json:"message"`
	Status  int             `json:"status,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"`
	Errors  []string        `json:"errors"`
}

// NewEnvelope converts any error into the error document. Errors that
// are not *service.Error are reported as transport errors.
func NewEnvelope(err error) Envelope {
	var e *service.Error
	if !errors.As(err, &e) {
		e = service.TransportError(err)
	}
	return Envelope{
		Error:   true,
		Kind:    e.Kind,
		Message: e.Message,
		Status:  e.Status,
		Body:    e.BodyJSON(),
		Errors:  []string{e.Error()},
	}
}

// Error writes the error document for err.
func Error(w io.Writer, err error) error {
	return JSON(w, NewEnvelope(err))
}
