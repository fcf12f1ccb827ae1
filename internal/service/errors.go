package service

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind string

const (
	// KindValidation is a bad or missing argument, caught before any request.
	KindValidation Kind = "validation"

	// KindConfig is missing configuration (API key, board).
	KindConfig Kind = "config"

	// KindTransport is a request that could not complete (DNS, refused, timeout).
	KindTransport Kind = "transport"

	// KindRemote is a non-success response from the API.
	KindRemote Kind = "remote"

	// KindExhaustion is a pagination walk that hit its page cap.
	KindExhaustion Kind = "exhaustion"
)

// Error is the single error type surfaced to the command boundary.
type Error struct {
	Kind    Kind
	Message string

	// Status and Body are set for KindRemote only.
	Status int
	Body   []byte

	Err error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error: %d %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// BodyJSON returns the remote body as JSON: verbatim when it is valid
// JSON, otherwise quoted as a string. Nil when there is no body.
func (e *Error) BodyJSON() json.RawMessage {
	if len(e.Body) == 0 {
		return nil
	}
	if json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	quoted, _ := json.Marshal(string(e.Body))
	return quoted
}

// Validationf returns a KindValidation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ConfigError wraps a configuration problem.
func ConfigError(err error) *Error {
	return &Error{Kind: KindConfig, Message: err.Error(), Err: err}
}

// TransportError wraps a failed round trip.
func TransportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

// ErrExhausted is wrapped by pagination cap errors.
var ErrExhausted = errors.New("page limit reached")

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
