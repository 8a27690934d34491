package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind discriminates the failures returned by the transport.
type ErrorKind string

const (
	// KindRequest is an error building the request, the request was never sent.
	KindRequest ErrorKind = "request"
	// KindNetwork is a connection level failure, no response was received.
	KindNetwork ErrorKind = "network"
	// KindHTTP is a non 2xx response.
	KindHTTP ErrorKind = "http"
	// KindDecode is a response body that could not be decoded, or was empty where a payload is required.
	KindDecode ErrorKind = "decode"
)

var (
	ErrConfig = errors.New("error in transport configuration")
)

// Error is the one error type returned by the transport,
// callers switch on Kind instead of inspecting heterogeneous failures.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	// Message is the backend supplied message when available, or a generic one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError returns the transport Error in the chain of err.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}

	return nil, false
}

// Message returns the user facing detail of err,
// the backend message for transport errors and the error string otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}

	if te, ok := AsError(err); ok {
		return te.Message
	}

	return err.Error()
}

// errorBody is the structured error body returned by the backend,
// message is either a string or a list of validation messages.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// messageFromBody extracts the backend message from an error response body,
// falling back to a generic message derived from the status code.
func messageFromBody(body []byte, statusCode int) string {
	generic := fmt.Sprintf("request failed: %d %s", statusCode, http.StatusText(statusCode))

	if len(body) == 0 {
		return generic
	}

	eb := &errorBody{}
	if err := json.Unmarshal(body, eb); err != nil {
		return generic
	}

	if len(eb.Message) > 0 {
		var msg string
		if err := json.Unmarshal(eb.Message, &msg); err == nil && msg != "" {
			return msg
		}

		var msgs []string
		if err := json.Unmarshal(eb.Message, &msgs); err == nil && len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}

	if eb.Error != "" {
		return eb.Error
	}

	return generic
}
