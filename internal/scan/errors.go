package scan

import (
	"errors"
	"fmt"
)

// UserFacingFailure is the message shown in place of the transcript when a
// scan fails.
const UserFacingFailure = "Upload failed or server error."

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrTransport         = errors.New("transport error")
	ErrStreamInterrupted = errors.New("stream interrupted")
	ErrMalformedFrame    = errors.New("malformed frame")

	ErrIdleTimeout = errors.New("stream idle timeout")
	ErrSuperseded  = errors.New("superseded by a new scan")
)

// Error carries one of the Err* kinds above plus the underlying cause.
// errors.Is matches both the kind and the cause.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind, err error) *Error {
	e := &Error{Kind: kind, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return UserFacingFailure
}
