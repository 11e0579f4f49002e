package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by an EmbeddingStore when the requested embedding does not exist.
	ErrNotFound = errors.New("embedding not found")

	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

type Code string

const (
	CodeInvalidArgument Code = "invalid-argument"
	CodeNotFound        Code = "not-found"
	CodeUnauthenticated Code = "unauthenticated"
	CodeInternal        Code = "internal"
)

// Error is a request-level failure of a match operation.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ErrorCode reports the Code carried by err, or CodeInternal for any other error.
func ErrorCode(err error) Code {
	var matchErr *Error
	if errors.As(err, &matchErr) {
		return matchErr.Code
	}
	return CodeInternal
}
