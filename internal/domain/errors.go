package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyBody        = errors.New("empty review body")
	ErrInvalidLocation  = errors.New("invalid location")
	ErrInvalidDate      = errors.New("invalid date")
	ErrMalformedRequest = errors.New("malformed request")
)

// ValidationError is a client-caused failure. Msg is safe to return to callers.
type ValidationError struct {
	Err error
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid wraps sentinel with a caller-facing message.
func Invalid(sentinel error, msg string) error {
	return &ValidationError{Err: sentinel, Msg: msg}
}
