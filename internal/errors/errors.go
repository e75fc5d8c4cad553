// Package errors defines the typed error taxonomy shared by the
// migration engine and the sync layer. Codes classify failures so
// callers can pick the recovery path: substitute a default document,
// defer to the next scheduled tick, or surface once to the user.
package errors

import "fmt"

// ErrorCode classifies a tracker error.
type ErrorCode string

const (
	// ErrUnrecoverableFormat marks persisted input with no recognizable
	// document shape. The caller substitutes a default document.
	ErrUnrecoverableFormat ErrorCode = "UNRECOVERABLE_FORMAT"
	// ErrValidationFailed marks a document that migrated but violates a
	// structural invariant. Same fallback as ErrUnrecoverableFormat.
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrNetworkUnavailable marks a transient transport failure.
	// Silently deferred to the next scheduled tick.
	ErrNetworkUnavailable ErrorCode = "NETWORK_UNAVAILABLE"
	// ErrTimeout marks a request that exceeded its deadline. Shares the
	// recovery path of ErrNetworkUnavailable.
	ErrTimeout ErrorCode = "TIMEOUT"
	// ErrUnauthorized marks a missing or rejected credential. Terminal
	// for the session; surfaced once, never retried automatically.
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrNotFound marks a targeted fetch that matched nothing. Treated
	// as empty, not as an error, by the sync layer.
	ErrNotFound ErrorCode = "NOT_FOUND"
)

// Error is a code-carrying error.
type Error struct {
	Code    ErrorCode
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewUnrecoverableFormat reports input that cannot be salvaged.
func NewUnrecoverableFormat(msg string) *Error {
	return &Error{Code: ErrUnrecoverableFormat, Message: msg}
}

// NewValidationFailed reports a migrated document failing validation.
func NewValidationFailed(msg string) *Error {
	return &Error{Code: ErrValidationFailed, Message: msg}
}

// NewNetworkUnavailable wraps a transient transport failure.
func NewNetworkUnavailable(err error) *Error {
	return &Error{Code: ErrNetworkUnavailable, Message: "remote store unreachable", Err: err}
}

// NewTimeout wraps a request that ran out of time.
func NewTimeout(err error) *Error {
	return &Error{Code: ErrTimeout, Message: "remote call timed out", Err: err}
}

// NewUnauthorized reports a missing or rejected credential.
func NewUnauthorized(msg string) *Error {
	return &Error{Code: ErrUnauthorized, Message: msg}
}

// NewNotFound reports a targeted fetch that matched nothing.
func NewNotFound(what string) *Error {
	return &Error{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", what)}
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
