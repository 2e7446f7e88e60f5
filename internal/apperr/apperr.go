// Package apperr classifies operation failures so HTTP and websocket
// boundaries can translate them without inspecting message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindStateConflict
	KindNotFound
	KindCrypto
)

type Error struct {
	Kind Kind
	Msg  string // caller-visible message
	Err  error  // wrapped cause, logged but never sent to the caller
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error    { return &Error{Kind: KindValidation, Msg: msg} }
func Authorization(msg string) *Error { return &Error{Kind: KindAuthorization, Msg: msg} }
func StateConflict(msg string) *Error { return &Error{Kind: KindStateConflict, Msg: msg} }
func NotFound(msg string) *Error      { return &Error{Kind: KindNotFound, Msg: msg} }

// Crypto wraps a cipher failure. The caller-visible message stays generic;
// neither ciphertext nor key material may appear in msg.
func Crypto(err error) *Error {
	return &Error{Kind: KindCrypto, Msg: "could not retrieve contact info", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "server error", Err: err}
}

// Status maps an error to its HTTP status. Unclassified errors are internal.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindStateConflict:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show the caller.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "server error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
