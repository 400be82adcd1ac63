// Package apperror defines the error taxonomy shared by the domain services
// and the HTTP layer. Every error carries a Kind so callers can decide how to
// render it without string matching.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindInvalidTimeFormat Kind = "invalid_time_format"
	KindInvalidRecurrence Kind = "invalid_recurrence_configuration"
	KindValidation        Kind = "validation_error"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindDuplicateKey      Kind = "duplicate_key"
	KindPersistence       Kind = "persistence_error"
	KindNotFound          Kind = "not_found"
	KindUnknown           Kind = "unknown"
)

// Error is a classified application error. Field and Value identify the
// offending input for duplicate-key and field validation errors.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Value   string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so errors.Is(err, apperror.ErrSlotUnavailable)
// matches any slot_unavailable error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidTimeFormat = &Error{Kind: KindInvalidTimeFormat}
	ErrInvalidRecurrence = &Error{Kind: KindInvalidRecurrence}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrSlotUnavailable   = &Error{Kind: KindSlotUnavailable}
	ErrDuplicateKey      = &Error{Kind: KindDuplicateKey}
	ErrPersistence       = &Error{Kind: KindPersistence}
	ErrNotFound          = &Error{Kind: KindNotFound}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// Field builds a validation error bound to a request field.
func Field(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Message: message, Field: field}
}

// DuplicateKey reports a unique constraint violation on field.
func DuplicateKey(field, value string, err error) *Error {
	msg := fmt.Sprintf("%s already exists", field)
	if value != "" {
		msg = fmt.Sprintf("%s %q already exists", field, value)
	}
	return &Error{Kind: KindDuplicateKey, Message: msg, Field: field, Value: value, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
