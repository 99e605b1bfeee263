package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can branch without parsing messages.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindBusinessRule    Kind = "BUSINESS_RULE"
	KindExternalService Kind = "EXTERNAL_SERVICE"
)

// Error is a classified application error. Details optionally carries a
// structured payload (e.g. the risk assessment behind a rejected loan).
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an error of the given kind
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a VALIDATION error
func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

// NotFound creates a NOT_FOUND error
func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

// Conflict creates a CONFLICT error
func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

// BusinessRule creates a BUSINESS_RULE error
func BusinessRule(format string, args ...interface{}) *Error {
	return New(KindBusinessRule, format, args...)
}

// ExternalService creates an EXTERNAL_SERVICE error
func ExternalService(format string, args ...interface{}) *Error {
	return New(KindExternalService, format, args...)
}

// WithDetails attaches a structured payload to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// KindOf extracts the kind from an error chain, or "" if the error is not classified
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether the error chain contains an Error of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// DetailsOf extracts the structured payload from an error chain, if any
func DetailsOf(err error) interface{} {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
