package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes. handler.ErrorResponse maps each one to an HTTP status.
const (
	ECONFLICT     = "conflict"     // 409: duplicate submission, newer stored state
	EINTERNAL     = "internal"     // 500: details hidden from shoppers
	EINVALID      = "invalid"      // 400
	ENOTFOUND     = "not_found"    // 404
	EUNAUTHORIZED = "unauthorized" // 401
	EFORBIDDEN    = "forbidden"    // 403
	ERATELIMIT    = "rate_limit"   // 429
	EUNAVAILABLE  = "unavailable"  // 502: store backend unreachable or failing
)

const genericMessage = "An internal error occurred. Please try again later."

var defaultMessages = map[string]string{
	ECONFLICT:     "The request conflicts with the current state.",
	EINVALID:      "The request is invalid.",
	ENOTFOUND:     "Not found.",
	EUNAUTHORIZED: "Please login to continue",
	EFORBIDDEN:    "You do not have access to this page.",
	ERATELIMIT:    "Too many requests. Please slow down.",
	EUNAVAILABLE:  "The store is temporarily unavailable. Please try again.",
}

// Error is a coded failure. Message is what shoppers see; Op and Err only
// reach the logs. Store backend failures carry the backend's own wording
// in Message.
type Error struct {
	Code    string
	Message string
	Op      string // e.g. "cart.add"
	Err     error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	parts = append(parts, e.Message)
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError collects per-field messages for a rejected form or body.
type ValidationError struct {
	Op     string
	Fields map[string]string // field name -> message
}

func (e *ValidationError) Error() string {
	var msg string
	if len(e.Fields) == 1 {
		for field, m := range e.Fields {
			msg = field + ": " + m
		}
	} else {
		msg = fmt.Sprintf("validation failed for %d fields", len(e.Fields))
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func asValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// ErrorCode reports the code carried by err. Validation failures are
// EINVALID and anything without a code is EINTERNAL.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if _, ok := asValidation(err); ok {
		return EINVALID
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	return EINTERNAL
}

// IsCode reports whether err carries code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// ErrorMessage returns the text a shopper may see for err. Internal and
// uncoded errors collapse to one generic sentence.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if _, ok := asValidation(err); ok {
		return "Please correct the highlighted fields."
	}
	e, ok := asError(err)
	switch {
	case !ok || e.Code == EINTERNAL:
		return genericMessage
	case e.Message == "":
		return defaultMessages[e.Code]
	}
	return e.Message
}

// MessageOr prefers the wording of a non-internal domain error over
// fallback. Notifications use it to surface the backend's own message.
func MessageOr(err error, fallback string) string {
	if e, ok := asError(err); ok && e.Code != EINTERNAL && e.Message != "" {
		return e.Message
	}
	return fallback
}

// ErrorOp returns the operation recorded on err, for logging.
func ErrorOp(err error) string {
	if e, ok := asError(err); ok {
		return e.Op
	}
	if ve, ok := asValidation(err); ok {
		return ve.Op
	}
	return ""
}

// NewValidationError rejects a single field.
func NewValidationError(op, field, message string) error {
	return &ValidationError{Op: op, Fields: map[string]string{field: message}}
}

// AddFieldError records another field failure on err, or starts a new
// ValidationError when err is not one.
func AddFieldError(err error, field, message string) error {
	ve, ok := asValidation(err)
	if !ok {
		return &ValidationError{Fields: map[string]string{field: message}}
	}
	if ve.Fields == nil {
		ve.Fields = make(map[string]string)
	}
	ve.Fields[field] = message
	return ve
}

// GetValidationFields returns the field messages of a ValidationError, or nil.
func GetValidationFields(err error) map[string]string {
	if ve, ok := asValidation(err); ok {
		return ve.Fields
	}
	return nil
}

func coded(code, op, message string) error {
	return &Error{Code: code, Op: op, Message: message}
}

func Errorf(code, op, format string, args ...any) error {
	return coded(code, op, fmt.Sprintf(format, args...))
}

func NotFound(op, resource, identifier string) error {
	return coded(ENOTFOUND, op, resource+" not found: "+identifier)
}

func Unauthorized(op, message string) error { return coded(EUNAUTHORIZED, op, message) }
func Forbidden(op, message string) error    { return coded(EFORBIDDEN, op, message) }
func Invalid(op, message string) error      { return coded(EINVALID, op, message) }
func Conflict(op, message string) error     { return coded(ECONFLICT, op, message) }

// Internal wraps err; shoppers only ever see the generic message.
func Internal(err error, op, message string) error {
	return &Error{Code: EINTERNAL, Op: op, Message: message, Err: err}
}
