// Package errs defines the error shape returned to API clients.
//
// Services return *HTTPError for every failure a client can act on
// (missing table, bill already paid, wrong password); the global error
// handler serialises it as JSON. Anything else is reported as a generic 500.
package errs

import (
	"fmt"
	"strings"
)

// FieldError represents a field-level validation error.
//
//	{ "field": "count", "error": "must be at least 1" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client to navigate to Value.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional instruction for the client, e.g. "redirect to login"
// after a session expired.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type for API responses.
//
// Code is machine-friendly (e.g. "TABLE_NOT_FOUND"), Message is for humans.
// Override marks messages that are safe to show to end users as-is.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// A target without a Code matches any *HTTPError. A target with a Code only
// matches errors carrying the same Code, so package-level sentinels such as
// service.ErrTableNotFound can be compared with errors.Is.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}

	return t.Code == "" || t.Code == e.Code
}

// WithMessage returns a copy of e with Message replaced. The receiver is
// never mutated, so sentinels stay intact.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// WithMessagef is WithMessage with fmt.Sprintf formatting.
func (e *HTTPError) WithMessagef(format string, args ...any) *HTTPError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
