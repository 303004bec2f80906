package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of failure.
type Category string

const (
	CategoryState    Category = "state"
	CategoryQuery    Category = "query"
	CategoryArgument Category = "argument"
	CategoryArchive  Category = "archive"
	CategoryConfig   Category = "config"
)

// HarnessError is a structured error with a code, an explanation and an
// optional fix suggestion.
type HarnessError struct {
	// Code is a unique error identifier (e.g., "VT101").
	Code string

	// Category is the failure type (state, query, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error, usually naming the
	// node type, prop and values involved.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HarnessError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HarnessError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a HarnessError with the same code.
// This lets callers match on a bare template: errors.Is(err, New("VT103")).
func (e *HarnessError) Is(target error) bool {
	t, ok := target.(*HarnessError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithDetail sets the detailed explanation.
func (e *HarnessError) WithDetail(d string) *HarnessError {
	e.Detail = d
	return e
}

// WithDetailf sets a formatted detailed explanation.
func (e *HarnessError) WithDetailf(format string, args ...any) *HarnessError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HarnessError) WithSuggestion(s string) *HarnessError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *HarnessError) Wrap(err error) *HarnessError {
	e.Wrapped = err
	return e
}

// New creates a HarnessError from a registered error code.
func New(code string) *HarnessError {
	template, ok := registry[code]
	if !ok {
		return &HarnessError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HarnessError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a HarnessError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *HarnessError {
	return &HarnessError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a HarnessError.
// Errors that already are HarnessErrors are returned as-is.
func FromError(err error, code string) *HarnessError {
	if err == nil {
		return nil
	}
	var he *HarnessError
	if stderrors.As(err, &he) {
		return he
	}
	return New(code).Wrap(err)
}

// IsCode reports whether err (or anything it wraps) carries code.
func IsCode(err error, code string) bool {
	var he *HarnessError
	for err != nil {
		if stderrors.As(err, &he) {
			if he.Code == code {
				return true
			}
			err = he.Wrapped
			continue
		}
		return false
	}
	return false
}

// CategoryOf returns the category of err, or "" when err is not a HarnessError.
func CategoryOf(err error) Category {
	var he *HarnessError
	if stderrors.As(err, &he) {
		return he.Category
	}
	return ""
}
