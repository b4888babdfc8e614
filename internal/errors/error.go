package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryContract Category = "contract"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
	CategoryInspect  Category = "inspect"
)

// VisteError is a structured error with a code, explanation and fix suggestion.
type VisteError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (contract, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *VisteError) Error() string {
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
func (e *VisteError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same error code.
func (e *VisteError) Is(target error) bool {
	var ve *VisteError
	if !errors.As(target, &ve) {
		return false
	}
	return ve.Code != "" && ve.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *VisteError) WithSuggestion(s string) *VisteError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *VisteError) WithDetail(d string) *VisteError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *VisteError) WithDetailf(format string, args ...any) *VisteError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *VisteError) Wrap(err error) *VisteError {
	e.Wrapped = err
	return e
}

// New creates a VisteError from a registered error code.
func New(code string) *VisteError {
	template, ok := registry[code]
	if !ok {
		return &VisteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &VisteError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new VisteError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *VisteError {
	return &VisteError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a VisteError.
func FromError(err error, code string) *VisteError {
	if err == nil {
		return nil
	}
	var ve *VisteError
	if errors.As(err, &ve) {
		return ve
	}
	return New(code).Wrap(err)
}

// Code returns the registered code carried by err, or "" if err is not a
// VisteError. Useful with recover():
//
//	defer func() {
//	    if errors.Code(recover()) == "E001" { ... }
//	}()
func Code(v any) string {
	err, ok := v.(error)
	if !ok {
		return ""
	}
	var ve *VisteError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
