// Package siteerr provides a lightweight structured error type (Error)
// for category-based classification of build failures. Categories map to
// the propagation policy: item-scoped errors are recorded and the build
// continues, global-scoped errors abort the build.
package siteerr

import (
	"fmt"
)

// Category classifies a build error for propagation and exit-code mapping.
type Category string

const (
	// User-facing configuration and input errors.
	CategoryConfig Category = "config"

	// Content-scoped errors: a single file or page.
	CategoryFrontMatter Category = "frontmatter"
	CategoryPageData    Category = "pagedata"
	CategoryRender      Category = "render"

	// Global-scoped errors: shared state the whole build depends on.
	CategoryData   Category = "data"
	CategoryPlugin Category = "plugin"

	// Infrastructure errors.
	CategoryCopy     Category = "copy"
	CategoryWatch    Category = "watch"
	CategoryInternal Category = "internal"
)

// Severity indicates how an error affects the running build.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Aborts the build
	SeverityError   Severity = "error"   // Recorded, build continues
	SeverityWarning Severity = "warning" // Degraded output, build continues
)

// ContextFields carries structured context for an Error.
type ContextFields map[string]any

// Error is a structured build error with category, severity, and context.
type Error struct {
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// Fatal reports whether the error must abort the whole build.
func (e *Error) Fatal() bool {
	return e.Severity == SeverityFatal
}

// New creates a new Error.
func New(category Category, severity Severity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(err error, category Category, severity Severity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category Category) bool {
	if se, ok := err.(*Error); ok {
		return se.Category == category
	}
	return false
}

// IsFatal reports whether an error aborts the build. Non-Error values are
// treated as fatal: an unclassified failure must never be silently recorded.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := err.(*Error); ok {
		return se.Fatal()
	}
	return true
}

// GetCategory extracts the category from an error, or CategoryInternal if
// the error is not a siteerr.Error.
func GetCategory(err error) Category {
	if se, ok := err.(*Error); ok {
		return se.Category
	}
	return CategoryInternal
}
