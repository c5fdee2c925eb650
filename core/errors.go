package core

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return joinFieldErrors(err.Fields)
}

// APIError is a non-2xx answer of the LMS backend.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError // server-side validation errors, sorted by field
}

func NewAPIError(status int, msg string, flds ...FieldError) *APIError {
	sort.SliceStable(flds, func(i, j int) bool { return flds[i].Field < flds[j].Field })
	return &APIError{Status: status, Message: msg, Fields: flds}
}

// Error renders server validation errors as "field: message" pairs.
func (err APIError) Error() string {
	if len(err.Fields) > 0 {
		return joinFieldErrors(err.Fields)
	}
	if err.Message != "" {
		return err.Message
	}
	if txt := http.StatusText(err.Status); txt != "" {
		return strings.ToLower(txt)
	}
	return fmt.Sprintf("unexpected status %d", err.Status)
}

// IsStatus reports whether err was caused by an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	apiErr, ok := errors.Cause(err).(*APIError)
	return ok && apiErr.Status == status
}

// UserMessage appends to title the details a user can act upon (validation messages), if err carries any.
func UserMessage(title string, err error) string {
	switch origErr := errors.Cause(err).(type) {
	case *APIError:
		if len(origErr.Fields) > 0 || origErr.Message != "" {
			return title + ": " + origErr.Error()
		}
	case *ValidationError:
		return title + ": " + origErr.Error()
	}
	return title
}

func joinFieldErrors(flds []FieldError) string {
	parts := make([]string, 0, len(flds))
	for _, f := range flds {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return strings.Join(parts, "; ")
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
