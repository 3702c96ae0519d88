package category

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates the validation and store failures the engine can
// produce. Callers branch on Kind instead of matching message text.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidHierarchy  Kind = "invalid_hierarchy"
	KindSelfReference     Kind = "self_reference"
	KindCircularReference Kind = "circular_reference"
	KindConflict          Kind = "conflict"
	KindValidation        Kind = "validation"
	KindInternal          Kind = "internal"
)

// DomainError is the single structured error type for the category
// engine. Every failure the service surfaces is one of these.
type DomainError struct {
	Kind    Kind
	Op      string // operation context, e.g. "category.Create"
	Message string
	Err     error // wrapped store error, if any
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Errf builds a DomainError with a formatted message.
func Errf(kind Kind, op, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WrapErr attaches a store error under the given kind.
func WrapErr(kind Kind, op, message string, err error) *DomainError {
	return &DomainError{Kind: kind, Op: op, Message: message, Err: err}
}

func validationErr(field, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("field '%s' %s", field, message),
	}
}

// KindOf extracts the Kind from an error chain. Unknown errors map to
// KindInternal.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a domain error to the status the routing layer
// should answer with. Hierarchy violations are well-formed requests
// that break a domain invariant, hence 422 rather than 400.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidHierarchy, KindSelfReference, KindCircularReference:
		return http.StatusUnprocessableEntity
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
