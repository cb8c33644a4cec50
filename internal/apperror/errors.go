// Package apperror defines the error taxonomy shared by services and
// the HTTP layer. Services return wrapped sentinels; the server's error
// handler maps them onto status codes in one place.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means no valid session was presented.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the session's role lacks the required
	// capability, or the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyProcessed means a state precondition failed because the
	// entity already left its pending state. Retrying cannot succeed.
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrInvalidTransition means the requested lifecycle transition is
	// not legal from the entity's current state.
	ErrInvalidTransition = errors.New("invalid transition")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries field-level detail for malformed input. It is
// raised at the boundary, before any transaction starts.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d fields)", len(e.Fields))
}

// NewValidation builds a ValidationError from field/reason pairs.
func NewValidation(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// HTTPStatus maps an error to its response status. Unclassified errors
// map to 500; the caller is responsible for hiding their detail.
func HTTPStatus(err error) int {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyProcessed),
		errors.Is(err, ErrInvalidTransition),
		errors.As(err, &ve):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
