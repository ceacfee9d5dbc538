package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, pages_read below 1, future log date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is reserved for concurrent-mutation detection.
// Nothing returns it yet; handlers already map it to HTTP 409.
var ErrConflict = errors.New("conflict")

// FieldError is a validation failure tied to a single input field.
// errors.Is(err, ErrValidation) reports true for any *FieldError, so callers
// that only care about the error kind never need to know about this type.
type FieldError struct {
	Field   string
	Message string
}

// NewFieldError returns a *FieldError for field with the given message.
func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return ErrValidation.Error() + ": " + e.Message
}

// Is makes a FieldError match ErrValidation.
func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}
