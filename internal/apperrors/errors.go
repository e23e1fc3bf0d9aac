package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedCredentials   = errors.New("malformed credentials")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrNotFound               = errors.New("customer not found")
	ErrConflict               = errors.New("email already in use")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// ValidationKind identifies which validation rule a field failed.
type ValidationKind string

const (
	MissingField ValidationKind = "MISSING_FIELD"
	InvalidEmail ValidationKind = "INVALID_EMAIL"
	FieldTooLong ValidationKind = "FIELD_TOO_LONG"
	InvalidDate  ValidationKind = "INVALID_DATE"
	NoFields     ValidationKind = "NO_FIELDS"

	InvalidParameter ValidationKind = "INVALID_PARAMETER"
)

// ValidationError reports a single rejected field of a customer payload.
type ValidationError struct {
	Field   string
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field string, kind ValidationKind, message string) error {
	return &ValidationError{Field: field, Kind: kind, Message: message}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
