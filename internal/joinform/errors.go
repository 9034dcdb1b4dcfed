package joinform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeMissingCollaborator indicates a collaborator reference was never provided
	ErrTypeMissingCollaborator ErrorType = iota
	// ErrTypeValidation indicates user input violates a field's character class, length or range
	ErrTypeValidation
	// ErrTypeMalformedAddress indicates an "ip:port" string that cannot be parsed
	ErrTypeMalformedAddress
	// ErrTypePersistence indicates the key-value store or a config record refused a write
	ErrTypePersistence
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeMissingCollaborator:
		return "Missing Collaborator"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeMalformedAddress:
		return "Malformed Address"
	case ErrTypePersistence:
		return "Persistence Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// noField marks errors not tied to a particular form field.
const noField Kind = -1

// FormError is returned for every problem the form recovers from.
type FormError struct {
	Type    ErrorType
	Field   Kind // noField when the error is not about one field
	Message string
	Err     error
}

// Error implements the error interface
func (e *FormError) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	if e.Field.Valid() {
		b.WriteString(" (")
		b.WriteString(e.Field.Label())
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection
func (e *FormError) Unwrap() error {
	return e.Err
}

// HasField reports whether the error concerns a single form field.
func (e *FormError) HasField() bool {
	return e.Field.Valid()
}

// NewMissingCollaboratorError reports a collaborator that was never wired in.
func NewMissingCollaboratorError(name string) *FormError {
	return &FormError{
		Type:    ErrTypeMissingCollaborator,
		Field:   noField,
		Message: fmt.Sprintf("%s is not available", name),
	}
}

// NewValidationError reports a field value that cannot be committed.
func NewValidationError(field Kind, message string) *FormError {
	return &FormError{
		Type:    ErrTypeValidation,
		Field:   field,
		Message: message,
	}
}

// NewMalformedAddressError reports an "ip:port" string that does not parse.
func NewMalformedAddressError(address string, message string) *FormError {
	return &FormError{
		Type:    ErrTypeMalformedAddress,
		Field:   noField,
		Message: fmt.Sprintf("%q: %s", address, message),
	}
}

// NewPersistenceError reports a write that a store or record refused.
func NewPersistenceError(message string, err error) *FormError {
	return &FormError{
		Type:    ErrTypePersistence,
		Field:   noField,
		Message: message,
		Err:     err,
	}
}

func isType(err error, t ErrorType) bool {
	var formErr *FormError
	if errors.As(err, &formErr) {
		return formErr.Type == t
	}
	return false
}

// IsMissingCollaborator checks if an error is a missing collaborator error
func IsMissingCollaborator(err error) bool {
	return isType(err, ErrTypeMissingCollaborator)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrTypeValidation)
}

// IsMalformedAddress checks if an error is a malformed address error
func IsMalformedAddress(err error) bool {
	return isType(err, ErrTypeMalformedAddress)
}

// IsPersistenceError checks if an error is a persistence error
func IsPersistenceError(err error) bool {
	return isType(err, ErrTypePersistence)
}

// FieldOf returns the field an error is about, if any.
func FieldOf(err error) (Kind, bool) {
	var formErr *FormError
	if errors.As(err, &formErr) && formErr.HasField() {
		return formErr.Field, true
	}
	return noField, false
}

// FormatErrors formats a slice of errors into a user-friendly message.
func FormatErrors(errs []error) string {
	if len(errs) == 0 {
		return "No errors"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Submit reported %d problem(s):\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}
