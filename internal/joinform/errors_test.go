package joinform

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeMissingCollaborator, "Missing Collaborator"},
		{ErrTypeValidation, "Validation Error"},
		{ErrTypeMalformedAddress, "Malformed Address"},
		{ErrTypePersistence, "Persistence Error"},
		{ErrorType(99), "ErrorType(99)"},
	}

	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", tt.et, got, tt.want)
		}
	}
}

func TestFormErrorMessage(t *testing.T) {
	err := NewValidationError(ServerPort, "port must be 1-65535, got 99999")
	if got := err.Error(); got != "Validation Error (Server Port): port must be 1-65535, got 99999" {
		t.Errorf("Error() = %q", got)
	}

	missing := NewMissingCollaboratorError("key-value store")
	if got := missing.Error(); got != "Missing Collaborator: key-value store is not available" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("disk full")
	persist := NewPersistenceError("could not persist relay address", cause)
	if !strings.Contains(persist.Error(), "caused by: disk full") {
		t.Errorf("Error() = %q, should include cause", persist.Error())
	}
	if !errors.Is(persist, cause) {
		t.Error("errors.Is should see the wrapped cause")
	}
}

func TestPredicatesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", NewMalformedAddressError("10.0.0.1", "missing ':' separator"))

	if !IsMalformedAddress(wrapped) {
		t.Error("IsMalformedAddress should see through %w")
	}
	if IsValidationError(wrapped) || IsMissingCollaborator(wrapped) || IsPersistenceError(wrapped) {
		t.Error("other predicates should be false")
	}
	if IsValidationError(errors.New("plain")) {
		t.Error("plain errors are not validation errors")
	}
	if _, ok := FieldOf(wrapped); ok {
		t.Error("address errors carry no field")
	}
}

func TestFormatErrors(t *testing.T) {
	if got := FormatErrors(nil); got != "No errors" {
		t.Errorf("FormatErrors(nil) = %q", got)
	}

	msg := FormatErrors([]error{
		NewValidationError(ServerPort, "bad"),
		NewMissingCollaboratorError("notifier"),
	})
	if !strings.HasPrefix(msg, "Submit reported 2 problem(s):") {
		t.Errorf("FormatErrors() = %q", msg)
	}
	if !strings.Contains(msg, "  2. Missing Collaborator") {
		t.Errorf("FormatErrors() should number entries, got %q", msg)
	}
}
