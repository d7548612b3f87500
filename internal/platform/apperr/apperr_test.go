package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKind_Status(t *testing.T) {
	testCases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusUnprocessableEntity},
		{KindConflict, http.StatusUnprocessableEntity},
		{KindBadRequest, http.StatusBadRequest},
		{KindAuthentication, http.StatusUnauthorized},
		{KindTokenMissing, http.StatusUnauthorized},
		{KindTokenExpired, http.StatusUnauthorized},
		{KindTokenInvalid, http.StatusForbidden},
		{KindAuthorization, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindMethodNotAllowed, http.StatusMethodNotAllowed},
		{KindInternal, http.StatusInternalServerError},
		{Kind(99), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if got := tc.kind.Status(); got != tc.want {
				t.Errorf("Status() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	sentinel := New(KindConflict, "Registration unsuccessful")
	wrapped := fmt.Errorf("register: %w", sentinel)

	if got := KindOf(wrapped); got != KindConflict {
		t.Errorf("KindOf(wrapped) = %v, want conflict", got)
	}
	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is should find the sentinel through wrapping")
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %v, want internal", got)
	}
}

func TestInternal_HidesCauseFromMessage(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)
	if err.Message != "Internal server error" {
		t.Errorf("Message = %q", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("Internal should unwrap to its cause")
	}
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation([]FieldError{{Field: "email", Message: "Required"}, {Field: "password", Message: "Required"}})
	if err.Kind != KindValidation {
		t.Errorf("Kind = %v", err.Kind)
	}
	if len(err.Fields) != 2 {
		t.Errorf("len(Fields) = %d, want 2", len(err.Fields))
	}
}
