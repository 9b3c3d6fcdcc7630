package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("trustee", "tr-1")
	if !IsNotFound(err) {
		t.Error("IsNotFound = false")
	}
	if IsConflict(err) || IsValidation(err) {
		t.Error("not-found error matched other classifiers")
	}
	if got := err.Error(); !strings.Contains(got, "tr-1") {
		t.Errorf("message %q does not name the id", got)
	}

	wrapped := fmt.Errorf("loading: %w", err)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound failed on wrapped error")
	}
}

func TestConflictError(t *testing.T) {
	err := NewConflict("business number %q is already registered", "123")
	if !IsConflict(err) {
		t.Error("IsConflict = false")
	}
	if !strings.Contains(err.Error(), "123") {
		t.Errorf("message %q", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("score", "must be between 0 and 100")
	if !IsValidation(err) {
		t.Error("IsValidation = false")
	}
	if !strings.Contains(err.Error(), "score") {
		t.Errorf("message %q does not name the field", err.Error())
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound matched a plain error")
	}
}

func TestValidateTrustee(t *testing.T) {
	valid := &Trustee{
		CompanyName:    "Acme",
		BusinessNumber: "123",
		Representative: "Rep",
		ContactName:    "Contact",
		ContactEmail:   "c@example.com",
		DelegatedTasks: "payroll",
		Status:         TrusteeActive,
	}
	if err := ValidateTrustee(valid); err != nil {
		t.Fatalf("valid trustee rejected: %v", err)
	}

	bad := *valid
	bad.CompanyName = "  "
	bad.ContactEmail = "nope"
	bad.Status = "archived"
	err := ValidateTrustee(&bad)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(ve.Errors) != 3 {
		t.Errorf("got %d field errors, want 3: %v", len(ve.Errors), ve)
	}
}

func TestValidateInspection(t *testing.T) {
	score := 150
	err := ValidateInspection(&Inspection{Score: &score})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	fields := map[string]bool{}
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"trusteeId", "inspectionDate", "score"} {
		if !fields[want] {
			t.Errorf("missing field error for %q", want)
		}
	}
}

func TestInspectionStatusIsTerminal(t *testing.T) {
	cases := map[InspectionStatus]bool{
		InspectionScheduled:  false,
		InspectionInProgress: false,
		InspectionCompleted:  true,
		InspectionCancelled:  true,
	}
	for status, want := range cases {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}
