package model

import "strings"

// ValidateTrustee checks a Trustee for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the trustee is valid.
func ValidateTrustee(t *Trustee) error {
	var ve ValidationError

	if strings.TrimSpace(t.CompanyName) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "companyName", Message: "is required"})
	}
	if strings.TrimSpace(t.BusinessNumber) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "businessNumber", Message: "is required"})
	}
	if strings.TrimSpace(t.Representative) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "representative", Message: "is required"})
	}
	if strings.TrimSpace(t.ContactName) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "contactName", Message: "is required"})
	}
	if strings.TrimSpace(t.ContactEmail) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "contactEmail", Message: "is required"})
	} else if !strings.Contains(t.ContactEmail, "@") {
		ve.Errors = append(ve.Errors, FieldError{Field: "contactEmail", Message: "must be a valid email address"})
	}
	if strings.TrimSpace(t.DelegatedTasks) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "delegatedTasks", Message: "is required"})
	}
	if t.Status != "" && !t.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{Field: "status", Message: "must be one of active, inactive, pending"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateInspection checks an Inspection for constraint violations.
func ValidateInspection(i *Inspection) error {
	var ve ValidationError

	if strings.TrimSpace(i.TrusteeID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "trusteeId", Message: "is required"})
	}
	if i.InspectionDate.IsZero() {
		ve.Errors = append(ve.Errors, FieldError{Field: "inspectionDate", Message: "is required"})
	}
	if i.Status != "" && !i.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{Field: "status", Message: "must be one of scheduled, in_progress, completed, cancelled"})
	}
	if i.Score != nil && (*i.Score < 0 || *i.Score > 100) {
		ve.Errors = append(ve.Errors, FieldError{Field: "score", Message: "must be between 0 and 100"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateInspectionItem checks an InspectionItem for constraint violations.
func ValidateInspectionItem(it *InspectionItem) error {
	var ve ValidationError

	if strings.TrimSpace(it.Category) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "category", Message: "is required"})
	}
	if strings.TrimSpace(it.Question) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "question", Message: "is required"})
	}
	if !it.Result.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{Field: "result", Message: "must be one of pass, fail, partial, not_applicable"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
