package model

import "time"

// InspectionStatus represents the lifecycle state of an inspection.
type InspectionStatus string

const (
	InspectionScheduled  InspectionStatus = "scheduled"
	InspectionInProgress InspectionStatus = "in_progress"
	InspectionCompleted  InspectionStatus = "completed"
	InspectionCancelled  InspectionStatus = "cancelled"
)

// String returns the string representation of the status.
func (s InspectionStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s InspectionStatus) IsValid() bool {
	switch s {
	case InspectionScheduled, InspectionInProgress, InspectionCompleted, InspectionCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
// Cascading cancellation must never touch inspections in a terminal state.
func (s InspectionStatus) IsTerminal() bool {
	return s == InspectionCompleted || s == InspectionCancelled
}

// Inspection is a compliance audit record tied to a trustee.
type Inspection struct {
	ID             string           `json:"id"`
	TrusteeID      string           `json:"trusteeId"`
	InspectionDate time.Time        `json:"inspectionDate"`
	Score          *int             `json:"score"`
	Status         InspectionStatus `json:"status"`
	Findings       string           `json:"findings,omitempty"`
	Improvements   string           `json:"improvements,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`

	// Items are loaded alongside the inspection for single-entity reads.
	Items []*InspectionItem `json:"items,omitempty"`
}

// ItemResult is the outcome of a single inspection checklist item.
type ItemResult string

const (
	ResultPass          ItemResult = "pass"
	ResultFail          ItemResult = "fail"
	ResultPartial       ItemResult = "partial"
	ResultNotApplicable ItemResult = "not_applicable"
)

// String returns the string representation of the result.
func (r ItemResult) String() string {
	return string(r)
}

// IsValid checks whether the result is a known value.
func (r ItemResult) IsValid() bool {
	switch r {
	case ResultPass, ResultFail, ResultPartial, ResultNotApplicable:
		return true
	}
	return false
}

// InspectionItem is a single checklist entry within an inspection.
type InspectionItem struct {
	ID           string     `json:"id"`
	InspectionID string     `json:"inspectionId"`
	Category     string     `json:"category"`
	Question     string     `json:"question"`
	Result       ItemResult `json:"result"`
	Note         string     `json:"note,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// InspectionFilter narrows inspection list queries.
type InspectionFilter struct {
	TrusteeID string
	Status    InspectionStatus

	Limit  int
	Offset int
}
