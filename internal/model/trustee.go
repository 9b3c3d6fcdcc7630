package model

import "time"

// TrusteeStatus represents the oversight state of a trustee.
type TrusteeStatus string

const (
	TrusteeActive   TrusteeStatus = "active"
	TrusteeInactive TrusteeStatus = "inactive"
	TrusteePending  TrusteeStatus = "pending"
)

// String returns the string representation of the status.
func (s TrusteeStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s TrusteeStatus) IsValid() bool {
	switch s {
	case TrusteeActive, TrusteeInactive, TrusteePending:
		return true
	}
	return false
}

// Trustee is an external vendor entity under compliance oversight.
type Trustee struct {
	ID             string        `json:"id"`
	CompanyName    string        `json:"companyName"`
	BusinessNumber string        `json:"businessNumber"`
	Representative string        `json:"representative"`
	ContactName    string        `json:"contactName"`
	ContactPhone   string        `json:"contactPhone"`
	ContactEmail   string        `json:"contactEmail"`
	DelegatedTasks string        `json:"delegatedTasks"`
	Status         TrusteeStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	// Contracts are loaded alongside the trustee for single-entity reads.
	Contracts []*Contract `json:"contracts,omitempty"`
}

// TrusteeFilter narrows trustee list queries.
type TrusteeFilter struct {
	// Search matches companyName, businessNumber, or contactName (substring).
	Search string
	Status TrusteeStatus

	Limit  int
	Offset int
}
