package model

import "time"

// Contract is a delegation agreement between the organization and a trustee.
type Contract struct {
	ID        string    `json:"id"`
	TrusteeID string    `json:"trusteeId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	FileURL   string    `json:"fileUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
