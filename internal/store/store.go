// Package store defines the persistence interfaces consumed by the services.
// Each service owns its own database; these interfaces are the narrow contract
// the coordinators depend on.
package store

import (
	"context"

	"github.com/vendorguard/trusteed/internal/model"
)

// TrusteeStore persists trustees for the trustee service.
type TrusteeStore interface {
	CreateTrustee(ctx context.Context, t *model.Trustee) error
	GetTrustee(ctx context.Context, id string) (*model.Trustee, error)
	GetTrusteeByBusinessNumber(ctx context.Context, businessNumber string) (*model.Trustee, error)
	ListTrustees(ctx context.Context, filter model.TrusteeFilter) ([]*model.Trustee, int, error) // returns trustees, total count, error
	UpdateTrustee(ctx context.Context, t *model.Trustee) error
	DeleteTrustee(ctx context.Context, id string) error
	TrusteeExists(ctx context.Context, id string) (bool, error)
}

// ContractStore persists contracts for the trustee service.
type ContractStore interface {
	CreateContract(ctx context.Context, c *model.Contract) error
	GetContract(ctx context.Context, id string) (*model.Contract, error)
	ListContractsByTrustee(ctx context.Context, trusteeID string) ([]*model.Contract, error)
	UpdateContract(ctx context.Context, c *model.Contract) error
	DeleteContract(ctx context.Context, id string) error
}

// InspectionStore persists inspections and their items for the inspection
// service.
type InspectionStore interface {
	CreateInspection(ctx context.Context, i *model.Inspection) error
	GetInspection(ctx context.Context, id string) (*model.Inspection, error)
	ListInspections(ctx context.Context, filter model.InspectionFilter) ([]*model.Inspection, int, error)
	ListInspectionsByTrustee(ctx context.Context, trusteeID string) ([]*model.Inspection, error)
	LatestInspectionByTrustee(ctx context.Context, trusteeID string) (*model.Inspection, error)
	UpdateInspection(ctx context.Context, i *model.Inspection) error
	DeleteInspection(ctx context.Context, id string) error

	// CancelInspectionsByTrustee transitions every non-terminal inspection of
	// the trustee to cancelled and returns the number of rows affected.
	// Re-applying against the same state affects zero rows.
	CancelInspectionsByTrustee(ctx context.Context, trusteeID string) (int64, error)

	CreateInspectionItem(ctx context.Context, it *model.InspectionItem) error
	CreateInspectionItems(ctx context.Context, inspectionID string, items []*model.InspectionItem) error
	GetInspectionItem(ctx context.Context, id string) (*model.InspectionItem, error)
	ListInspectionItems(ctx context.Context, inspectionID string) ([]*model.InspectionItem, error)
	UpdateInspectionItem(ctx context.Context, it *model.InspectionItem) error
	DeleteInspectionItem(ctx context.Context, id string) error
}
