package trustee

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vendorguard/trusteed/internal/model"
	"github.com/vendorguard/trusteed/internal/rpc"
	"github.com/vendorguard/trusteed/internal/store"
)

// Backend serves the TrusteeService RPCs straight from the store. It reads
// the same rows the HTTP API serves, so peers validate against live state.
type Backend struct {
	trustees store.TrusteeStore
}

var _ rpc.TrusteeBackend = (*Backend)(nil)

// NewBackend returns a Backend over the given store.
func NewBackend(trustees store.TrusteeStore) *Backend {
	return &Backend{trustees: trustees}
}

func (b *Backend) GetTrustee(ctx context.Context, id string) (*rpc.TrusteeInfo, error) {
	t, err := b.trustees.GetTrustee(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("trustee", id)
	}
	if err != nil {
		return nil, err
	}
	return &rpc.TrusteeInfo{
		ID:             t.ID,
		CompanyName:    t.CompanyName,
		BusinessNumber: t.BusinessNumber,
		Representative: t.Representative,
		ContactName:    t.ContactName,
		ContactPhone:   t.ContactPhone,
		ContactEmail:   t.ContactEmail,
		DelegatedTasks: t.DelegatedTasks,
		Status:         t.Status.String(),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}, nil
}

// ValidateTrusteeExists reports whether the trustee exists. A missing row is
// a negative answer, not an error.
func (b *Backend) ValidateTrusteeExists(ctx context.Context, id string) (*rpc.ValidateResult, error) {
	t, err := b.trustees.GetTrustee(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return &rpc.ValidateResult{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rpc.ValidateResult{Exists: true, CompanyName: t.CompanyName}, nil
}
