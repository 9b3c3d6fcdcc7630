package inspection

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vendorguard/trusteed/internal/model"
	"github.com/vendorguard/trusteed/internal/rpc"
	"github.com/vendorguard/trusteed/internal/store"
)

// Backend serves the InspectionService RPCs straight from the store.
type Backend struct {
	inspections store.InspectionStore
}

var _ rpc.InspectionBackend = (*Backend)(nil)

// NewBackend returns a Backend over the given store.
func NewBackend(inspections store.InspectionStore) *Backend {
	return &Backend{inspections: inspections}
}

func (b *Backend) GetInspection(ctx context.Context, id string) (*rpc.InspectionInfo, error) {
	insp, err := b.inspections.GetInspection(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("inspection", id)
	}
	if err != nil {
		return nil, err
	}
	return toInfo(insp), nil
}

func (b *Backend) ValidateInspectionExists(ctx context.Context, id string) (*rpc.InspectionExistsResult, error) {
	insp, err := b.inspections.GetInspection(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return &rpc.InspectionExistsResult{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rpc.InspectionExistsResult{Exists: true, Status: insp.Status.String()}, nil
}

func (b *Backend) GetInspectionsByTrustee(ctx context.Context, trusteeID string) ([]*rpc.InspectionInfo, error) {
	list, err := b.inspections.ListInspectionsByTrustee(ctx, trusteeID)
	if err != nil {
		return nil, err
	}
	infos := make([]*rpc.InspectionInfo, len(list))
	for i, insp := range list {
		infos[i] = toInfo(insp)
	}
	return infos, nil
}

func (b *Backend) GetLatestInspection(ctx context.Context, trusteeID string) (*rpc.InspectionInfo, error) {
	insp, err := b.inspections.LatestInspectionByTrustee(ctx, trusteeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("inspection for trustee", trusteeID)
	}
	if err != nil {
		return nil, err
	}
	return toInfo(insp), nil
}

func toInfo(i *model.Inspection) *rpc.InspectionInfo {
	info := &rpc.InspectionInfo{
		ID:             i.ID,
		TrusteeID:      i.TrusteeID,
		InspectionDate: i.InspectionDate,
		Status:         i.Status.String(),
		Findings:       i.Findings,
		Improvements:   i.Improvements,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
	if i.Score != nil {
		info.Score = *i.Score
	}
	return info
}
