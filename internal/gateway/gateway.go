// Package gateway implements the aggregation gateway: a single entry point
// that proxies plain CRUD traffic to the owning service and fans out over RPC
// for composite reads.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/vendorguard/trusteed/internal/rpc"
)

// TrusteeReader is the slice of the trustee RPC surface the gateway uses.
type TrusteeReader interface {
	GetTrustee(ctx context.Context, id string) (*rpc.TrusteeInfo, error)
}

// InspectionReader is the slice of the inspection RPC surface the gateway
// uses.
type InspectionReader interface {
	GetInspectionsByTrustee(ctx context.Context, trusteeID string) ([]*rpc.InspectionInfo, error)
	GetLatestInspection(ctx context.Context, trusteeID string) (*rpc.InspectionInfo, error)
}

// Aggregator composes reads that span both services.
type Aggregator struct {
	trustees    TrusteeReader
	inspections InspectionReader
}

// NewAggregator returns an Aggregator over the given clients.
func NewAggregator(trustees TrusteeReader, inspections InspectionReader) *Aggregator {
	return &Aggregator{trustees: trustees, inspections: inspections}
}

// TrusteeSummary is the composite view of a trustee and its latest
// inspection. LatestInspection is null when none exists or the inspection
// service could not answer.
type TrusteeSummary struct {
	Trustee          *TrusteeView    `json:"trustee"`
	LatestInspection *InspectionView `json:"latestInspection"`
}

// TrusteeView is the trustee as rendered by the gateway.
type TrusteeView struct {
	ID             string    `json:"id"`
	CompanyName    string    `json:"companyName"`
	BusinessNumber string    `json:"businessNumber"`
	Representative string    `json:"representative"`
	ContactName    string    `json:"contactName"`
	ContactPhone   string    `json:"contactPhone"`
	ContactEmail   string    `json:"contactEmail"`
	DelegatedTasks string    `json:"delegatedTasks"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// InspectionView is an inspection as rendered by the gateway.
type InspectionView struct {
	ID             string    `json:"id"`
	TrusteeID      string    `json:"trusteeId"`
	InspectionDate time.Time `json:"inspectionDate"`
	Score          int       `json:"score"`
	Status         string    `json:"status"`
	Findings       string    `json:"findings,omitempty"`
	Improvements   string    `json:"improvements,omitempty"`
}

// Summary builds the composite trustee view. The trustee lookup is the
// primary source: its failure fails the request. The inspection lookup is
// secondary: any failure degrades to a null latestInspection so the summary
// stays serveable while the inspection service is down.
func (a *Aggregator) Summary(ctx context.Context, trusteeID string) (*TrusteeSummary, error) {
	t, err := a.trustees.GetTrustee(ctx, trusteeID)
	if err != nil {
		return nil, err
	}

	summary := &TrusteeSummary{Trustee: trusteeView(t)}

	latest, err := a.inspections.GetLatestInspection(ctx, trusteeID)
	switch {
	case err == nil:
		summary.LatestInspection = inspectionView(latest)
	case rpc.IsNotFound(err):
		// no inspections yet
	default:
		slog.Warn("latest inspection lookup failed, degrading summary",
			"trusteeId", trusteeID, "error", err)
	}

	return summary, nil
}

// Inspections lists a trustee's inspections through the RPC surface.
func (a *Aggregator) Inspections(ctx context.Context, trusteeID string) ([]*InspectionView, error) {
	list, err := a.inspections.GetInspectionsByTrustee(ctx, trusteeID)
	if err != nil {
		return nil, err
	}
	views := make([]*InspectionView, len(list))
	for i, insp := range list {
		views[i] = inspectionView(insp)
	}
	return views, nil
}

func trusteeView(t *rpc.TrusteeInfo) *TrusteeView {
	return &TrusteeView{
		ID:             t.ID,
		CompanyName:    t.CompanyName,
		BusinessNumber: t.BusinessNumber,
		Representative: t.Representative,
		ContactName:    t.ContactName,
		ContactPhone:   t.ContactPhone,
		ContactEmail:   t.ContactEmail,
		DelegatedTasks: t.DelegatedTasks,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func inspectionView(i *rpc.InspectionInfo) *InspectionView {
	return &InspectionView{
		ID:             i.ID,
		TrusteeID:      i.TrusteeID,
		InspectionDate: i.InspectionDate,
		Score:          i.Score,
		Status:         i.Status,
		Findings:       i.Findings,
		Improvements:   i.Improvements,
	}
}
