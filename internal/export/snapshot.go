package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vendorguard/trusteed/internal/model"
	"github.com/vendorguard/trusteed/internal/store"
)

// snapshotBatchSize bounds how many rows a single list call pulls.
const snapshotBatchSize = 500

// header is the first JSONL record of a snapshot.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// TrusteeSnapshot exports all trustees with their contracts.
type TrusteeSnapshot struct {
	Trustees store.TrusteeStore
}

func (s *TrusteeSnapshot) WriteSnapshot(ctx context.Context, w io.Writer) error {
	var trustees []*model.Trustee
	for offset := 0; ; offset += snapshotBatchSize {
		page, _, err := s.Trustees.ListTrustees(ctx, model.TrusteeFilter{
			Limit:  snapshotBatchSize,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("list trustees: %w", err)
		}
		trustees = append(trustees, page...)
		if len(page) < snapshotBatchSize {
			break
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Service:   "trustee-service",
		Timestamp: time.Now().UTC(),
		Count:     len(trustees),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, t := range trustees {
		if err := enc.Encode(record{Type: "trustee", Data: t}); err != nil {
			return fmt.Errorf("encode trustee %s: %w", t.ID, err)
		}
	}
	return nil
}

// InspectionSnapshot exports all inspections.
type InspectionSnapshot struct {
	Inspections store.InspectionStore
}

func (s *InspectionSnapshot) WriteSnapshot(ctx context.Context, w io.Writer) error {
	var inspections []*model.Inspection
	for offset := 0; ; offset += snapshotBatchSize {
		page, _, err := s.Inspections.ListInspections(ctx, model.InspectionFilter{
			Limit:  snapshotBatchSize,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("list inspections: %w", err)
		}
		inspections = append(inspections, page...)
		if len(page) < snapshotBatchSize {
			break
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Service:   "inspection-service",
		Timestamp: time.Now().UTC(),
		Count:     len(inspections),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, i := range inspections {
		if err := enc.Encode(record{Type: "inspection", Data: i}); err != nil {
			return fmt.Errorf("encode inspection %s: %w", i.ID, err)
		}
	}
	return nil
}
