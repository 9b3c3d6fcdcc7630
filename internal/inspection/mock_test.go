package inspection

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/vendorguard/trusteed/internal/events"
	"github.com/vendorguard/trusteed/internal/model"
	"github.com/vendorguard/trusteed/internal/rpc"
	"github.com/vendorguard/trusteed/internal/store"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mockStore is an in-memory InspectionStore for coordinator tests.
type mockStore struct {
	inspections map[string]*model.Inspection
	items       map[string]*model.InspectionItem

	cancelCalls int
}

var _ store.InspectionStore = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		inspections: map[string]*model.Inspection{},
		items:       map[string]*model.InspectionItem{},
	}
}

func (m *mockStore) CreateInspection(_ context.Context, i *model.Inspection) error {
	cp := *i
	m.inspections[i.ID] = &cp
	return nil
}

func (m *mockStore) GetInspection(_ context.Context, id string) (*model.Inspection, error) {
	i, ok := m.inspections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *i
	return &cp, nil
}

func (m *mockStore) ListInspections(_ context.Context, filter model.InspectionFilter) ([]*model.Inspection, int, error) {
	var out []*model.Inspection
	for _, i := range m.inspections {
		if filter.TrusteeID != "" && i.TrusteeID != filter.TrusteeID {
			continue
		}
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		cp := *i
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockStore) ListInspectionsByTrustee(ctx context.Context, trusteeID string) ([]*model.Inspection, error) {
	out, _, err := m.ListInspections(ctx, model.InspectionFilter{TrusteeID: trusteeID})
	return out, err
}

func (m *mockStore) LatestInspectionByTrustee(ctx context.Context, trusteeID string) (*model.Inspection, error) {
	list, err := m.ListInspectionsByTrustee(ctx, trusteeID)
	if err != nil {
		return nil, err
	}
	var latest *model.Inspection
	for _, i := range list {
		if latest == nil || i.InspectionDate.After(latest.InspectionDate) {
			latest = i
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	return latest, nil
}

func (m *mockStore) UpdateInspection(_ context.Context, i *model.Inspection) error {
	if _, ok := m.inspections[i.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *i
	m.inspections[i.ID] = &cp
	return nil
}

func (m *mockStore) DeleteInspection(_ context.Context, id string) error {
	if _, ok := m.inspections[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.inspections, id)
	return nil
}

func (m *mockStore) CancelInspectionsByTrustee(_ context.Context, trusteeID string) (int64, error) {
	m.cancelCalls++
	var n int64
	for _, i := range m.inspections {
		if i.TrusteeID == trusteeID && !i.Status.IsTerminal() {
			i.Status = model.InspectionCancelled
			n++
		}
	}
	return n, nil
}

func (m *mockStore) CreateInspectionItem(_ context.Context, it *model.InspectionItem) error {
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *mockStore) CreateInspectionItems(ctx context.Context, _ string, items []*model.InspectionItem) error {
	for _, it := range items {
		if err := m.CreateInspectionItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStore) GetInspectionItem(_ context.Context, id string) (*model.InspectionItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *it
	return &cp, nil
}

func (m *mockStore) ListInspectionItems(_ context.Context, inspectionID string) ([]*model.InspectionItem, error) {
	var out []*model.InspectionItem
	for _, it := range m.items {
		if it.InspectionID == inspectionID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateInspectionItem(_ context.Context, it *model.InspectionItem) error {
	if _, ok := m.items[it.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *mockStore) DeleteInspectionItem(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

// mockValidator simulates trustee validation outcomes.
type mockValidator struct {
	exists bool
	err    error
}

func (m *mockValidator) ValidateTrusteeExists(context.Context, string) (*rpc.ValidateResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &rpc.ValidateResult{Exists: m.exists, CompanyName: "Acme"}, nil
}

// capturingPublisher records every published event.
type capturingPublisher struct {
	published []publishedEvent
	err       error
}

type publishedEvent struct {
	Type string
	Data any
}

func (p *capturingPublisher) Publish(_ context.Context, eventType string, data any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedEvent{Type: eventType, Data: data})
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) byType(eventType string) []publishedEvent {
	var out []publishedEvent
	for _, e := range p.published {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// unavailableErr mimics a peer that cannot answer.
func unavailableErr() error {
	return status.Error(codes.Unavailable, "connection refused")
}

// notFoundStatus mimics a definitive negative from the peer.
func notFoundStatus() error {
	return status.Error(codes.NotFound, "trustee not found")
}

// envelopeFor wraps a payload the way the bus would deliver it.
func envelopeFor(t interface{ Fatalf(string, ...any) }, eventType string, data any) events.Envelope {
	env, err := events.NewEnvelope("trustee-service", eventType, data)
	if err != nil {
		t.Fatalf("building envelope: %v", err)
	}
	return env
}

// decodePayload unmarshals an envelope payload for assertions.
func decodePayload[T any](t interface{ Fatalf(string, ...any) }, data any) T {
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return out
}
