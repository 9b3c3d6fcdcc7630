package inspection

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/vendorguard/trusteed/internal/events"
	"github.com/vendorguard/trusteed/internal/model"
)

// capturingSubscriber records the binding so tests can drive the handler
// directly.
type capturingSubscriber struct {
	queue     string
	eventType string
	handler   events.Handler
}

func (s *capturingSubscriber) Subscribe(_ context.Context, queue, eventType string, handler events.Handler) error {
	s.queue = queue
	s.eventType = eventType
	s.handler = handler
	return nil
}

func (s *capturingSubscriber) Close() error { return nil }

func bindCascade(t *testing.T, svc *Service) *capturingSubscriber {
	t.Helper()
	sub := &capturingSubscriber{}
	if err := SubscribeCascades(context.Background(), sub, svc); err != nil {
		t.Fatalf("SubscribeCascades error: %v", err)
	}
	if sub.eventType != events.TypeTrusteeDeleted {
		t.Fatalf("bound to %q, want %q", sub.eventType, events.TypeTrusteeDeleted)
	}
	if sub.queue != "inspection-trustee-deleted" {
		t.Fatalf("bound queue %q", sub.queue)
	}
	return sub
}

func TestCascade_CancelsPendingInspections(t *testing.T) {
	st := newMockStore()
	pub := &capturingPublisher{}
	svc := newTestService(st, &mockValidator{exists: true}, pub)
	sub := bindCascade(t, svc)

	for _, status := range []model.InspectionStatus{
		model.InspectionScheduled,
		model.InspectionInProgress,
	} {
		if _, err := svc.CreateInspection(context.Background(), &CreateInspectionRequest{
			TrusteeID:      "tr-1",
			InspectionDate: time.Now(),
			Status:         status,
		}); err != nil {
			t.Fatalf("seeding inspection: %v", err)
		}
	}
	pub.published = nil

	env := envelopeFor(t, events.TypeTrusteeDeleted, events.TrusteeDeleted{
		ID:          "tr-1",
		CompanyName: "Acme Corp",
	})
	if err := sub.handler(context.Background(), env); err != nil {
		t.Fatalf("cascade handler error: %v", err)
	}

	for _, i := range st.inspections {
		if i.Status != model.InspectionCancelled {
			t.Errorf("inspection %s has status %q, want cancelled", i.ID, i.Status)
		}
	}

	evts := pub.byType(events.TypeInspectionCancelled)
	if len(evts) != 1 {
		t.Fatalf("got %d inspection.cancelled events, want 1", len(evts))
	}
	payload := decodePayload[events.InspectionCancelled](t, evts[0].Data)
	if !strings.Contains(payload.Reason, "Acme Corp") {
		t.Errorf("reason %q does not mention the deleted trustee", payload.Reason)
	}
}

func TestCascade_RedeliveryIsIdempotent(t *testing.T) {
	st := newMockStore()
	pub := &capturingPublisher{}
	svc := newTestService(st, &mockValidator{exists: true}, pub)
	sub := bindCascade(t, svc)

	if _, err := svc.CreateInspection(context.Background(), &CreateInspectionRequest{
		TrusteeID:      "tr-1",
		InspectionDate: time.Now(),
	}); err != nil {
		t.Fatalf("seeding inspection: %v", err)
	}
	pub.published = nil

	env := envelopeFor(t, events.TypeTrusteeDeleted, events.TrusteeDeleted{ID: "tr-1"})
	for range 2 {
		if err := sub.handler(context.Background(), env); err != nil {
			t.Fatalf("cascade handler error: %v", err)
		}
	}

	if got := len(pub.byType(events.TypeInspectionCancelled)); got != 1 {
		t.Errorf("got %d inspection.cancelled events after redelivery, want 1", got)
	}
}

func TestCascade_RejectsMalformedPayload(t *testing.T) {
	svc := newTestService(newMockStore(), &mockValidator{exists: true}, &capturingPublisher{})
	sub := bindCascade(t, svc)

	env := events.Envelope{
		EventID: "evt-1",
		Type:    events.TypeTrusteeDeleted,
		Data:    json.RawMessage(`{not json`),
	}
	if err := sub.handler(context.Background(), env); err == nil {
		t.Error("handler accepted malformed payload")
	}

	env.Data = json.RawMessage(`{"companyName":"No ID Corp"}`)
	if err := sub.handler(context.Background(), env); err == nil {
		t.Error("handler accepted payload without trustee id")
	}
}
