package inspection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vendorguard/trusteed/internal/events"
)

// cascadeQueue is the durable consumer name for the trustee deletion
// cascade. A single named consumer per service means restarts resume where
// the last instance left off and replicas share the work.
const cascadeQueue = "inspection-trustee-deleted"

// SubscribeCascades binds the cascade handler: when a trustee is deleted,
// every pending inspection for it is cancelled.
func SubscribeCascades(ctx context.Context, sub events.Subscriber, svc *Service) error {
	return sub.Subscribe(ctx, cascadeQueue, events.TypeTrusteeDeleted, func(ctx context.Context, env events.Envelope) error {
		var payload events.TrusteeDeleted
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return fmt.Errorf("decode trustee.deleted payload: %w", err)
		}
		if payload.ID == "" {
			return fmt.Errorf("trustee.deleted event %s has no trustee id", env.EventID)
		}

		reason := fmt.Sprintf("trustee %s deleted", payload.ID)
		if payload.CompanyName != "" {
			reason = fmt.Sprintf("trustee %s (%s) deleted", payload.ID, payload.CompanyName)
		}

		n, err := svc.CancelByTrustee(ctx, payload.ID, reason)
		if err != nil {
			return fmt.Errorf("cancel inspections for trustee %s: %w", payload.ID, err)
		}
		slog.Info("cancelled inspections after trustee deletion",
			"trusteeId", payload.ID, "cancelled", n, "eventId", env.EventID)
		return nil
	})
}
