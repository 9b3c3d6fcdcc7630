package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StreamName is the durable stream all services publish to. It plays the role
// of a shared topic exchange: subjects are the routing keys.
const StreamName = "trustee-events"

// Event types double as routing keys: the subject an event is published under
// is always equal to its type.
const (
	TypeTrusteeCreated      = "trustee.created"
	TypeTrusteeUpdated      = "trustee.updated"
	TypeTrusteeDeleted      = "trustee.deleted"
	TypeInspectionCreated   = "inspection.created"
	TypeInspectionCompleted = "inspection.completed"
	TypeInspectionCancelled = "inspection.cancelled"
)

// Subjects are the subject spaces captured by the stream.
var Subjects = []string{"trustee.>", "inspection.>"}

// IsKnownType reports whether t is one of the fixed event types.
// Publishing under any other routing key is a programming error.
func IsKnownType(t string) bool {
	switch t {
	case TypeTrusteeCreated, TypeTrusteeUpdated, TypeTrusteeDeleted,
		TypeInspectionCreated, TypeInspectionCompleted, TypeInspectionCancelled:
		return true
	}
	return false
}

// Envelope is the wire shape of every domain event. Immutable once built;
// the event id is generated fresh for each publish attempt.
type Envelope struct {
	EventID   string          `json:"eventId"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
}

// NewEnvelope wraps a typed payload into an Envelope for the given source
// service and event type.
func NewEnvelope(source, eventType string, data any) (Envelope, error) {
	if !IsKnownType(eventType) {
		return Envelope{}, fmt.Errorf("unknown event type %q", eventType)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling event data: %w", err)
	}
	return Envelope{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		Type:      eventType,
		Data:      raw,
	}, nil
}

// Event payloads, keyed by type.

type TrusteeCreated struct {
	ID             string `json:"id"`
	CompanyName    string `json:"companyName"`
	BusinessNumber string `json:"businessNumber"`
}

type TrusteeUpdated struct {
	ID          string   `json:"id"`
	CompanyName string   `json:"companyName"`
	Changes     []string `json:"changes"`
}

type TrusteeDeleted struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
}

type InspectionCreated struct {
	ID             string    `json:"id"`
	TrusteeID      string    `json:"trusteeId"`
	InspectionDate time.Time `json:"inspectionDate"`
}

type InspectionCompleted struct {
	ID        string `json:"id"`
	TrusteeID string `json:"trusteeId"`
	Score     *int   `json:"score"`
	Status    string `json:"status"`
}

type InspectionCancelled struct {
	ID        string `json:"id"`
	TrusteeID string `json:"trusteeId"`
	Reason    string `json:"reason"`
}

// Handler processes one delivered event. A nil return acknowledges the
// message; an error drops it without redelivery.
type Handler func(ctx context.Context, env Envelope) error

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
	Close() error
}

// Subscriber registers durable handlers for inbound events.
type Subscriber interface {
	// Subscribe binds a durable queue to the given event type and invokes
	// handler for every delivered message until ctx is cancelled.
	Subscribe(ctx context.Context, queue, eventType string, handler Handler) error
}

// Bus combines both ends of the event channel.
type Bus interface {
	Publisher
	Subscriber
}
