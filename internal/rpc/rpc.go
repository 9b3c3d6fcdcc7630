// Package rpc implements the typed synchronous call layer between services.
//
// Contracts are defined in proto/ and hand-registered as grpc.ServiceDesc
// values with structpb.Struct wire messages; the Go surface on both sides is
// fully typed per operation. Validation callers classify failures with
// IsNotFound (definitive) and Inconclusive (availability, not an answer).
package rpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// DefaultTimeout bounds every outbound remote call unless the caller's
// context is already tighter.
const DefaultTimeout = 3 * time.Second

func dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return conn, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// --- structpb helpers ---

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("building message: %w", err)
	}
	return st, nil
}

func strField(st *structpb.Struct, key string) string {
	return st.GetFields()[key].GetStringValue()
}

func numField(st *structpb.Struct, key string) float64 {
	return st.GetFields()[key].GetNumberValue()
}

func boolField(st *structpb.Struct, key string) bool {
	return st.GetFields()[key].GetBoolValue()
}

func timeField(st *structpb.Struct, key string) time.Time {
	s := strField(st, key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func timeValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
