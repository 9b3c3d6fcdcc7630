package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/vendorguard/trusteed/internal/rpc"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeTrusteeReader struct {
	info *rpc.TrusteeInfo
	err  error
}

func (f *fakeTrusteeReader) GetTrustee(context.Context, string) (*rpc.TrusteeInfo, error) {
	return f.info, f.err
}

type fakeInspectionReader struct {
	list      []*rpc.InspectionInfo
	latest    *rpc.InspectionInfo
	listErr   error
	latestErr error
}

func (f *fakeInspectionReader) GetInspectionsByTrustee(context.Context, string) ([]*rpc.InspectionInfo, error) {
	return f.list, f.listErr
}

func (f *fakeInspectionReader) GetLatestInspection(context.Context, string) (*rpc.InspectionInfo, error) {
	return f.latest, f.latestErr
}

func testTrustee() *rpc.TrusteeInfo {
	return &rpc.TrusteeInfo{
		ID:          "tr-1",
		CompanyName: "Acme Corp",
		Status:      "active",
	}
}

func testInspection() *rpc.InspectionInfo {
	return &rpc.InspectionInfo{
		ID:             "insp-1",
		TrusteeID:      "tr-1",
		InspectionDate: time.Now().UTC(),
		Score:          92,
		Status:         "completed",
	}
}

func TestSummary(t *testing.T) {
	agg := NewAggregator(
		&fakeTrusteeReader{info: testTrustee()},
		&fakeInspectionReader{latest: testInspection()},
	)

	summary, err := agg.Summary(context.Background(), "tr-1")
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if summary.Trustee == nil || summary.Trustee.ID != "tr-1" {
		t.Fatalf("got trustee %+v", summary.Trustee)
	}
	if summary.LatestInspection == nil || summary.LatestInspection.Score != 92 {
		t.Fatalf("got latest inspection %+v", summary.LatestInspection)
	}
}

func TestSummary_TrusteeFailureFailsRequest(t *testing.T) {
	agg := NewAggregator(
		&fakeTrusteeReader{err: status.Error(codes.Unavailable, "down")},
		&fakeInspectionReader{latest: testInspection()},
	)

	if _, err := agg.Summary(context.Background(), "tr-1"); err == nil {
		t.Fatal("Summary succeeded despite trustee lookup failure")
	}
}

func TestSummary_InspectionFailureDegradesToNull(t *testing.T) {
	for name, latestErr := range map[string]error{
		"unavailable": status.Error(codes.Unavailable, "down"),
		"not found":   status.Error(codes.NotFound, "no inspections"),
		"deadline":    context.DeadlineExceeded,
	} {
		t.Run(name, func(t *testing.T) {
			agg := NewAggregator(
				&fakeTrusteeReader{info: testTrustee()},
				&fakeInspectionReader{latestErr: latestErr},
			)

			summary, err := agg.Summary(context.Background(), "tr-1")
			if err != nil {
				t.Fatalf("Summary error: %v", err)
			}
			if summary.Trustee == nil {
				t.Fatal("summary lost the trustee")
			}
			if summary.LatestInspection != nil {
				t.Errorf("got latest inspection %+v, want nil", summary.LatestInspection)
			}
		})
	}
}

func TestSummaryHTTP_NullSerialization(t *testing.T) {
	agg := NewAggregator(
		&fakeTrusteeReader{info: testTrustee()},
		&fakeInspectionReader{latestErr: status.Error(codes.Unavailable, "down")},
	)
	handler := NewHandler(agg, mustParse(t, "http://localhost:1"), mustParse(t, "http://localhost:1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/aggregate/trustees/tr-1/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	var body struct {
		Data struct {
			Trustee          json.RawMessage `json:"trustee"`
			LatestInspection json.RawMessage `json:"latestInspection"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if string(body.Data.LatestInspection) != "null" {
		t.Errorf("latestInspection = %s, want null", body.Data.LatestInspection)
	}
}

func TestSummaryHTTP_UnknownTrustee(t *testing.T) {
	agg := NewAggregator(
		&fakeTrusteeReader{err: status.Error(codes.NotFound, "trustee not found")},
		&fakeInspectionReader{},
	)
	handler := NewHandler(agg, mustParse(t, "http://localhost:1"), mustParse(t, "http://localhost:1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/aggregate/trustees/tr-ghost/summary", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestProxyRouting(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", "trustee")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	agg := NewAggregator(&fakeTrusteeReader{}, &fakeInspectionReader{})
	handler := NewHandler(agg, mustParse(t, upstream.URL), mustParse(t, "http://localhost:1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trustees/tr-1", nil))
	if rec.Header().Get("X-Upstream") != "trustee" {
		t.Error("request was not proxied to the trustee service")
	}

	// The inspection upstream is unreachable: the proxy answers 502 instead
	// of crashing the gateway.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspections/insp-1", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("got status %d, want 502", rec.Code)
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url %q: %v", raw, err)
	}
	return u
}
