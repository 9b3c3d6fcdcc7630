package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/vendorguard/trusteed/internal/rpc"
	"github.com/vendorguard/trusteed/internal/web"
)

// NewHandler returns the gateway HTTP surface: aggregate endpoints served
// locally, everything else reverse-proxied to the owning service.
func NewHandler(agg *Aggregator, trusteeURL, inspectionURL *url.URL) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", web.HealthHandler("gateway"))

	mux.HandleFunc("GET /api/aggregate/trustees/{id}/summary", func(w http.ResponseWriter, r *http.Request) {
		summary, err := agg.Summary(r.Context(), r.PathValue("id"))
		if err != nil {
			writeRPCError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": summary})
	})

	mux.HandleFunc("GET /api/aggregate/trustees/{id}/inspections", func(w http.ResponseWriter, r *http.Request) {
		views, err := agg.Inspections(r.Context(), r.PathValue("id"))
		if err != nil {
			writeRPCError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": views})
	})

	trusteeProxy := newProxy(trusteeURL)
	inspectionProxy := newProxy(inspectionURL)

	mux.Handle("/api/trustees", trusteeProxy)
	mux.Handle("/api/trustees/", trusteeProxy)
	mux.Handle("/api/contracts", trusteeProxy)
	mux.Handle("/api/contracts/", trusteeProxy)
	mux.Handle("/api/inspections", inspectionProxy)
	mux.Handle("/api/inspections/", inspectionProxy)
	mux.Handle("/api/inspection-items", inspectionProxy)
	mux.Handle("/api/inspection-items/", inspectionProxy)

	return mux
}

// writeRPCError maps an upstream RPC failure onto the gateway's response. A
// NotFound from the peer is the caller's 404; anything else means the
// upstream could not answer.
func writeRPCError(w http.ResponseWriter, err error) {
	if rpc.IsNotFound(err) {
		web.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	web.WriteError(w, http.StatusBadGateway, "upstream service unavailable")
}

func newProxy(target *url.URL) *httputil.ReverseProxy {
	p := httputil.NewSingleHostReverseProxy(target)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		web.WriteError(w, http.StatusBadGateway, "upstream service unavailable")
	}
	return p
}
