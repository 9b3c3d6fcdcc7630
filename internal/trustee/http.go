package trustee

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vendorguard/trusteed/internal/model"
	"github.com/vendorguard/trusteed/internal/web"
)

// NewHandler returns the trustee service HTTP API.
func NewHandler(svc *Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", web.HealthHandler("trustee-service"))

	mux.HandleFunc("GET /api/trustees", func(w http.ResponseWriter, r *http.Request) {
		filter := model.TrusteeFilter{
			Search: r.URL.Query().Get("search"),
			Limit:  queryInt(r, "limit", 20),
			Offset: queryInt(r, "offset", 0),
		}
		if status := r.URL.Query().Get("status"); status != "" {
			ts := model.TrusteeStatus(status)
			if !ts.IsValid() {
				web.WriteError(w, http.StatusBadRequest, "invalid status filter")
				return
			}
			filter.Status = ts
		}
		trustees, total, err := svc.ListTrustees(r.Context(), filter)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": trustees, "total": total})
	})

	mux.HandleFunc("GET /api/trustees/{id}", func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetTrustee(r.Context(), r.PathValue("id"))
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": t})
	})

	mux.HandleFunc("POST /api/trustees", func(w http.ResponseWriter, r *http.Request) {
		var req CreateTrusteeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		t, err := svc.CreateTrustee(r.Context(), &req)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, map[string]any{"data": t})
	})

	mux.HandleFunc("PATCH /api/trustees/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req UpdateTrusteeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		t, err := svc.UpdateTrustee(r.Context(), r.PathValue("id"), &req)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": t})
	})

	mux.HandleFunc("DELETE /api/trustees/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteTrustee(r.Context(), r.PathValue("id")); err != nil {
			web.WriteDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/contracts/trustee/{trusteeId}", func(w http.ResponseWriter, r *http.Request) {
		contracts, err := svc.ListContractsByTrustee(r.Context(), r.PathValue("trusteeId"))
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": contracts})
	})

	mux.HandleFunc("GET /api/contracts/{id}", func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetContract(r.Context(), r.PathValue("id"))
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": c})
	})

	mux.HandleFunc("POST /api/contracts", func(w http.ResponseWriter, r *http.Request) {
		var req CreateContractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		c, err := svc.CreateContract(r.Context(), &req)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, map[string]any{"data": c})
	})

	mux.HandleFunc("PATCH /api/contracts/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req UpdateContractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		c, err := svc.UpdateContract(r.Context(), r.PathValue("id"), &req)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": c})
	})

	mux.HandleFunc("DELETE /api/contracts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteContract(r.Context(), r.PathValue("id")); err != nil {
			web.WriteDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
