package inspection

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vendorguard/trusteed/internal/model"
	"github.com/vendorguard/trusteed/internal/web"
)

// NewHandler returns the inspection service HTTP API.
func NewHandler(svc *Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", web.HealthHandler("inspection-service"))

	mux.HandleFunc("GET /api/inspections", func(w http.ResponseWriter, r *http.Request) {
		filter := model.InspectionFilter{
			TrusteeID: r.URL.Query().Get("trusteeId"),
			Limit:     queryInt(r, "limit", 20),
			Offset:    queryInt(r, "offset", 0),
		}
		if status := r.URL.Query().Get("status"); status != "" {
			is := model.InspectionStatus(status)
			if !is.IsValid() {
				web.WriteError(w, http.StatusBadRequest, "invalid status filter")
				return
			}
			filter.Status = is
		}
		inspections, total, err := svc.ListInspections(r.Context(), filter)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": inspections, "total": total})
	})

	mux.HandleFunc("GET /api/inspections/trustee/{trusteeId}", func(w http.ResponseWriter, r *http.Request) {
		inspections, err := svc.ListInspectionsByTrustee(r.Context(), r.PathValue("trusteeId"))
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": inspections})
	})

	mux.HandleFunc("GET /api/inspections/{id}", func(w http.ResponseWriter, r *http.Request) {
		i, err := svc.GetInspection(r.Context(), r.PathValue("id"))
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": i})
	})

	mux.HandleFunc("POST /api/inspections", func(w http.ResponseWriter, r *http.Request) {
		var req CreateInspectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		i, err := svc.CreateInspection(r.Context(), &req)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, map[string]any{"data": i})
	})

	mux.HandleFunc("PATCH /api/inspections/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req UpdateInspectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		i, err := svc.UpdateInspection(r.Context(), r.PathValue("id"), &req)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": i})
	})

	mux.HandleFunc("DELETE /api/inspections/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteInspection(r.Context(), r.PathValue("id")); err != nil {
			web.WriteDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/inspection-items/inspection/{inspectionId}", func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListItems(r.Context(), r.PathValue("inspectionId"))
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
	})

	mux.HandleFunc("POST /api/inspection-items/inspection/{inspectionId}/batch", func(w http.ResponseWriter, r *http.Request) {
		var reqs []*ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		items, err := svc.CreateItems(r.Context(), r.PathValue("inspectionId"), reqs)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, map[string]any{"data": items})
	})

	mux.HandleFunc("GET /api/inspection-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		it, err := svc.GetItem(r.Context(), r.PathValue("id"))
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": it})
	})

	mux.HandleFunc("POST /api/inspection-items", func(w http.ResponseWriter, r *http.Request) {
		var req ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		it, err := svc.CreateItem(r.Context(), &req)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, map[string]any{"data": it})
	})

	mux.HandleFunc("PATCH /api/inspection-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req UpdateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		it, err := svc.UpdateItem(r.Context(), r.PathValue("id"), &req)
		if err != nil {
			web.WriteDomainError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{"data": it})
	})

	mux.HandleFunc("DELETE /api/inspection-items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
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
