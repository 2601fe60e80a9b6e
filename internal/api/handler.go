// Package api provides the HTTP surface of the trade statistics API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"secex-api/internal/domain"
	"secex-api/internal/middleware"
	"secex-api/internal/service"
)

// Handler serves the read-only data routes.
type Handler struct {
	data   *service.DataService
	routes map[int]*domain.RouteSpec
	logger *slog.Logger
}

// NewHandler creates a Handler around the data service and the startup
// route table.
func NewHandler(data *service.DataService, routes map[int]*domain.RouteSpec, logger *slog.Logger) *Handler {
	return &Handler{data: data, routes: routes, logger: logger}
}

// Mount registers the data routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/secex/{year}/{braID}/{hsID}/{wldID}/", h.Data)
}

// Data handles GET /secex/{year}/{bra_id}/{hs_id}/{wld_id}/.
//
// The fact table variant is selected by which dimension segments differ
// from the literal "all"; a request naming no dimension matches no route.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	req := domain.DataRequest{
		Path:   r.URL.Path,
		Year:   chi.URLParam(r, "year"),
		Bra:    chi.URLParam(r, "braID"),
		Hs:     chi.URLParam(r, "hsID"),
		Wld:    chi.URLParam(r, "wldID"),
		Order:  r.URL.Query().Get("order"),
		Filter: r.URL.Query().Get("filter"),
		Limit:  r.URL.Query().Get("limit"),
		Offset: r.URL.Query().Get("offset"),
	}

	mask := 0
	if req.Bra != "all" {
		mask |= maskBra
	}
	if req.Hs != "all" {
		mask |= maskHs
	}
	if req.Wld != "all" {
		mask |= maskWld
	}

	route, ok := h.routes[mask]
	if !ok {
		writeError(w, domain.ErrNotFound("no data view for the requested dimensions"))
		return
	}

	body, cached, err := h.data.Fetch(r.Context(), route, req)
	if err != nil {
		if httpStatusFromError(err) == http.StatusInternalServerError {
			h.logger.Error("data query failed",
				"table", route.Table,
				"path", req.Path,
				"request_id", middleware.RequestIDFromContext(r.Context()),
				"error", err)
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if cached {
		w.Header().Set("X-Cache", "HIT")
	}
	_, _ = w.Write(body)
}

// Healthz is a liveness probe.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
