// AngelaMos | 2026
// handler.go

package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

type Handler struct {
	service  *Service
	resolver *authz.Resolver
}

func NewHandler(service *Service, resolver *authz.Resolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/stats", h.GetStats)
		r.Get("/income-trend", h.GetIncomeTrend)
		r.Get("/tenant-tracker", h.GetTenantTracker)
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	kostID, err := parseKostID(r)
	if err != nil {
		core.BadRequest(w, "invalid kost_id")
		return
	}

	stats, err := h.service.Stats(r.Context(), scope, kostID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) GetIncomeTrend(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	kostID, err := parseKostID(r)
	if err != nil {
		core.BadRequest(w, "invalid kost_id")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = PeriodMonth
	}

	trend, err := h.service.IncomeTrend(r.Context(), scope, kostID, period)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, err.Error())
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, trend)
}

func (h *Handler) GetTenantTracker(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	kostID, err := parseKostID(r)
	if err != nil {
		core.BadRequest(w, "invalid kost_id")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			core.BadRequest(w, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	tracker, err := h.service.Tracker(r.Context(), scope, kostID, limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, tracker)
}

func parseKostID(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("kost_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
