// AngelaMos | 2026
// handler.go

package cron

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kostapp/kost-api/internal/core"
)

// LateMarker runs the recurring tenant status sweep.
type LateMarker interface {
	MarkLate(ctx context.Context) (int, error)
}

type Handler struct {
	secret string
	marker LateMarker
}

func NewHandler(secret string, marker LateMarker) *Handler {
	return &Handler{secret: secret, marker: marker}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/internal/cron", func(r chi.Router) {
		r.Post("/update-tenant-status", h.UpdateTenantStatus)
	})
}

// UpdateTenantStatus is invoked by the external scheduler. A wrong or
// missing secret gets an explicit 401, never a silent no-op.
func (h *Handler) UpdateTenantStatus(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Cron-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		slog.Warn("cron invocation rejected", "reason", "bad secret")
		core.Unauthorized(w, "invalid cron secret")
		return
	}

	count, err := h.marker.MarkLate(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]int{"updated": count})
}
