// AngelaMos | 2026
// handler.go

package authz

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/middleware"
	"github.com/kostapp/kost-api/internal/profile"
)

type Handler struct {
	failsafe *Failsafe
}

func NewHandler(failsafe *Failsafe) *Handler {
	return &Handler{failsafe: failsafe}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/failsafe", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.RunFailsafe)
	})
}

// RunFailsafe repairs owner region assignments after bootstrap.
func (h *Handler) RunFailsafe(w http.ResponseWriter, r *http.Request) {
	subjectUID := middleware.GetSubjectUID(r.Context())

	report, err := h.failsafe.Run(r.Context(), subjectUID)
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "only owners may run failsafe")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, report)
}

// RequestScope resolves the caller's scope for a request, honoring the
// region_id query parameter for owners.
func RequestScope(
	r *http.Request,
	resolver *Resolver,
) (Scope, *profile.Profile, error) {
	subjectUID := middleware.GetSubjectUID(r.Context())
	if subjectUID == "" {
		return ScopeNone(), nil, fmt.Errorf(
			"request scope: %w",
			core.ErrUnauthorized,
		)
	}

	var requested *uuid.UUID
	if raw := r.URL.Query().Get("region_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return ScopeNone(), nil, fmt.Errorf(
				"request scope: invalid region_id: %w",
				core.ErrInvalidInput,
			)
		}
		requested = &id
	}

	return resolver.Resolve(r.Context(), subjectUID, requested)
}

// WriteScopeError maps scope-resolution failures onto the standard error
// responses.
func WriteScopeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "user profile not found")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid region_id")
	default:
		core.InternalServerError(w, err)
	}
}
