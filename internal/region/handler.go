// AngelaMos | 2026
// handler.go

package region

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

type Handler struct {
	service   *Service
	resolver  *authz.Resolver
	validator *validator.Validate
}

func NewHandler(service *Service, resolver *authz.Resolver) *Handler {
	return &Handler{
		service:   service,
		resolver:  resolver,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/regions", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{regionID}", h.Get)
		r.Put("/{regionID}", h.Update)
		r.Delete("/{regionID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	regions, err := h.service.List(r.Context(), scope)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, regions)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "regionID"))
	if err != nil {
		core.BadRequest(w, "invalid region id")
		return
	}

	reg, err := h.service.Get(r.Context(), scope, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "region")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, reg)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, caller, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}
	if !caller.IsOwner() {
		core.Forbidden(w, "only owners may manage regions")
		return
	}

	var req CreateRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	reg, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("region"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, reg)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	_, caller, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}
	if !caller.IsOwner() {
		core.Forbidden(w, "only owners may manage regions")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "regionID"))
	if err != nil {
		core.BadRequest(w, "invalid region id")
		return
	}

	var req UpdateRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	reg, err := h.service.Update(r.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "region")
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("region"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, reg)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	_, caller, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}
	if !caller.IsOwner() {
		core.Forbidden(w, "only owners may manage regions")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "regionID"))
	if err != nil {
		core.BadRequest(w, "invalid region id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "region")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
