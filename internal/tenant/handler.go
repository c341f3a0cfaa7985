// AngelaMos | 2026
// handler.go

package tenant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
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
	r.Route("/tenants", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{tenantID}", h.Get)
		r.Put("/{tenantID}", h.Update)
		r.Delete("/{tenantID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	params := ListTenantsParams{
		Search:   r.URL.Query().Get("search"),
		Page:     parseIntParam(r, "page", 1),
		PageSize: parseIntParam(r, "page_size", defaultPageSize),
	}
	if raw := r.URL.Query().Get("kost_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			core.BadRequest(w, "invalid kost_id")
			return
		}
		params.KostID = &id
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		if !status.Valid() {
			core.BadRequest(w, "invalid status")
			return
		}
		params.Status = status
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = defaultPageSize
	}

	tenants, total, err := h.service.List(r.Context(), scope, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, tenants, params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		core.BadRequest(w, "invalid tenant id")
		return
	}

	t, err := h.service.Get(r.Context(), scope, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "tenant")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, t)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.Create(r.Context(), scope, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		core.BadRequest(w, "invalid tenant id")
		return
	}

	var req UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.Update(r.Context(), scope, id, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		core.BadRequest(w, "invalid tenant id")
		return
	}

	if err := h.service.SoftDelete(r.Context(), scope, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "tenant")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "kost not accessible")
	case errors.Is(err, core.ErrCapacityExceeded):
		core.JSONError(w, core.CapacityError(err.Error()))
	default:
		core.InternalServerError(w, err)
	}
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
