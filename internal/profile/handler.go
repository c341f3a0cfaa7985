// AngelaMos | 2026
// handler.go

package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
	})

	r.Route("/admin/accounts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListAccounts)
		r.Post("/", h.CreateAccount)
		r.Delete("/{profileID}", h.DeleteAccount)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	subjectUID := middleware.GetSubjectUID(r.Context())

	p, regionID, err := h.service.Me(r.Context(), subjectUID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.Forbidden(w, "user profile not found")
			return
		}
		if errors.Is(err, core.ErrUnauthorized) {
			core.Unauthorized(w, "")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProfileResponse(p, regionID))
}

// ListAccounts returns every profile, decorated with provider emails when
// the directory lookup succeeds.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	callerUID := middleware.GetSubjectUID(r.Context())

	profiles, err := h.service.List(r.Context(), callerUID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToProfileListResponse(profiles))
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	callerUID := middleware.GetSubjectUID(r.Context())

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Create(r.Context(), callerUID, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("account"))
			return
		}
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, ToProfileResponse(p, nil))
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	callerUID := middleware.GetSubjectUID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		core.BadRequest(w, "invalid profile id")
		return
	}

	if err := h.service.Delete(r.Context(), callerUID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "profile")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}
