// AngelaMos | 2026
// handler.go

package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

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

// Recorder books the mutating ledger operations. The occupancy engine
// implements it, since payments can flip tenant status.
type Recorder interface {
	RecordPayment(ctx context.Context, scope authz.Scope, req RecordPaymentRequest) (*Entry, error)
	RecordExpense(ctx context.Context, scope authz.Scope, req RecordExpenseRequest) (*Entry, error)
}

type Handler struct {
	repo      Repository
	recorder  Recorder
	resolver  *authz.Resolver
	validator *validator.Validate
}

func NewHandler(repo Repository, recorder Recorder, resolver *authz.Resolver) *Handler {
	return &Handler{
		repo:      repo,
		recorder:  recorder,
		resolver:  resolver,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/transactions", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/payments", h.RecordPayment)
		r.Post("/expenses", h.RecordExpense)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	params, err := parseListParams(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	entries, total, err := h.repo.List(r.Context(), scope, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, entries, params.Page, params.PageSize, total)
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entry, err := h.recorder.RecordPayment(r.Context(), scope, req)
	if err != nil {
		h.writeRecorderError(w, err)
		return
	}

	core.Created(w, entry)
}

func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	var req RecordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entry, err := h.recorder.RecordExpense(r.Context(), scope, req)
	if err != nil {
		h.writeRecorderError(w, err)
		return
	}

	core.Created(w, entry)
}

func (h *Handler) writeRecorderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "resource")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	default:
		core.InternalServerError(w, err)
	}
}

func parseListParams(r *http.Request) (ListEntriesParams, error) {
	params := ListEntriesParams{
		Type:     r.URL.Query().Get("type"),
		Category: r.URL.Query().Get("category"),
		Page:     parseIntParam(r, "page", 1),
		PageSize: parseIntParam(r, "page_size", defaultPageSize),
	}

	if params.Type != "" && params.Type != TypeIncome && params.Type != TypeExpense {
		return params, errors.New("type must be income or expense")
	}

	if raw := r.URL.Query().Get("kost_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, errors.New("invalid kost_id")
		}
		params.KostID = &id
	}
	if raw := r.URL.Query().Get("tenant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, errors.New("invalid tenant_id")
		}
		params.TenantID = &id
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return params, errors.New("from must be YYYY-MM-DD")
		}
		params.From = &from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return params, errors.New("to must be YYYY-MM-DD")
		}
		params.To = &to
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = defaultPageSize
	}
	return params, nil
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
