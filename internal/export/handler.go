// AngelaMos | 2026
// handler.go

package export

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/ledger"
)

const dateLayout = "2006-01-02"

type Handler struct {
	repo     Repository
	resolver *authz.Resolver
}

func NewHandler(repo Repository, resolver *authz.Resolver) *Handler {
	return &Handler{repo: repo, resolver: resolver}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/export", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/csv", h.ExportCSV)
	})
}

// ExportCSV streams one dataset as a CSV attachment. data_type selects
// tenants, payments or expenses; payments and expenses require a date
// range.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	scope, _, err := authz.RequestScope(r, h.resolver)
	if err != nil {
		authz.WriteScopeError(w, err)
		return
	}

	dataType := r.URL.Query().Get("data_type")

	switch dataType {
	case "tenants":
		h.exportTenants(w, r, scope)
	case "payments":
		h.exportEntries(w, r, scope, ledger.TypeIncome, "pembayaran")
	case "expenses":
		h.exportEntries(w, r, scope, ledger.TypeExpense, "pengeluaran")
	default:
		core.BadRequest(w, "data_type must be tenants, payments or expenses")
	}
}

func (h *Handler) exportTenants(w http.ResponseWriter, r *http.Request, scope authz.Scope) {
	rows, err := h.repo.Tenants(r.Context(), scope)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	filename := fmt.Sprintf("ekspor_penyewa_%s.csv", time.Now().Format("20060102"))
	cw := beginCSV(w, filename)

	_ = cw.Write([]string{
		"Nama", "Telepon", "Nama Kost", "Tanggal Masuk",
		"Tanggal Keluar", "Harga Sewa", "Status",
	})
	for _, row := range rows {
		rent := int64(0)
		if row.RentPrice != nil {
			rent = *row.RentPrice
		}
		_ = cw.Write([]string{
			row.Name,
			orDash(row.Phone),
			row.KostName,
			formatDate(row.StartDate),
			formatDate(row.EndDate),
			strconv.FormatInt(rent, 10),
			orDash(row.Status),
		})
	}
	cw.Flush()
}

func (h *Handler) exportEntries(
	w http.ResponseWriter,
	r *http.Request,
	scope authz.Scope,
	entryType string,
	slug string,
) {
	from, err := time.Parse(dateLayout, r.URL.Query().Get("start_date"))
	if err != nil {
		core.BadRequest(w, "start_date must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("end_date"))
	if err != nil {
		core.BadRequest(w, "end_date must be YYYY-MM-DD")
		return
	}

	rows, err := h.repo.Entries(r.Context(), scope, entryType, from, to)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	filename := fmt.Sprintf("ekspor_%s_%s_%s.csv",
		slug, from.Format("20060102"), to.Format("20060102"))
	cw := beginCSV(w, filename)

	header := []string{"Tanggal", "Nama Penyewa", "Nama Kost", "Kategori", "Jumlah", "Keterangan"}
	if entryType == ledger.TypeExpense {
		header = []string{"Tanggal", "Nama Kost", "Kategori", "Jumlah", "Keterangan"}
	}
	_ = cw.Write(header)

	for _, row := range rows {
		record := []string{row.TransactionDate.Format("02/01/2006")}
		if entryType == ledger.TypeIncome {
			record = append(record, orDashPtr(row.TenantName))
		}
		record = append(record,
			orDashPtr(row.KostName),
			orDash(row.Category),
			strconv.FormatInt(row.Amount, 10),
			orDashPtr(row.Description),
		)
		_ = cw.Write(record)
	}
	cw.Flush()
}

func beginCSV(w http.ResponseWriter, filename string) *csv.Writer {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	return csv.NewWriter(w)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orDashPtr(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
