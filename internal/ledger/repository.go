// AngelaMos | 2026
// repository.go

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

// Repository reads the transactions table. Entry writes live with the
// tenant repository so a tenant mutation and its derived entry share one
// transaction.
type Repository interface {
	List(ctx context.Context, scope authz.Scope, params ListEntriesParams) ([]Entry, int, error)
	IncomeBetween(ctx context.Context, scope authz.Scope, kostID *uuid.UUID, start, end time.Time) (int64, error)
	LatestRentDates(ctx context.Context, tenantIDs []uuid.UUID) (map[uuid.UUID]time.Time, error)
}

type sqlRepository struct {
	db core.DBTX
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) List(
	ctx context.Context,
	scope authz.Scope,
	params ListEntriesParams,
) ([]Entry, int, error) {
	if scope.IsNone() {
		return []Entry{}, 0, nil
	}

	where := `WHERE 1=1`
	args := []any{}
	argN := 1

	addFilter := func(clause string, value any) {
		where += fmt.Sprintf(" AND "+clause, argN)
		args = append(args, value)
		argN++
	}

	if regionID, ok := scope.RegionID(); ok {
		addFilter("region_id = $%d", regionID)
	}
	if params.KostID != nil {
		addFilter("kost_id = $%d", *params.KostID)
	}
	if params.TenantID != nil {
		addFilter("tenant_id = $%d", *params.TenantID)
	}
	if params.Type != "" {
		addFilter("type = $%d", params.Type)
	}
	if params.Category != "" {
		addFilter("category = $%d", params.Category)
	}
	if params.From != nil {
		addFilter("transaction_date >= $%d", *params.From)
	}
	if params.To != nil {
		addFilter("transaction_date <= $%d", *params.To)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM transactions ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, kost_id, tenant_id, region_id, type, category, amount,
		       transaction_date, description, due_date, created_at
		FROM transactions
		%s
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d`, where, argN, argN+1)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, total, nil
}

// IncomeBetween sums income over an inclusive date range. An explicit
// kost filter wins over the region scope when both are present.
func (r *sqlRepository) IncomeBetween(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
	start, end time.Time,
) (int64, error) {
	if scope.IsNone() {
		return 0, nil
	}

	where := `WHERE type = 'income' AND transaction_date >= $1 AND transaction_date <= $2`
	args := []any{start, end}

	switch regionID, ok := scope.RegionID(); {
	case kostID != nil:
		where += " AND kost_id = $3"
		args = append(args, *kostID)
	case ok:
		where += " AND region_id = $3"
		args = append(args, regionID)
	}

	var total int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions ` + where
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("income between: %w", err)
	}
	return total, nil
}

func (r *sqlRepository) LatestRentDates(
	ctx context.Context,
	tenantIDs []uuid.UUID,
) (map[uuid.UUID]time.Time, error) {
	dates := make(map[uuid.UUID]time.Time, len(tenantIDs))
	if len(tenantIDs) == 0 {
		return dates, nil
	}

	query, args, err := sqlx.In(`
		SELECT tenant_id, MAX(transaction_date) AS latest
		FROM transactions
		WHERE tenant_id IN (?)
		  AND type = 'income'
		  AND category = 'rent'
		GROUP BY tenant_id`, tenantIDs)
	if err != nil {
		return nil, fmt.Errorf("latest rent dates: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	rows := []struct {
		TenantID uuid.UUID `db:"tenant_id"`
		Latest   time.Time `db:"latest"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("latest rent dates: %w", err)
	}

	for _, row := range rows {
		dates[row.TenantID] = row.Latest
	}
	return dates, nil
}
