// AngelaMos | 2026
// repository.go

package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

// TenantRow is a flattened tenant record for recap exports. Inactive
// tenants are included on purpose: the recap is historical.
type TenantRow struct {
	Name      string     `db:"name"`
	Phone     string     `db:"phone"`
	KostName  string     `db:"kost_name"`
	StartDate *time.Time `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
	RentPrice *int64     `db:"rent_price"`
	Status    string     `db:"status"`
}

type EntryRow struct {
	TransactionDate time.Time `db:"transaction_date"`
	TenantName      *string   `db:"tenant_name"`
	KostName        *string   `db:"kost_name"`
	Category        string    `db:"category"`
	Amount          int64     `db:"amount"`
	Description     *string   `db:"description"`
}

type Repository interface {
	Tenants(ctx context.Context, scope authz.Scope) ([]TenantRow, error)
	Entries(ctx context.Context, scope authz.Scope, entryType string, from, to time.Time) ([]EntryRow, error)
}

type sqlRepository struct {
	db core.DBTX
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Tenants(ctx context.Context, scope authz.Scope) ([]TenantRow, error) {
	if scope.IsNone() {
		return []TenantRow{}, nil
	}

	query := `
		SELECT t.name, t.phone, k.name AS kost_name,
		       t.start_date, t.end_date, t.rent_price, t.status
		FROM tenants t
		JOIN kosts k ON k.id = t.kost_id`
	args := []any{}

	if regionID, ok := scope.RegionID(); ok {
		query += ` WHERE k.region_id = $1`
		args = append(args, regionID)
	}
	query += ` ORDER BY t.created_at DESC`

	rows := []TenantRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("export tenants: %w", err)
	}
	return rows, nil
}

func (r *sqlRepository) Entries(
	ctx context.Context,
	scope authz.Scope,
	entryType string,
	from, to time.Time,
) ([]EntryRow, error) {
	if scope.IsNone() {
		return []EntryRow{}, nil
	}

	query := `
		SELECT tr.transaction_date, t.name AS tenant_name, k.name AS kost_name,
		       tr.category, tr.amount, tr.description
		FROM transactions tr
		LEFT JOIN tenants t ON t.id = tr.tenant_id
		LEFT JOIN kosts k ON k.id = tr.kost_id
		WHERE tr.type = $1
		  AND tr.transaction_date >= $2
		  AND tr.transaction_date <= $3`
	args := []any{entryType, from, to}

	if regionID, ok := scope.RegionID(); ok {
		query += ` AND tr.region_id = $4`
		args = append(args, regionID)
	}
	query += ` ORDER BY tr.transaction_date DESC`

	rows := []EntryRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("export entries: %w", err)
	}
	return rows, nil
}
