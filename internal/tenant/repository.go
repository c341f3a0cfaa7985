// AngelaMos | 2026
// repository.go

package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/ledger"
)

// KostInfo is the slice of the kost row the occupancy engine needs:
// identity for ownership checks, region for ledger derivation, capacity
// for admission control.
type KostInfo struct {
	ID         uuid.UUID `db:"id"`
	RegionID   uuid.UUID `db:"region_id"`
	Name       string    `db:"name"`
	TotalUnits int       `db:"total_units"`
}

type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	GetKost(ctx context.Context, kostID uuid.UUID) (*KostInfo, error)
	GetKostForUpdate(ctx context.Context, kostID uuid.UUID) (*KostInfo, error)
	CountOccupying(ctx context.Context, kostID uuid.UUID, exclude *uuid.UUID) (int, error)

	Create(ctx context.Context, t *Tenant) (*Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	List(ctx context.Context, scope authz.Scope, params ListTenantsParams) ([]Tenant, int, error)
	Update(ctx context.Context, t *Tenant) (*Tenant, error)
	SetInactive(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	MarkLate(ctx context.Context) (int, error)

	CreateEntry(ctx context.Context, e *ledger.Entry) (*ledger.Entry, error)
	LatestDPEntry(ctx context.Context, tenantID uuid.UUID) (*ledger.Entry, error)
	UpdateDPEntry(ctx context.Context, e *ledger.Entry) (*ledger.Entry, error)
}

type sqlRepository struct {
	db *sqlx.DB
	q  core.DBTX
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db, q: db}
}

func (r *sqlRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&sqlRepository{q: tx})
	})
}

func (r *sqlRepository) GetKost(ctx context.Context, kostID uuid.UUID) (*KostInfo, error) {
	return r.getKost(ctx, kostID, false)
}

// GetKostForUpdate locks the kost row so a concurrent create against the
// same kost cannot pass the capacity check in parallel.
func (r *sqlRepository) GetKostForUpdate(ctx context.Context, kostID uuid.UUID) (*KostInfo, error) {
	return r.getKost(ctx, kostID, true)
}

func (r *sqlRepository) getKost(ctx context.Context, kostID uuid.UUID, lock bool) (*KostInfo, error) {
	query := `SELECT id, region_id, name, total_units FROM kosts WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var info KostInfo
	if err := r.q.GetContext(ctx, &info, query, kostID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get kost: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get kost: %w", err)
	}
	return &info, nil
}

func (r *sqlRepository) CountOccupying(
	ctx context.Context,
	kostID uuid.UUID,
	exclude *uuid.UUID,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tenants
		WHERE kost_id = $1
		  AND is_active = TRUE
		  AND status IN ('active', 'dp')`
	args := []any{kostID}

	if exclude != nil {
		query += ` AND id <> $2`
		args = append(args, *exclude)
	}

	var count int
	if err := r.q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count occupying tenants: %w", err)
	}
	return count, nil
}

const tenantColumns = `id, kost_id, name, phone, room_number, rent_price,
	fee_trash, fee_security, fee_admin, status, is_active,
	start_date, end_date, created_at`

func (r *sqlRepository) Create(ctx context.Context, t *Tenant) (*Tenant, error) {
	query := `
		INSERT INTO tenants
			(kost_id, name, phone, room_number, rent_price,
			 fee_trash, fee_security, fee_admin, status, is_active,
			 start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + tenantColumns

	var created Tenant
	err := r.q.GetContext(ctx, &created, query,
		t.KostID, t.Name, t.Phone, t.RoomNumber, t.RentPrice,
		t.FeeTrash, t.FeeSecurity, t.FeeAdmin, t.Status, t.IsActive,
		t.StartDate, t.EndDate)
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return &created, nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

	var t Tenant
	if err := r.q.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get tenant: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

func (r *sqlRepository) List(
	ctx context.Context,
	scope authz.Scope,
	params ListTenantsParams,
) ([]Tenant, int, error) {
	if scope.IsNone() {
		return []Tenant{}, 0, nil
	}

	where := `WHERE t.is_active = TRUE`
	args := []any{}
	argN := 1

	if regionID, ok := scope.RegionID(); ok {
		where += fmt.Sprintf(" AND k.region_id = $%d", argN)
		args = append(args, regionID)
		argN++
	}
	if params.KostID != nil {
		where += fmt.Sprintf(" AND t.kost_id = $%d", argN)
		args = append(args, *params.KostID)
		argN++
	}
	if params.Status != "" {
		where += fmt.Sprintf(" AND t.status = $%d", argN)
		args = append(args, params.Status)
		argN++
	}
	if params.Search != "" {
		where += fmt.Sprintf(" AND (t.name ILIKE $%d OR t.phone ILIKE $%d)", argN, argN)
		args = append(args, "%"+params.Search+"%")
		argN++
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM tenants t
		JOIN kosts k ON k.id = t.kost_id ` + where
	if err := r.q.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.kost_id, t.name, t.phone, t.room_number, t.rent_price,
		       t.fee_trash, t.fee_security, t.fee_admin, t.status, t.is_active,
		       t.start_date, t.end_date, t.created_at
		FROM tenants t
		JOIN kosts k ON k.id = t.kost_id
		%s
		ORDER BY t.name
		LIMIT $%d OFFSET $%d`, where, argN, argN+1)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	tenants := []Tenant{}
	if err := r.q.SelectContext(ctx, &tenants, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, total, nil
}

func (r *sqlRepository) Update(ctx context.Context, t *Tenant) (*Tenant, error) {
	query := `
		UPDATE tenants
		SET name = $2, phone = $3, room_number = $4, rent_price = $5,
		    fee_trash = $6, fee_security = $7, fee_admin = $8,
		    status = $9, start_date = $10, end_date = $11
		WHERE id = $1
		RETURNING ` + tenantColumns

	var updated Tenant
	err := r.q.GetContext(ctx, &updated, query,
		t.ID, t.Name, t.Phone, t.RoomNumber, t.RentPrice,
		t.FeeTrash, t.FeeSecurity, t.FeeAdmin,
		t.Status, t.StartDate, t.EndDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update tenant: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	return &updated, nil
}

func (r *sqlRepository) SetInactive(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE tenants SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate tenant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate tenant: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("deactivate tenant: %w", core.ErrNotFound)
	}
	return nil
}

func (r *sqlRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if _, err := r.q.ExecContext(ctx,
		`UPDATE tenants SET status = $2 WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("update tenant status: %w", err)
	}
	return nil
}

// MarkLate flips active tenants to late when the lease is open-ended,
// more than a month old, and no rent was recorded this calendar month.
// A single conditional UPDATE keeps the batch idempotent under repeated
// or concurrent invocation.
func (r *sqlRepository) MarkLate(ctx context.Context) (int, error) {
	query := `
		UPDATE tenants
		SET status = 'late'
		WHERE status = 'active'
		  AND is_active = TRUE
		  AND start_date IS NOT NULL
		  AND end_date IS NULL
		  AND CURRENT_DATE > start_date + INTERVAL '1 month'
		  AND NOT EXISTS (
			SELECT 1
			FROM transactions tr
			WHERE tr.tenant_id = tenants.id
			  AND tr.type = 'income'
			  AND tr.category = 'rent'
			  AND date_trunc('month', tr.transaction_date) = date_trunc('month', CURRENT_DATE)
		  )`

	result, err := r.q.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("mark late tenants: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark late tenants: %w", err)
	}
	return int(rows), nil
}

func (r *sqlRepository) CreateEntry(ctx context.Context, e *ledger.Entry) (*ledger.Entry, error) {
	query := `
		INSERT INTO transactions
			(kost_id, tenant_id, region_id, type, category, amount,
			 transaction_date, description, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, kost_id, tenant_id, region_id, type, category, amount,
		          transaction_date, description, due_date, created_at`

	var created ledger.Entry
	err := r.q.GetContext(ctx, &created, query,
		e.KostID, e.TenantID, e.RegionID, e.Type, e.Category, e.Amount,
		e.TransactionDate, e.Description, e.DueDate)
	if err != nil {
		return nil, fmt.Errorf("create ledger entry: %w", err)
	}
	return &created, nil
}

func (r *sqlRepository) LatestDPEntry(ctx context.Context, tenantID uuid.UUID) (*ledger.Entry, error) {
	query := `
		SELECT id, kost_id, tenant_id, region_id, type, category, amount,
		       transaction_date, description, due_date, created_at
		FROM transactions
		WHERE tenant_id = $1 AND type = 'income' AND category = 'dp'
		ORDER BY created_at DESC
		LIMIT 1`

	var e ledger.Entry
	if err := r.q.GetContext(ctx, &e, query, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("latest dp entry: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("latest dp entry: %w", err)
	}
	return &e, nil
}

func (r *sqlRepository) UpdateDPEntry(ctx context.Context, e *ledger.Entry) (*ledger.Entry, error) {
	query := `
		UPDATE transactions
		SET amount = $2, due_date = $3, description = $4
		WHERE id = $1
		RETURNING id, kost_id, tenant_id, region_id, type, category, amount,
		          transaction_date, description, due_date, created_at`

	var updated ledger.Entry
	err := r.q.GetContext(ctx, &updated, query,
		e.ID, e.Amount, e.DueDate, e.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update dp entry: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("update dp entry: %w", err)
	}
	return &updated, nil
}
