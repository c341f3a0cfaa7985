// AngelaMos | 2026
// repository.go

package kost

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, k *Kost) (*Kost, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Kost, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Kost, error)
	List(ctx context.Context, scope authz.Scope, params ListKostsParams) ([]Kost, int, error)
	Update(ctx context.Context, k *Kost) (*Kost, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountOccupyingTenants(ctx context.Context, kostID uuid.UUID) (int, error)
	OccupancyByKost(ctx context.Context, kostIDs []uuid.UUID) (map[uuid.UUID]int, error)
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

func (r *sqlRepository) Create(ctx context.Context, k *Kost) (*Kost, error) {
	query := `
		INSERT INTO kosts (region_id, name, address, total_units, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, region_id, name, address, total_units, notes, created_at`

	var created Kost
	err := r.q.GetContext(ctx, &created, query,
		k.RegionID, k.Name, k.Address, k.TotalUnits, k.Notes)
	if err != nil {
		return nil, fmt.Errorf("create kost: %w", err)
	}
	return &created, nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id uuid.UUID) (*Kost, error) {
	query := `
		SELECT id, region_id, name, address, total_units, notes, created_at
		FROM kosts
		WHERE id = $1`

	var k Kost
	if err := r.q.GetContext(ctx, &k, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get kost: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get kost: %w", err)
	}
	return &k, nil
}

// GetForUpdate locks the kost row for the duration of the surrounding
// transaction so capacity checks cannot race.
func (r *sqlRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Kost, error) {
	query := `
		SELECT id, region_id, name, address, total_units, notes, created_at
		FROM kosts
		WHERE id = $1
		FOR UPDATE`

	var k Kost
	if err := r.q.GetContext(ctx, &k, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get kost for update: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get kost for update: %w", err)
	}
	return &k, nil
}

func (r *sqlRepository) List(
	ctx context.Context,
	scope authz.Scope,
	params ListKostsParams,
) ([]Kost, int, error) {
	if scope.IsNone() {
		return []Kost{}, 0, nil
	}

	where := `WHERE 1=1`
	args := []any{}
	argN := 1

	if regionID, ok := scope.RegionID(); ok {
		where += fmt.Sprintf(" AND region_id = $%d", argN)
		args = append(args, regionID)
		argN++
	}
	if params.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR address ILIKE $%d)", argN, argN)
		args = append(args, "%"+params.Search+"%")
		argN++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM kosts ` + where
	if err := r.q.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count kosts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, region_id, name, address, total_units, notes, created_at
		FROM kosts
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d`, where, argN, argN+1)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)

	kosts := []Kost{}
	if err := r.q.SelectContext(ctx, &kosts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list kosts: %w", err)
	}
	return kosts, total, nil
}

func (r *sqlRepository) Update(ctx context.Context, k *Kost) (*Kost, error) {
	query := `
		UPDATE kosts
		SET name = $2, address = $3, total_units = $4, notes = $5
		WHERE id = $1
		RETURNING id, region_id, name, address, total_units, notes, created_at`

	var updated Kost
	err := r.q.GetContext(ctx, &updated, query,
		k.ID, k.Name, k.Address, k.TotalUnits, k.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update kost: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("update kost: %w", err)
	}
	return &updated, nil
}

func (r *sqlRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM kosts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete kost: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete kost: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete kost: %w", core.ErrNotFound)
	}
	return nil
}

// CountOccupyingTenants counts tenants holding a unit: active records in
// a status that keeps the room occupied.
func (r *sqlRepository) CountOccupyingTenants(ctx context.Context, kostID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tenants
		WHERE kost_id = $1
		  AND is_active = TRUE
		  AND status IN ('active', 'dp')`

	var count int
	if err := r.q.GetContext(ctx, &count, query, kostID); err != nil {
		return 0, fmt.Errorf("count occupying tenants: %w", err)
	}
	return count, nil
}

func (r *sqlRepository) OccupancyByKost(
	ctx context.Context,
	kostIDs []uuid.UUID,
) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(kostIDs))
	if len(kostIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(`
		SELECT kost_id, COUNT(*) AS occupied
		FROM tenants
		WHERE kost_id IN (?)
		  AND is_active = TRUE
		  AND status IN ('active', 'dp')
		GROUP BY kost_id`, kostIDs)
	if err != nil {
		return nil, fmt.Errorf("occupancy by kost: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	rows := []struct {
		KostID   uuid.UUID `db:"kost_id"`
		Occupied int       `db:"occupied"`
	}{}
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("occupancy by kost: %w", err)
	}

	for _, row := range rows {
		counts[row.KostID] = row.Occupied
	}
	return counts, nil
}
