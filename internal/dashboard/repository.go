// AngelaMos | 2026
// repository.go

package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

type Repository interface {
	TotalUnits(ctx context.Context, scope authz.Scope, kostID *uuid.UUID) (int, error)
	OccupyingCount(ctx context.Context, scope authz.Scope, kostID *uuid.UUID, createdBefore *time.Time) (int, error)
	OccupyingTenants(ctx context.Context, scope authz.Scope, kostID *uuid.UUID, limit int) ([]TrackerTenant, error)
}

type sqlRepository struct {
	db core.DBTX
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db}
}

// scopeClause renders the shared filter: an explicit kost filter wins
// over the region scope when both are present.
func scopeClause(
	column string,
	regionColumn string,
	scope authz.Scope,
	kostID *uuid.UUID,
	argN int,
) (string, []any, int) {
	if kostID != nil {
		return fmt.Sprintf(" AND %s = $%d", column, argN), []any{*kostID}, argN + 1
	}
	if regionID, ok := scope.RegionID(); ok {
		return fmt.Sprintf(" AND %s = $%d", regionColumn, argN), []any{regionID}, argN + 1
	}
	return "", nil, argN
}

func (r *sqlRepository) TotalUnits(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
) (int, error) {
	if scope.IsNone() {
		return 0, nil
	}

	query := `SELECT COALESCE(SUM(total_units), 0) FROM kosts WHERE 1=1`
	clause, args, _ := scopeClause("id", "region_id", scope, kostID, 1)
	query += clause

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("total units: %w", err)
	}
	return total, nil
}

func (r *sqlRepository) OccupyingCount(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
	createdBefore *time.Time,
) (int, error) {
	if scope.IsNone() {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM tenants t
		JOIN kosts k ON k.id = t.kost_id
		WHERE t.is_active = TRUE
		  AND t.status IN ('active', 'dp')`
	clause, args, argN := scopeClause("t.kost_id", "k.region_id", scope, kostID, 1)
	query += clause

	if createdBefore != nil {
		query += fmt.Sprintf(" AND t.created_at < $%d", argN)
		args = append(args, *createdBefore)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("occupying count: %w", err)
	}
	return count, nil
}

func (r *sqlRepository) OccupyingTenants(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
	limit int,
) ([]TrackerTenant, error) {
	if scope.IsNone() {
		return []TrackerTenant{}, nil
	}

	query := `
		SELECT t.id, t.name, t.phone, t.room_number, k.name AS kost_name
		FROM tenants t
		JOIN kosts k ON k.id = t.kost_id
		WHERE t.is_active = TRUE
		  AND t.status IN ('active', 'dp')`
	clause, args, argN := scopeClause("t.kost_id", "k.region_id", scope, kostID, 1)
	query += clause

	query += fmt.Sprintf(" ORDER BY t.created_at LIMIT $%d", argN)
	args = append(args, limit)

	tenants := []TrackerTenant{}
	if err := r.db.SelectContext(ctx, &tenants, query, args...); err != nil {
		return nil, fmt.Errorf("occupying tenants: %w", err)
	}
	return tenants, nil
}
