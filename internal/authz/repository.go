// AngelaMos | 2026
// repository.go

package authz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/profile"
)

type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error
	ProfileBySubject(ctx context.Context, subjectUID string) (*profile.Profile, error)
	AssignedRegionIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	RegionIDs(ctx context.Context) ([]uuid.UUID, error)
	OwnerExists(ctx context.Context) (bool, error)
	CountAssignments(ctx context.Context, userID uuid.UUID) (int, error)
	AddAssignments(ctx context.Context, userID uuid.UUID, regionIDs []uuid.UUID) (int, error)
}

type sqlRepository struct {
	db *sqlx.DB
	q  core.DBTX
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlRepository{db: db, q: db}
}

func (r *sqlRepository) InTx(
	ctx context.Context,
	fn func(Repository) error,
) error {
	if r.db == nil {
		// Already transaction-bound.
		return fn(r)
	}

	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&sqlRepository{q: tx})
	})
}

func (r *sqlRepository) ProfileBySubject(
	ctx context.Context,
	subjectUID string,
) (*profile.Profile, error) {
	query := `
		SELECT id, subject_uid, name, role, created_at
		FROM user_profiles
		WHERE subject_uid = $1`

	var p profile.Profile
	err := r.q.GetContext(ctx, &p, query, subjectUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile by subject: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("profile by subject: %w", err)
	}

	return &p, nil
}

func (r *sqlRepository) AssignedRegionIDs(
	ctx context.Context,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	query := `
		SELECT region_id
		FROM user_regions
		WHERE user_id = $1
		ORDER BY assigned_at ASC`

	var ids []uuid.UUID
	if err := r.q.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("assigned regions: %w", err)
	}

	return ids, nil
}

func (r *sqlRepository) RegionIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.q.SelectContext(
		ctx,
		&ids,
		`SELECT id FROM regions ORDER BY created_at ASC`,
	); err != nil {
		return nil, fmt.Errorf("region ids: %w", err)
	}

	return ids, nil
}

func (r *sqlRepository) OwnerExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.q.GetContext(
		ctx,
		&exists,
		`SELECT EXISTS(SELECT 1 FROM user_profiles WHERE role = 'owner')`,
	); err != nil {
		return false, fmt.Errorf("owner exists: %w", err)
	}

	return exists, nil
}

func (r *sqlRepository) CountAssignments(
	ctx context.Context,
	userID uuid.UUID,
) (int, error) {
	var count int
	if err := r.q.GetContext(
		ctx,
		&count,
		`SELECT COUNT(*) FROM user_regions WHERE user_id = $1`,
		userID,
	); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}

	return count, nil
}

// AddAssignments inserts any missing user ↔ region rows and reports how many
// were actually added. ON CONFLICT makes repeat runs no-ops.
func (r *sqlRepository) AddAssignments(
	ctx context.Context,
	userID uuid.UUID,
	regionIDs []uuid.UUID,
) (int, error) {
	added := 0
	for _, regionID := range regionIDs {
		result, err := r.q.ExecContext(ctx, `
			INSERT INTO user_regions (user_id, region_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, region_id) DO NOTHING`,
			userID, regionID,
		)
		if err != nil {
			return added, fmt.Errorf("add assignment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("add assignment: %w", err)
		}
		added += int(rows)
	}

	return added, nil
}
