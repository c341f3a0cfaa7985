// AngelaMos | 2026
// repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kostapp/kost-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Profile, regionIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetBySubjectUID(ctx context.Context, subjectUID string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignedRegionIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type sqlRepository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(
	ctx context.Context,
	p *Profile,
	regionIDs []uuid.UUID,
) error {
	query := `
		INSERT INTO user_profiles (id, subject_uid, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &p.CreatedAt, query,
		p.ID,
		p.SubjectUID,
		p.Name,
		p.Role,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create profile: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	for _, regionID := range regionIDs {
		assignQuery := `
			INSERT INTO user_regions (user_id, region_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`
		if _, err := r.db.ExecContext(ctx, assignQuery, p.ID, regionID); err != nil {
			return fmt.Errorf("assign region: %w", err)
		}
	}

	return nil
}

func (r *sqlRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*Profile, error) {
	query := `
		SELECT id, subject_uid, name, role, created_at
		FROM user_profiles
		WHERE id = $1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

func (r *sqlRepository) GetBySubjectUID(
	ctx context.Context,
	subjectUID string,
) (*Profile, error) {
	query := `
		SELECT id, subject_uid, name, role, created_at
		FROM user_profiles
		WHERE subject_uid = $1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, subjectUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile by subject: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by subject: %w", err)
	}

	return &p, nil
}

func (r *sqlRepository) List(ctx context.Context) ([]Profile, error) {
	query := `
		SELECT id, subject_uid, name, role, created_at
		FROM user_profiles
		ORDER BY created_at DESC`

	var profiles []Profile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, nil
}

func (r *sqlRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(
		ctx,
		`DELETE FROM user_regions WHERE user_id = $1`,
		id,
	); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}

	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM user_profiles WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete profile: %w", core.ErrNotFound)
	}

	return nil
}

// AssignedRegionIDs returns the caller's region assignments in assignment
// order; the first entry is the region non-owner scopes resolve to.
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
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list assigned regions: %w", err)
	}

	return ids, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
