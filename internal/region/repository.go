// AngelaMos | 2026
// repository.go

package region

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/kostapp/kost-api/internal/core"
)

type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, name string) (*Region, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Region, error)
	List(ctx context.Context) ([]Region, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*Region, error)
	Delete(ctx context.Context, id uuid.UUID) error
	OwnerIDs(ctx context.Context) ([]uuid.UUID, error)
	AssignUsers(ctx context.Context, regionID uuid.UUID, userIDs []uuid.UUID) error
	RemoveAssignments(ctx context.Context, regionID uuid.UUID) error
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

func (r *sqlRepository) Create(ctx context.Context, name string) (*Region, error) {
	query := `
		INSERT INTO regions (name)
		VALUES ($1)
		RETURNING id, name, created_at`

	var reg Region
	if err := r.q.GetContext(ctx, &reg, query, name); err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("create region: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("create region: %w", err)
	}
	return &reg, nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id uuid.UUID) (*Region, error) {
	query := `SELECT id, name, created_at FROM regions WHERE id = $1`

	var reg Region
	if err := r.q.GetContext(ctx, &reg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get region: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get region: %w", err)
	}
	return &reg, nil
}

func (r *sqlRepository) List(ctx context.Context) ([]Region, error) {
	query := `SELECT id, name, created_at FROM regions ORDER BY name`

	regions := []Region{}
	if err := r.q.SelectContext(ctx, &regions, query); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

func (r *sqlRepository) Update(ctx context.Context, id uuid.UUID, name string) (*Region, error) {
	query := `
		UPDATE regions
		SET name = $2
		WHERE id = $1
		RETURNING id, name, created_at`

	var reg Region
	if err := r.q.GetContext(ctx, &reg, query, id, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update region: %w", core.ErrNotFound)
		}
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("update region: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update region: %w", err)
	}
	return &reg, nil
}

func (r *sqlRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete region: %w", core.ErrNotFound)
	}
	return nil
}

func (r *sqlRepository) OwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM user_profiles WHERE role = 'owner'`

	ids := []uuid.UUID{}
	if err := r.q.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list owner ids: %w", err)
	}
	return ids, nil
}

func (r *sqlRepository) AssignUsers(ctx context.Context, regionID uuid.UUID, userIDs []uuid.UUID) error {
	query := `
		INSERT INTO user_regions (user_id, region_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, region_id) DO NOTHING`

	for _, userID := range userIDs {
		if _, err := r.q.ExecContext(ctx, query, userID, regionID); err != nil {
			return fmt.Errorf("assign user to region: %w", err)
		}
	}
	return nil
}

func (r *sqlRepository) RemoveAssignments(ctx context.Context, regionID uuid.UUID) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM user_regions WHERE region_id = $1`, regionID); err != nil {
		return fmt.Errorf("remove region assignments: %w", err)
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
