// AngelaMos | 2026
// service.go

package region

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts the region and grants every owner access to it in the
// same transaction, so owners never see a region they cannot query.
func (s *Service) Create(ctx context.Context, name string) (*Region, error) {
	var created *Region

	err := s.repo.InTx(ctx, func(repo Repository) error {
		reg, err := repo.Create(ctx, name)
		if err != nil {
			return err
		}

		ownerIDs, err := repo.OwnerIDs(ctx)
		if err != nil {
			return err
		}
		if err := repo.AssignUsers(ctx, reg.ID, ownerIDs); err != nil {
			return err
		}

		created = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("region created", "region_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) Get(ctx context.Context, scope authz.Scope, id uuid.UUID) (*Region, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(reg.ID) {
		return nil, fmt.Errorf("get region: %w", core.ErrNotFound)
	}
	return reg, nil
}

// List returns the regions visible under the caller's scope.
func (s *Service) List(ctx context.Context, scope authz.Scope) ([]Region, error) {
	if scope.IsNone() {
		return []Region{}, nil
	}

	regions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if scope.IsAll() {
		return regions, nil
	}

	visible := make([]Region, 0, 1)
	for _, reg := range regions {
		if scope.Allows(reg.ID) {
			visible = append(visible, reg)
		}
	}
	return visible, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name string) (*Region, error) {
	return s.repo.Update(ctx, id, name)
}

// Delete removes the region together with its user assignments. Kosts and
// ledger entries referencing the region block deletion at the database
// level, which surfaces as an internal error rather than silent data loss.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.InTx(ctx, func(repo Repository) error {
		if err := repo.RemoveAssignments(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}
