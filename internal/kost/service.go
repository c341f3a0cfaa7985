// AngelaMos | 2026
// service.go

package kost

import (
	"context"
	"fmt"

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

func (s *Service) Create(
	ctx context.Context,
	scope authz.Scope,
	req CreateKostRequest,
) (*Kost, error) {
	if !scope.Allows(req.RegionID) {
		return nil, fmt.Errorf("create kost: region out of scope: %w", core.ErrForbidden)
	}

	return s.repo.Create(ctx, &Kost{
		RegionID:   req.RegionID,
		Name:       req.Name,
		Address:    req.Address,
		TotalUnits: req.TotalUnits,
		Notes:      req.Notes,
	})
}

func (s *Service) Get(
	ctx context.Context,
	scope authz.Scope,
	id uuid.UUID,
) (*KostResponse, error) {
	k, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(k.RegionID) {
		return nil, fmt.Errorf("get kost: %w", core.ErrNotFound)
	}

	occupied, err := s.repo.CountOccupyingTenants(ctx, k.ID)
	if err != nil {
		return nil, err
	}
	return &KostResponse{Kost: *k, OccupiedUnits: occupied}, nil
}

func (s *Service) List(
	ctx context.Context,
	scope authz.Scope,
	params ListKostsParams,
) ([]KostResponse, int, error) {
	kosts, total, err := s.repo.List(ctx, scope, params)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(kosts))
	for i, k := range kosts {
		ids[i] = k.ID
	}
	counts, err := s.repo.OccupancyByKost(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]KostResponse, len(kosts))
	for i, k := range kosts {
		responses[i] = KostResponse{Kost: k, OccupiedUnits: counts[k.ID]}
	}
	return responses, total, nil
}

// Update modifies the kost. Shrinking total_units below the current number
// of occupying tenants is rejected, the same rule that governs move-ins.
func (s *Service) Update(
	ctx context.Context,
	scope authz.Scope,
	id uuid.UUID,
	req UpdateKostRequest,
) (*Kost, error) {
	var updated *Kost

	err := s.repo.InTx(ctx, func(repo Repository) error {
		k, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !scope.Allows(k.RegionID) {
			return fmt.Errorf("update kost: %w", core.ErrNotFound)
		}

		if req.TotalUnits < k.TotalUnits {
			occupied, err := repo.CountOccupyingTenants(ctx, k.ID)
			if err != nil {
				return err
			}
			if req.TotalUnits < occupied {
				return fmt.Errorf(
					"update kost: %d tenant(s) occupy more units than the new total %d: %w",
					occupied, req.TotalUnits, core.ErrCapacityExceeded,
				)
			}
		}

		k.Name = req.Name
		k.Address = req.Address
		k.TotalUnits = req.TotalUnits
		k.Notes = req.Notes

		updated, err = repo.Update(ctx, k)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, scope authz.Scope, id uuid.UUID) error {
	k, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Allows(k.RegionID) {
		return fmt.Errorf("delete kost: %w", core.ErrNotFound)
	}
	return s.repo.Delete(ctx, id)
}
