// AngelaMos | 2026
// service.go

package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/ledger"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create admits a tenant into a kost. The capacity check, the tenant row
// and the derived ledger entry commit or roll back together; the kost row
// stays locked across the check-then-insert.
func (s *Service) Create(
	ctx context.Context,
	scope authz.Scope,
	req CreateTenantRequest,
) (*Tenant, error) {
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown tenant status %q: %w", status, core.ErrInvalidInput)
	}

	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	if status == StatusDP {
		if req.DPAmount == nil || *req.DPAmount <= 0 {
			return nil, fmt.Errorf(
				"down payment requires a positive deposit amount: %w",
				core.ErrInvalidInput)
		}
		if req.DPDueDate == nil {
			return nil, fmt.Errorf(
				"down payment requires a due date: %w", core.ErrInvalidInput)
		}
	}

	var created *Tenant

	err = s.repo.InTx(ctx, func(repo Repository) error {
		kost, err := repo.GetKostForUpdate(ctx, req.KostID)
		if err != nil {
			return err
		}
		if !scope.Allows(kost.RegionID) {
			return fmt.Errorf("create tenant: kost out of scope: %w", core.ErrForbidden)
		}

		if status.Occupying() {
			occupied, err := repo.CountOccupying(ctx, kost.ID, nil)
			if err != nil {
				return err
			}
			if occupied >= kost.TotalUnits {
				return fmt.Errorf(
					"kost %q is at capacity (%d/%d): %w",
					kost.Name, occupied, kost.TotalUnits,
					core.ErrCapacityExceeded)
			}
		}

		created, err = repo.Create(ctx, &Tenant{
			KostID:      kost.ID,
			Name:        req.Name,
			Phone:       phone,
			RoomNumber:  req.RoomNumber,
			RentPrice:   req.RentPrice,
			FeeTrash:    req.FeeTrash,
			FeeSecurity: req.FeeSecurity,
			FeeAdmin:    req.FeeAdmin,
			Status:      status,
			IsActive:    true,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		})
		if err != nil {
			return err
		}

		return s.deriveInitialEntry(ctx, repo, kost, created, req.DPAmount, req.DPDueDate)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("tenant created",
		"tenant_id", created.ID, "kost_id", created.KostID, "status", created.Status)
	return created, nil
}

// deriveInitialEntry writes the single ledger entry implied by the
// tenant's starting state: a dp entry when entering on deposit, a rent
// entry for any other status when rent plus fees is payable, nothing
// when the total is zero.
func (s *Service) deriveInitialEntry(
	ctx context.Context,
	repo Repository,
	kost *KostInfo,
	t *Tenant,
	dpAmount *int64,
	dpDueDate *time.Time,
) error {
	txDate := s.now()
	if t.StartDate != nil {
		txDate = *t.StartDate
	}

	if t.Status == StatusDP {
		desc := fmt.Sprintf("DP %s", t.Name)
		_, err := repo.CreateEntry(ctx, &ledger.Entry{
			KostID:          &kost.ID,
			TenantID:        &t.ID,
			RegionID:        kost.RegionID,
			Type:            ledger.TypeIncome,
			Category:        ledger.CategoryDP,
			Amount:          *dpAmount + t.FeeSum(),
			TransactionDate: txDate,
			Description:     &desc,
			DueDate:         dpDueDate,
		})
		return err
	}

	var rent int64
	if t.RentPrice != nil {
		rent = *t.RentPrice
	}
	total := rent + t.FeeSum()
	if total <= 0 {
		return nil
	}

	desc := fmt.Sprintf("Sewa %s", t.Name)
	_, err := repo.CreateEntry(ctx, &ledger.Entry{
		KostID:          &kost.ID,
		TenantID:        &t.ID,
		RegionID:        kost.RegionID,
		Type:            ledger.TypeIncome,
		Category:        ledger.CategoryRent,
		Amount:          total,
		TransactionDate: txDate,
		Description:     &desc,
	})
	return err
}

// Update applies a partial update. A transition into an occupying status
// re-runs the capacity check excluding the tenant's own row; a DP tenant
// whose deposit or due date changes has its dp ledger entry upserted with
// the recomputed amount.
func (s *Service) Update(
	ctx context.Context,
	scope authz.Scope,
	id uuid.UUID,
	req UpdateTenantRequest,
) (*Tenant, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, fmt.Errorf("unknown tenant status %q: %w", *req.Status, core.ErrInvalidInput)
	}

	var updated *Tenant

	err := s.repo.InTx(ctx, func(repo Repository) error {
		t, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		kost, err := repo.GetKostForUpdate(ctx, t.KostID)
		if err != nil {
			return err
		}
		if !scope.Allows(kost.RegionID) {
			return fmt.Errorf("update tenant: %w", core.ErrNotFound)
		}

		wasOccupying := t.Occupying()

		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Phone != nil {
			phone, err := NormalizePhone(*req.Phone)
			if err != nil {
				return err
			}
			t.Phone = phone
		}
		if req.RoomNumber != nil {
			t.RoomNumber = req.RoomNumber
		}
		if req.RentPrice != nil {
			t.RentPrice = req.RentPrice
		}
		if req.FeeTrash != nil {
			t.FeeTrash = *req.FeeTrash
		}
		if req.FeeSecurity != nil {
			t.FeeSecurity = *req.FeeSecurity
		}
		if req.FeeAdmin != nil {
			t.FeeAdmin = *req.FeeAdmin
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.StartDate != nil {
			t.StartDate = req.StartDate
		}
		if req.EndDate != nil {
			t.EndDate = req.EndDate
		}

		if t.Occupying() && !wasOccupying {
			occupied, err := repo.CountOccupying(ctx, kost.ID, &t.ID)
			if err != nil {
				return err
			}
			if occupied >= kost.TotalUnits {
				return fmt.Errorf(
					"kost %q is at capacity (%d/%d): %w",
					kost.Name, occupied, kost.TotalUnits,
					core.ErrCapacityExceeded)
			}
		}

		if t.Status == StatusDP && (req.DPAmount != nil || req.DPDueDate != nil) {
			if err := s.upsertDPEntry(ctx, repo, kost, t, req.DPAmount, req.DPDueDate); err != nil {
				return err
			}
		}

		updated, err = repo.Update(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// upsertDPEntry rewrites the tenant's latest dp entry in place, or creates
// one when none exists. The amount is always recomputed from the supplied
// deposit plus the tenant's current fee sum.
func (s *Service) upsertDPEntry(
	ctx context.Context,
	repo Repository,
	kost *KostInfo,
	t *Tenant,
	dpAmount *int64,
	dpDueDate *time.Time,
) error {
	if dpAmount == nil || *dpAmount <= 0 {
		return fmt.Errorf(
			"down payment requires a positive deposit amount: %w",
			core.ErrInvalidInput)
	}

	desc := fmt.Sprintf("DP %s", t.Name)

	existing, err := repo.LatestDPEntry(ctx, t.ID)
	switch {
	case err == nil:
		dueDate := existing.DueDate
		if dpDueDate != nil {
			dueDate = dpDueDate
		}
		if dueDate == nil {
			return fmt.Errorf("down payment requires a due date: %w", core.ErrInvalidInput)
		}
		existing.Amount = *dpAmount + t.FeeSum()
		existing.DueDate = dueDate
		existing.Description = &desc
		_, err = repo.UpdateDPEntry(ctx, existing)
		return err

	case isNotFound(err):
		if dpDueDate == nil {
			return fmt.Errorf("down payment requires a due date: %w", core.ErrInvalidInput)
		}
		_, err = repo.CreateEntry(ctx, &ledger.Entry{
			KostID:          &kost.ID,
			TenantID:        &t.ID,
			RegionID:        kost.RegionID,
			Type:            ledger.TypeIncome,
			Category:        ledger.CategoryDP,
			Amount:          *dpAmount + t.FeeSum(),
			TransactionDate: s.now(),
			Description:     &desc,
			DueDate:         dpDueDate,
		})
		return err

	default:
		return err
	}
}

// SoftDelete releases the tenant's unit. Status is left untouched; the
// ledger keeps its history.
func (s *Service) SoftDelete(ctx context.Context, scope authz.Scope, id uuid.UUID) error {
	return s.repo.InTx(ctx, func(repo Repository) error {
		t, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		kost, err := repo.GetKost(ctx, t.KostID)
		if err != nil {
			return err
		}
		if !scope.Allows(kost.RegionID) {
			return fmt.Errorf("delete tenant: %w", core.ErrNotFound)
		}
		return repo.SetInactive(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, scope authz.Scope, id uuid.UUID) (*Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	kost, err := s.repo.GetKost(ctx, t.KostID)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(kost.RegionID) {
		return nil, fmt.Errorf("get tenant: %w", core.ErrNotFound)
	}
	return t, nil
}

func (s *Service) List(
	ctx context.Context,
	scope authz.Scope,
	params ListTenantsParams,
) ([]Tenant, int, error) {
	return s.repo.List(ctx, scope, params)
}

// RecordPayment books a rent payment for a tenant of the given kost. A
// payment pulls a late or dp tenant back to active; no other status is
// touched.
func (s *Service) RecordPayment(
	ctx context.Context,
	scope authz.Scope,
	req ledger.RecordPaymentRequest,
) (*ledger.Entry, error) {
	var entry *ledger.Entry

	err := s.repo.InTx(ctx, func(repo Repository) error {
		kost, err := repo.GetKost(ctx, req.KostID)
		if err != nil {
			return err
		}
		if !scope.Allows(kost.RegionID) {
			return fmt.Errorf("record payment: %w", core.ErrNotFound)
		}

		t, err := repo.GetByID(ctx, req.TenantID)
		if err != nil {
			return err
		}
		if t.KostID != kost.ID {
			return fmt.Errorf("record payment: tenant not in kost: %w", core.ErrNotFound)
		}

		desc := fmt.Sprintf("Sewa %s", t.Name)
		if req.Description != nil {
			desc = *req.Description
		}

		entry, err = repo.CreateEntry(ctx, &ledger.Entry{
			KostID:          &kost.ID,
			TenantID:        &t.ID,
			RegionID:        kost.RegionID,
			Type:            ledger.TypeIncome,
			Category:        ledger.CategoryRent,
			Amount:          req.Amount,
			TransactionDate: req.TransactionDate,
			Description:     &desc,
		})
		if err != nil {
			return err
		}

		if t.Status == StatusLate || t.Status == StatusDP {
			return repo.UpdateStatus(ctx, t.ID, StatusActive)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordExpense books an expense against exactly one of a kost or a
// region. When a kost is given, the region is derived from it and any
// caller-supplied region is ignored.
func (s *Service) RecordExpense(
	ctx context.Context,
	scope authz.Scope,
	req ledger.RecordExpenseRequest,
) (*ledger.Entry, error) {
	if (req.KostID == nil) == (req.RegionID == nil) {
		return nil, fmt.Errorf(
			"expense requires exactly one of kost_id or region_id: %w",
			core.ErrInvalidInput)
	}

	var entry *ledger.Entry

	err := s.repo.InTx(ctx, func(repo Repository) error {
		var (
			regionID uuid.UUID
			kostID   *uuid.UUID
		)

		if req.KostID != nil {
			kost, err := repo.GetKost(ctx, *req.KostID)
			if err != nil {
				return err
			}
			regionID = kost.RegionID
			kostID = &kost.ID
		} else {
			regionID = *req.RegionID
		}

		if !scope.Allows(regionID) {
			return fmt.Errorf("record expense: %w", core.ErrNotFound)
		}

		var err error
		entry, err = repo.CreateEntry(ctx, &ledger.Entry{
			KostID:          kostID,
			RegionID:        regionID,
			Type:            ledger.TypeExpense,
			Category:        req.Category,
			Amount:          req.Amount,
			TransactionDate: req.TransactionDate,
			Description:     req.Description,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// MarkLate runs the recurring late-status sweep and reports how many
// tenants flipped.
func (s *Service) MarkLate(ctx context.Context) (int, error) {
	count, err := s.repo.MarkLate(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		slog.Info("tenants marked late", "count", count)
	}
	return count, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
