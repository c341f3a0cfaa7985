// AngelaMos | 2026
// failsafe.go

package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/core"
)

// RepairReport summarizes one failsafe run.
type RepairReport struct {
	OwnerProfileExists bool      `json:"owner_profile_exists"`
	OwnerUserID        uuid.UUID `json:"owner_user_id"`
	RegionsTotal       int       `json:"regions_total"`
	RegionsEmpty       bool      `json:"regions_empty"`
	AssignmentsBefore  int       `json:"owner_region_assignments_before"`
	AssignmentsAfter   int       `json:"owner_region_assignments_after"`
	AssignmentsAdded   int       `json:"owner_region_assignments_added"`
}

// Failsafe self-heals the user ↔ region join table after bootstrap: when a
// region was created without the assignment step, the calling owner gets an
// assignment row for every existing region. Running it twice adds nothing
// the second time.
type Failsafe struct {
	repo Repository
}

func NewFailsafe(repo Repository) *Failsafe {
	return &Failsafe{repo: repo}
}

func (f *Failsafe) Run(ctx context.Context, subjectUID string) (*RepairReport, error) {
	var report RepairReport

	err := f.repo.InTx(ctx, func(repo Repository) error {
		caller, err := repo.ProfileBySubject(ctx, subjectUID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf(
					"failsafe: no profile for caller: %w",
					core.ErrForbidden,
				)
			}
			return fmt.Errorf("failsafe: %w", err)
		}

		if !caller.IsOwner() {
			return fmt.Errorf(
				"failsafe: only owners may run repair: %w",
				core.ErrForbidden,
			)
		}

		ownerExists, err := repo.OwnerExists(ctx)
		if err != nil {
			return fmt.Errorf("failsafe: %w", err)
		}

		regionIDs, err := repo.RegionIDs(ctx)
		if err != nil {
			return fmt.Errorf("failsafe: %w", err)
		}

		before, err := repo.CountAssignments(ctx, caller.ID)
		if err != nil {
			return fmt.Errorf("failsafe: %w", err)
		}

		added := 0
		if len(regionIDs) > 0 {
			added, err = repo.AddAssignments(ctx, caller.ID, regionIDs)
			if err != nil {
				return fmt.Errorf("failsafe: %w", err)
			}
		}

		after, err := repo.CountAssignments(ctx, caller.ID)
		if err != nil {
			return fmt.Errorf("failsafe: %w", err)
		}

		report = RepairReport{
			OwnerProfileExists: ownerExists,
			OwnerUserID:        caller.ID,
			RegionsTotal:       len(regionIDs),
			RegionsEmpty:       len(regionIDs) == 0,
			AssignmentsBefore:  before,
			AssignmentsAfter:   after,
			AssignmentsAdded:   added,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}
