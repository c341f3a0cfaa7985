// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/core"
)

// Directory is the optional identity-provider lookup used to decorate admin
// listings with account emails. It is display-only: failures degrade to
// "unknown" instead of failing the listing.
type Directory interface {
	Email(ctx context.Context, uid string) (string, error)
}

type Service struct {
	repo      Repository
	directory Directory
}

func NewService(repo Repository, directory Directory) *Service {
	return &Service{repo: repo, directory: directory}
}

// Me returns the caller's profile plus their first assigned region, which is
// what non-owner clients use as their working region.
func (s *Service) Me(
	ctx context.Context,
	subjectUID string,
) (*Profile, *uuid.UUID, error) {
	if subjectUID == "" {
		return nil, nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	p, err := s.repo.GetBySubjectUID(ctx, subjectUID)
	if err != nil {
		return nil, nil, err
	}

	assigned, err := s.repo.AssignedRegionIDs(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}

	var regionID *uuid.UUID
	if len(assigned) > 0 {
		regionID = &assigned[0]
	}

	return p, regionID, nil
}

func (s *Service) List(
	ctx context.Context,
	callerUID string,
) ([]ProfileWithEmail, error) {
	if err := s.requireOwner(ctx, callerUID); err != nil {
		return nil, err
	}

	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	decorated := make([]ProfileWithEmail, 0, len(profiles))
	for _, p := range profiles {
		email := "unknown"
		if s.directory != nil {
			resolved, lookupErr := s.directory.Email(ctx, p.SubjectUID)
			if lookupErr != nil {
				slog.Debug("directory lookup failed",
					"profile_id", p.ID,
					"error", lookupErr,
				)
			} else {
				email = resolved
			}
		}

		decorated = append(decorated, ProfileWithEmail{
			Profile: p,
			Email:   email,
		})
	}

	return decorated, nil
}

func (s *Service) Create(
	ctx context.Context,
	callerUID string,
	req CreateProfileRequest,
) (*Profile, error) {
	if err := s.requireOwner(ctx, callerUID); err != nil {
		return nil, err
	}

	if req.Role != RoleAdmin && req.Role != RoleIT {
		return nil, fmt.Errorf(
			"create profile: role %q cannot be provisioned: %w",
			req.Role,
			core.ErrInvalidInput,
		)
	}

	p := &Profile{
		ID:         uuid.New(),
		SubjectUID: req.SubjectUID,
		Name:       req.Name,
		Role:       req.Role,
	}

	if err := s.repo.Create(ctx, p, req.RegionIDs); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(
	ctx context.Context,
	callerUID string,
	id uuid.UUID,
) error {
	if err := s.requireOwner(ctx, callerUID); err != nil {
		return err
	}

	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if target.IsOwner() {
		return fmt.Errorf(
			"delete profile: owner accounts cannot be deleted: %w",
			core.ErrForbidden,
		)
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) requireOwner(ctx context.Context, callerUID string) error {
	if callerUID == "" {
		return fmt.Errorf("require owner: %w", core.ErrUnauthorized)
	}

	caller, err := s.repo.GetBySubjectUID(ctx, callerUID)
	if err != nil {
		return fmt.Errorf("require owner: %w", core.ErrForbidden)
	}

	if !caller.IsOwner() {
		return fmt.Errorf("require owner: %w", core.ErrForbidden)
	}

	return nil
}
