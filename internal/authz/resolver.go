// AngelaMos | 2026
// resolver.go

package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/profile"
)

// Resolver turns a caller identity into a Scope. Region is the sole
// multi-tenancy boundary: every downstream query for kosts, tenants and
// ledger entries is filtered by the scope resolved here.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve computes the caller's scope.
//
// Owners may narrow their view with requestedRegion; with no override they
// see all regions. Admin and IT callers always get their first assigned
// region — any requested override is ignored so a query parameter can never
// widen their view — and callers with no assignment at all get ScopeNone.
func (r *Resolver) Resolve(
	ctx context.Context,
	subjectUID string,
	requestedRegion *uuid.UUID,
) (Scope, *profile.Profile, error) {
	caller, err := r.repo.ProfileBySubject(ctx, subjectUID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ScopeNone(), nil, fmt.Errorf(
				"resolve scope: no profile for caller: %w",
				core.ErrForbidden,
			)
		}
		return ScopeNone(), nil, fmt.Errorf("resolve scope: %w", err)
	}

	if caller.IsOwner() {
		if requestedRegion != nil {
			return ScopeRegion(*requestedRegion), caller, nil
		}
		return ScopeAll(), caller, nil
	}

	assigned, err := r.repo.AssignedRegionIDs(ctx, caller.ID)
	if err != nil {
		return ScopeNone(), nil, fmt.Errorf("resolve scope: %w", err)
	}

	if len(assigned) == 0 {
		return ScopeNone(), caller, nil
	}

	return ScopeRegion(assigned[0]), caller, nil
}
