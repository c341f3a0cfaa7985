// AngelaMos | 2026
// resolver_test.go

package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/profile"
)

type fakeRepo struct {
	profiles    map[string]*profile.Profile
	assignments map[uuid.UUID][]uuid.UUID
	regions     []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles:    map[string]*profile.Profile{},
		assignments: map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakeRepo) addProfile(subjectUID, role string, regions ...uuid.UUID) *profile.Profile {
	p := &profile.Profile{
		ID:         uuid.New(),
		SubjectUID: subjectUID,
		Name:       subjectUID,
		Role:       role,
	}
	f.profiles[subjectUID] = p
	f.assignments[p.ID] = regions
	return p
}

func (f *fakeRepo) InTx(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) ProfileBySubject(ctx context.Context, subjectUID string) (*profile.Profile, error) {
	p, ok := f.profiles[subjectUID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) AssignedRegionIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.assignments[userID], nil
}

func (f *fakeRepo) RegionIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.regions, nil
}

func (f *fakeRepo) OwnerExists(ctx context.Context) (bool, error) {
	for _, p := range f.profiles {
		if p.Role == profile.RoleOwner {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CountAssignments(ctx context.Context, userID uuid.UUID) (int, error) {
	return len(f.assignments[userID]), nil
}

func (f *fakeRepo) AddAssignments(ctx context.Context, userID uuid.UUID, regionIDs []uuid.UUID) (int, error) {
	existing := map[uuid.UUID]bool{}
	for _, id := range f.assignments[userID] {
		existing[id] = true
	}
	added := 0
	for _, id := range regionIDs {
		if !existing[id] {
			f.assignments[userID] = append(f.assignments[userID], id)
			added++
		}
	}
	return added, nil
}

func TestResolveOwnerDefaultsToAllRegions(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("owner-uid", profile.RoleOwner)
	resolver := NewResolver(repo)

	scope, caller, err := resolver.Resolve(context.Background(), "owner-uid", nil)
	require.NoError(t, err)
	assert.True(t, scope.IsAll())
	assert.True(t, caller.IsOwner())
}

func TestResolveOwnerHonorsRequestedRegion(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("owner-uid", profile.RoleOwner)
	resolver := NewResolver(repo)

	requested := uuid.New()
	scope, _, err := resolver.Resolve(context.Background(), "owner-uid", &requested)
	require.NoError(t, err)

	regionID, ok := scope.RegionID()
	require.True(t, ok)
	assert.Equal(t, requested, regionID)
}

func TestResolveAdminIgnoresRequestedRegion(t *testing.T) {
	repo := newFakeRepo()
	assigned := uuid.New()
	repo.addProfile("admin-uid", profile.RoleAdmin, assigned)
	resolver := NewResolver(repo)

	// The override is dropped: an admin can never widen or shift their
	// view through a query parameter.
	other := uuid.New()
	scope, _, err := resolver.Resolve(context.Background(), "admin-uid", &other)
	require.NoError(t, err)

	regionID, ok := scope.RegionID()
	require.True(t, ok)
	assert.Equal(t, assigned, regionID)
}

func TestResolveAdminFirstAssignedRegionWins(t *testing.T) {
	repo := newFakeRepo()
	first := uuid.New()
	second := uuid.New()
	repo.addProfile("it-uid", profile.RoleIT, first, second)
	resolver := NewResolver(repo)

	scope, _, err := resolver.Resolve(context.Background(), "it-uid", nil)
	require.NoError(t, err)

	regionID, ok := scope.RegionID()
	require.True(t, ok)
	assert.Equal(t, first, regionID)
}

func TestResolveUnassignedAdminSeesNothing(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("admin-uid", profile.RoleAdmin)
	resolver := NewResolver(repo)

	scope, _, err := resolver.Resolve(context.Background(), "admin-uid", nil)
	require.NoError(t, err)
	assert.True(t, scope.IsNone())
	assert.False(t, scope.Allows(uuid.New()))
}

func TestResolveUnknownSubjectIsForbidden(t *testing.T) {
	repo := newFakeRepo()
	resolver := NewResolver(repo)

	_, _, err := resolver.Resolve(context.Background(), "ghost-uid", nil)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestScopeAllows(t *testing.T) {
	regionID := uuid.New()

	assert.True(t, ScopeAll().Allows(regionID))
	assert.True(t, ScopeRegion(regionID).Allows(regionID))
	assert.False(t, ScopeRegion(regionID).Allows(uuid.New()))
	assert.False(t, ScopeNone().Allows(regionID))
}

func TestFailsafeRepairsAndIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	owner := repo.addProfile("owner-uid", profile.RoleOwner)
	repo.regions = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	failsafe := NewFailsafe(repo)

	report, err := failsafe.Run(context.Background(), "owner-uid")
	require.NoError(t, err)
	assert.True(t, report.OwnerProfileExists)
	assert.Equal(t, owner.ID, report.OwnerUserID)
	assert.Equal(t, 3, report.RegionsTotal)
	assert.False(t, report.RegionsEmpty)
	assert.Equal(t, 0, report.AssignmentsBefore)
	assert.Equal(t, 3, report.AssignmentsAdded)
	assert.Equal(t, 3, report.AssignmentsAfter)

	// Second run adds nothing.
	report, err = failsafe.Run(context.Background(), "owner-uid")
	require.NoError(t, err)
	assert.Equal(t, 3, report.AssignmentsBefore)
	assert.Equal(t, 0, report.AssignmentsAdded)
	assert.Equal(t, 3, report.AssignmentsAfter)
}

func TestFailsafeRejectsNonOwner(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("admin-uid", profile.RoleAdmin)
	failsafe := NewFailsafe(repo)

	_, err := failsafe.Run(context.Background(), "admin-uid")
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestFailsafeWithNoRegions(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("owner-uid", profile.RoleOwner)
	failsafe := NewFailsafe(repo)

	report, err := failsafe.Run(context.Background(), "owner-uid")
	require.NoError(t, err)
	assert.True(t, report.RegionsEmpty)
	assert.Equal(t, 0, report.AssignmentsAdded)
}
