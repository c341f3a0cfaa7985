// AngelaMos | 2026
// service_test.go

package region

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

type fakeRepo struct {
	regions     map[uuid.UUID]*Region
	owners      []uuid.UUID
	assignments map[uuid.UUID][]uuid.UUID // region -> users
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		regions:     map[uuid.UUID]*Region{},
		assignments: map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakeRepo) InTx(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) Create(ctx context.Context, name string) (*Region, error) {
	for _, reg := range f.regions {
		if reg.Name == name {
			return nil, core.ErrDuplicateKey
		}
	}
	reg := &Region{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	f.regions[reg.ID] = reg
	return reg, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Region, error) {
	reg, ok := f.regions[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return reg, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]Region, error) {
	out := []Region{}
	for _, reg := range f.regions {
		out = append(out, *reg)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, name string) (*Region, error) {
	reg, ok := f.regions[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	reg.Name = name
	return reg, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.regions[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.regions, id)
	return nil
}

func (f *fakeRepo) OwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.owners, nil
}

func (f *fakeRepo) AssignUsers(ctx context.Context, regionID uuid.UUID, userIDs []uuid.UUID) error {
	f.assignments[regionID] = append(f.assignments[regionID], userIDs...)
	return nil
}

func (f *fakeRepo) RemoveAssignments(ctx context.Context, regionID uuid.UUID) error {
	delete(f.assignments, regionID)
	return nil
}

func TestCreateAssignsAllOwners(t *testing.T) {
	repo := newFakeRepo()
	repo.owners = []uuid.UUID{uuid.New(), uuid.New()}
	svc := NewService(repo)

	reg, err := svc.Create(context.Background(), "Jakarta Selatan")
	require.NoError(t, err)

	assert.ElementsMatch(t, repo.owners, repo.assignments[reg.ID])
}

func TestCreateDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), "Bandung")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "Bandung")
	require.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestListFiltersByScope(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	visible, err := svc.Create(context.Background(), "Depok")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "Bogor")
	require.NoError(t, err)

	regions, err := svc.List(context.Background(), authz.ScopeRegion(visible.ID))
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "Depok", regions[0].Name)

	regions, err = svc.List(context.Background(), authz.ScopeAll())
	require.NoError(t, err)
	assert.Len(t, regions, 2)

	regions, err = svc.List(context.Background(), authz.ScopeNone())
	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestGetOutOfScopeReadsAsMissing(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	reg, err := svc.Create(context.Background(), "Tangerang")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), authz.ScopeRegion(uuid.New()), reg.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteRemovesAssignments(t *testing.T) {
	repo := newFakeRepo()
	repo.owners = []uuid.UUID{uuid.New()}
	svc := NewService(repo)

	reg, err := svc.Create(context.Background(), "Bekasi")
	require.NoError(t, err)
	require.NotEmpty(t, repo.assignments[reg.ID])

	require.NoError(t, svc.Delete(context.Background(), reg.ID))
	assert.Empty(t, repo.assignments[reg.ID])
	assert.Empty(t, repo.regions)
}
