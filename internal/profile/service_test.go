// AngelaMos | 2026
// service_test.go

package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostapp/kost-api/internal/core"
)

type fakeRepo struct {
	profiles    map[uuid.UUID]*Profile
	assignments map[uuid.UUID][]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles:    map[uuid.UUID]*Profile{},
		assignments: map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakeRepo) addProfile(subjectUID, role string, regions ...uuid.UUID) *Profile {
	p := &Profile{ID: uuid.New(), SubjectUID: subjectUID, Name: subjectUID, Role: role}
	f.profiles[p.ID] = p
	f.assignments[p.ID] = regions
	return p
}

func (f *fakeRepo) Create(ctx context.Context, p *Profile, regionIDs []uuid.UUID) error {
	for _, existing := range f.profiles {
		if existing.SubjectUID == p.SubjectUID {
			return core.ErrDuplicateKey
		}
	}
	f.profiles[p.ID] = p
	f.assignments[p.ID] = regionIDs
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetBySubjectUID(ctx context.Context, subjectUID string) (*Profile, error) {
	for _, p := range f.profiles {
		if p.SubjectUID == subjectUID {
			return p, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context) ([]Profile, error) {
	out := []Profile{}
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.profiles[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.profiles, id)
	return nil
}

func (f *fakeRepo) AssignedRegionIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.assignments[userID], nil
}

type fakeDirectory struct {
	emails map[string]string
}

func (f *fakeDirectory) Email(ctx context.Context, uid string) (string, error) {
	email, ok := f.emails[uid]
	if !ok {
		return "", errors.New("lookup failed")
	}
	return email, nil
}

func TestMeReturnsFirstAssignedRegion(t *testing.T) {
	repo := newFakeRepo()
	first := uuid.New()
	repo.addProfile("admin-uid", RoleAdmin, first, uuid.New())
	svc := NewService(repo, nil)

	p, regionID, err := svc.Me(context.Background(), "admin-uid")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, p.Role)
	require.NotNil(t, regionID)
	assert.Equal(t, first, *regionID)
}

func TestMeWithoutAssignment(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("owner-uid", RoleOwner)
	svc := NewService(repo, nil)

	_, regionID, err := svc.Me(context.Background(), "owner-uid")
	require.NoError(t, err)
	assert.Nil(t, regionID)
}

func TestListRequiresOwner(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("admin-uid", RoleAdmin)
	svc := NewService(repo, nil)

	_, err := svc.List(context.Background(), "admin-uid")
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestListDegradesEmailLookupToUnknown(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("owner-uid", RoleOwner)
	repo.addProfile("admin-uid", RoleAdmin)

	directory := &fakeDirectory{emails: map[string]string{
		"owner-uid": "owner@example.com",
	}}
	svc := NewService(repo, directory)

	profiles, err := svc.List(context.Background(), "owner-uid")
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	byUID := map[string]string{}
	for _, p := range profiles {
		byUID[p.SubjectUID] = p.Email
	}
	assert.Equal(t, "owner@example.com", byUID["owner-uid"])
	assert.Equal(t, "unknown", byUID["admin-uid"])
}

func TestCreateOnlyProvisionsAdminAndIT(t *testing.T) {
	repo := newFakeRepo()
	repo.addProfile("owner-uid", RoleOwner)
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), "owner-uid", CreateProfileRequest{
		SubjectUID: "new-owner-uid",
		Name:       "Another Owner",
		Role:       RoleOwner,
	})
	require.ErrorIs(t, err, core.ErrInvalidInput)

	created, err := svc.Create(context.Background(), "owner-uid", CreateProfileRequest{
		SubjectUID: "it-uid",
		Name:       "IT Staff",
		Role:       RoleIT,
	})
	require.NoError(t, err)
	assert.Equal(t, RoleIT, created.Role)
}

func TestDeleteRefusesOwnerProfiles(t *testing.T) {
	repo := newFakeRepo()
	owner := repo.addProfile("owner-uid", RoleOwner)
	admin := repo.addProfile("admin-uid", RoleAdmin)
	svc := NewService(repo, nil)

	err := svc.Delete(context.Background(), "owner-uid", owner.ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), "owner-uid", admin.ID))
}
