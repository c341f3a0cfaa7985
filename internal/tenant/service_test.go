// AngelaMos | 2026
// service_test.go

package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/ledger"
)

type fakeRepo struct {
	kosts   map[uuid.UUID]*KostInfo
	tenants map[uuid.UUID]*Tenant
	entries []*ledger.Entry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		kosts:   map[uuid.UUID]*KostInfo{},
		tenants: map[uuid.UUID]*Tenant{},
	}
}

func (f *fakeRepo) addKost(totalUnits int) *KostInfo {
	k := &KostInfo{
		ID:         uuid.New(),
		RegionID:   uuid.New(),
		Name:       "Kost Melati",
		TotalUnits: totalUnits,
	}
	f.kosts[k.ID] = k
	return k
}

func (f *fakeRepo) InTx(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) GetKost(ctx context.Context, kostID uuid.UUID) (*KostInfo, error) {
	k, ok := f.kosts[kostID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return k, nil
}

func (f *fakeRepo) GetKostForUpdate(ctx context.Context, kostID uuid.UUID) (*KostInfo, error) {
	return f.GetKost(ctx, kostID)
}

func (f *fakeRepo) CountOccupying(ctx context.Context, kostID uuid.UUID, exclude *uuid.UUID) (int, error) {
	count := 0
	for _, t := range f.tenants {
		if t.KostID != kostID || !t.Occupying() {
			continue
		}
		if exclude != nil && t.ID == *exclude {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeRepo) Create(ctx context.Context, t *Tenant) (*Tenant, error) {
	created := *t
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.tenants[created.ID] = &created
	return &created, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeRepo) List(ctx context.Context, scope authz.Scope, params ListTenantsParams) ([]Tenant, int, error) {
	out := []Tenant{}
	for _, t := range f.tenants {
		if t.IsActive {
			out = append(out, *t)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, t *Tenant) (*Tenant, error) {
	if _, ok := f.tenants[t.ID]; !ok {
		return nil, core.ErrNotFound
	}
	copied := *t
	f.tenants[t.ID] = &copied
	return t, nil
}

func (f *fakeRepo) SetInactive(ctx context.Context, id uuid.UUID) error {
	t, ok := f.tenants[id]
	if !ok {
		return core.ErrNotFound
	}
	t.IsActive = false
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	t, ok := f.tenants[id]
	if !ok {
		return core.ErrNotFound
	}
	t.Status = status
	return nil
}

func (f *fakeRepo) MarkLate(ctx context.Context) (int, error) {
	count := 0
	for _, t := range f.tenants {
		if t.Status == StatusActive && t.IsActive &&
			t.StartDate != nil && t.EndDate == nil &&
			time.Now().After(t.StartDate.AddDate(0, 1, 0)) {
			t.Status = StatusLate
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateEntry(ctx context.Context, e *ledger.Entry) (*ledger.Entry, error) {
	created := *e
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.entries = append(f.entries, &created)
	return &created, nil
}

func (f *fakeRepo) LatestDPEntry(ctx context.Context, tenantID uuid.UUID) (*ledger.Entry, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.TenantID != nil && *e.TenantID == tenantID &&
			e.Type == ledger.TypeIncome && e.Category == ledger.CategoryDP {
			copied := *e
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) UpdateDPEntry(ctx context.Context, e *ledger.Entry) (*ledger.Entry, error) {
	for i, stored := range f.entries {
		if stored.ID == e.ID {
			copied := *e
			f.entries[i] = &copied
			return e, nil
		}
	}
	return nil, core.ErrNotFound
}

func activeRequest(kostID uuid.UUID, name string) CreateTenantRequest {
	return CreateTenantRequest{
		KostID: kostID,
		Name:   name,
		Phone:  "0812-3456-7890",
		Status: StatusActive,
	}
}

func TestCreateEnforcesCapacity(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(2)
	svc := NewService(repo)
	scope := authz.ScopeAll()

	_, err := svc.Create(context.Background(), scope, activeRequest(k.ID, "Andi Wijaya"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), scope, activeRequest(k.ID, "Budi Santoso"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), scope, activeRequest(k.ID, "Citra Dewi"))
	require.ErrorIs(t, err, core.ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "2/2")
}

func TestCreateInactiveStatusSkipsCapacity(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(0)
	svc := NewService(repo)

	req := activeRequest(k.ID, "Dodi Pratama")
	req.Status = StatusRenovation

	_, err := svc.Create(context.Background(), authz.ScopeAll(), req)
	require.NoError(t, err)
}

func TestCreateDPRequiresDepositAndDueDate(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)

	due := time.Now().AddDate(0, 0, 14)
	zero := int64(0)

	req := activeRequest(k.ID, "Eka Lestari")
	req.Status = StatusDP
	req.DPAmount = &zero
	req.DPDueDate = &due
	_, err := svc.Create(context.Background(), authz.ScopeAll(), req)
	require.ErrorIs(t, err, core.ErrInvalidInput)

	amount := int64(500000)
	req.DPAmount = &amount
	req.DPDueDate = nil
	_, err = svc.Create(context.Background(), authz.ScopeAll(), req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateDPDerivesLedgerEntry(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)

	amount := int64(500000)
	due := time.Now().AddDate(0, 0, 14)

	req := activeRequest(k.ID, "Fajar Nugroho")
	req.Status = StatusDP
	req.DPAmount = &amount
	req.DPDueDate = &due
	req.FeeTrash = 10000
	req.FeeSecurity = 20000
	req.FeeAdmin = 5000

	created, err := svc.Create(context.Background(), authz.ScopeAll(), req)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, ledger.TypeIncome, entry.Type)
	assert.Equal(t, ledger.CategoryDP, entry.Category)
	assert.Equal(t, int64(535000), entry.Amount)
	assert.Equal(t, k.RegionID, entry.RegionID)
	require.NotNil(t, entry.TenantID)
	assert.Equal(t, created.ID, *entry.TenantID)
	require.NotNil(t, entry.DueDate)
}

func TestCreateFeesOnlyDerivesRentEntry(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)

	req := activeRequest(k.ID, "Gita Lestari")
	req.FeeTrash = 50000

	created, err := svc.Create(context.Background(), authz.ScopeAll(), req)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, ledger.TypeIncome, entry.Type)
	assert.Equal(t, ledger.CategoryRent, entry.Category)
	assert.Equal(t, int64(50000), entry.Amount)
	require.NotNil(t, entry.TenantID)
	assert.Equal(t, created.ID, *entry.TenantID)
}

func TestCreateNonActiveStatusDerivesRentEntry(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)

	rent := int64(100000)
	req := activeRequest(k.ID, "Hendra Saputra")
	req.Status = StatusLate
	req.RentPrice = &rent

	_, err := svc.Create(context.Background(), authz.ScopeAll(), req)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, ledger.CategoryRent, entry.Category)
	assert.Equal(t, int64(100000), entry.Amount)
}

func TestCreateZeroTotalDerivesNoEntry(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), authz.ScopeAll(), activeRequest(k.ID, "Indah Permata"))
	require.NoError(t, err)

	assert.Empty(t, repo.entries)
}

func TestCreateRejectsOutOfScopeKost(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)

	otherRegion := uuid.New()
	_, err := svc.Create(context.Background(), authz.ScopeRegion(otherRegion),
		activeRequest(k.ID, "Gita Permata"))
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestUpdateRechecksCapacityOnOccupyingTransition(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(1)
	svc := NewService(repo)
	scope := authz.ScopeAll()

	first, err := svc.Create(context.Background(), scope, activeRequest(k.ID, "Hana Safitri"))
	require.NoError(t, err)

	req := activeRequest(k.ID, "Indra Kusuma")
	req.Status = StatusInactive
	second, err := svc.Create(context.Background(), scope, req)
	require.NoError(t, err)

	active := StatusActive
	_, err = svc.Update(context.Background(), scope, second.ID,
		UpdateTenantRequest{Status: &active})
	require.ErrorIs(t, err, core.ErrCapacityExceeded)

	// Freeing the first unit lets the transition through.
	require.NoError(t, svc.SoftDelete(context.Background(), scope, first.ID))

	updated, err := svc.Update(context.Background(), scope, second.ID,
		UpdateTenantRequest{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, updated.Status)
}

func TestUpdateUpsertsDPEntry(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)
	scope := authz.ScopeAll()

	amount := int64(400000)
	due := time.Now().AddDate(0, 0, 7)

	req := activeRequest(k.ID, "Joko Susilo")
	req.Status = StatusDP
	req.DPAmount = &amount
	req.DPDueDate = &due
	created, err := svc.Create(context.Background(), scope, req)
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)
	firstID := repo.entries[0].ID

	// A new deposit amount rewrites the same entry instead of appending.
	newAmount := int64(600000)
	newFee := int64(15000)
	_, err = svc.Update(context.Background(), scope, created.ID, UpdateTenantRequest{
		DPAmount: &newAmount,
		FeeTrash: &newFee,
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, firstID, repo.entries[0].ID)
	assert.Equal(t, int64(615000), repo.entries[0].Amount)
}

func TestRecordPaymentTransitions(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)
	scope := authz.ScopeAll()

	created, err := svc.Create(context.Background(), scope, activeRequest(k.ID, "Kartika Sari"))
	require.NoError(t, err)

	late := StatusLate
	_, err = svc.Update(context.Background(), scope, created.ID,
		UpdateTenantRequest{Status: &late})
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), scope, ledger.RecordPaymentRequest{
		KostID:          k.ID,
		TenantID:        created.ID,
		Amount:          1500000,
		TransactionDate: time.Now(),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)
}

func TestRecordPaymentLeavesRenovationUntouched(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)
	scope := authz.ScopeAll()

	req := activeRequest(k.ID, "Lina Marlina")
	req.Status = StatusRenovation
	created, err := svc.Create(context.Background(), scope, req)
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), scope, ledger.RecordPaymentRequest{
		KostID:          k.ID,
		TenantID:        created.ID,
		Amount:          1500000,
		TransactionDate: time.Now(),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRenovation, got.Status)
}

func TestRecordPaymentRequiresTenantInKost(t *testing.T) {
	repo := newFakeRepo()
	k1 := repo.addKost(5)
	k2 := repo.addKost(5)
	svc := NewService(repo)
	scope := authz.ScopeAll()

	created, err := svc.Create(context.Background(), scope, activeRequest(k1.ID, "Maya Anggraini"))
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), scope, ledger.RecordPaymentRequest{
		KostID:          k2.ID,
		TenantID:        created.ID,
		Amount:          1000000,
		TransactionDate: time.Now(),
	})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRecordExpenseRequiresExactlyOneTarget(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(5)
	svc := NewService(repo)
	scope := authz.ScopeAll()

	base := ledger.RecordExpenseRequest{
		Category:        "utilities",
		Amount:          250000,
		TransactionDate: time.Now(),
	}

	_, err := svc.RecordExpense(context.Background(), scope, base)
	require.ErrorIs(t, err, core.ErrInvalidInput)

	both := base
	regionID := uuid.New()
	both.KostID = &k.ID
	both.RegionID = &regionID
	_, err = svc.RecordExpense(context.Background(), scope, both)
	require.ErrorIs(t, err, core.ErrInvalidInput)

	// Kost present: region comes from the kost, not the caller.
	withKost := base
	withKost.KostID = &k.ID
	entry, err := svc.RecordExpense(context.Background(), scope, withKost)
	require.NoError(t, err)
	assert.Equal(t, k.RegionID, entry.RegionID)
	assert.Equal(t, ledger.TypeExpense, entry.Type)
}

func TestSoftDeleteReleasesUnit(t *testing.T) {
	repo := newFakeRepo()
	k := repo.addKost(1)
	svc := NewService(repo)
	scope := authz.ScopeAll()

	created, err := svc.Create(context.Background(), scope, activeRequest(k.ID, "Nina Rahma"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), scope, activeRequest(k.ID, "Oscar Hidayat"))
	require.ErrorIs(t, err, core.ErrCapacityExceeded)

	require.NoError(t, svc.SoftDelete(context.Background(), scope, created.ID))

	_, err = svc.Create(context.Background(), scope, activeRequest(k.ID, "Oscar Hidayat"))
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, StatusActive, got.Status)
}
