// AngelaMos | 2026
// service_test.go

package dashboard

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

type incomeEvent struct {
	date   time.Time
	amount int64
}

type fakeRepo struct {
	totalUnits     int
	occupyingNow   int
	occupyingPrior int
	income         []incomeEvent
	tenants        []TrackerTenant
	lastRent       map[uuid.UUID]time.Time
}

func (f *fakeRepo) TotalUnits(ctx context.Context, scope authz.Scope, kostID *uuid.UUID) (int, error) {
	return f.totalUnits, nil
}

func (f *fakeRepo) OccupyingCount(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
	createdBefore *time.Time,
) (int, error) {
	if createdBefore != nil {
		return f.occupyingPrior, nil
	}
	return f.occupyingNow, nil
}

func (f *fakeRepo) IncomeBetween(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
	start, end time.Time,
) (int64, error) {
	var total int64
	for _, ev := range f.income {
		if !ev.date.Before(start) && !ev.date.After(end) {
			total += ev.amount
		}
	}
	return total, nil
}

func (f *fakeRepo) OccupyingTenants(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
	limit int,
) ([]TrackerTenant, error) {
	if len(f.tenants) > limit {
		return f.tenants[:limit], nil
	}
	return f.tenants, nil
}

func (f *fakeRepo) LatestRentDates(
	ctx context.Context,
	tenantIDs []uuid.UUID,
) (map[uuid.UUID]time.Time, error) {
	return f.lastRent, nil
}

func serviceAt(repo *fakeRepo, now time.Time) *Service {
	svc := NewService(repo, repo)
	svc.now = func() time.Time { return now }
	return svc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStatsMath(t *testing.T) {
	repo := &fakeRepo{totalUnits: 10, occupyingNow: 8, occupyingPrior: 4}
	svc := serviceAt(repo, date(2026, time.September, 15))

	stats, err := svc.Stats(context.Background(), authz.ScopeAll(), nil)
	require.NoError(t, err)

	assert.Equal(t, 8, stats.TotalTenants)
	assert.Equal(t, 10, stats.TotalUnits)
	assert.Equal(t, 2, stats.EmptyUnits)
	assert.Equal(t, 80.0, stats.OccupancyRate)
	require.NotNil(t, stats.TenantChangePercent)
	assert.Equal(t, 100.0, *stats.TenantChangePercent)
}

func TestStatsChangeNilWhenBaselineZero(t *testing.T) {
	repo := &fakeRepo{totalUnits: 6, occupyingNow: 3, occupyingPrior: 0}
	svc := serviceAt(repo, date(2026, time.September, 15))

	stats, err := svc.Stats(context.Background(), authz.ScopeAll(), nil)
	require.NoError(t, err)
	assert.Nil(t, stats.TenantChangePercent)
	assert.Equal(t, 50.0, stats.OccupancyRate)
}

func TestStatsZeroUnits(t *testing.T) {
	repo := &fakeRepo{}
	svc := serviceAt(repo, date(2026, time.September, 15))

	stats, err := svc.Stats(context.Background(), authz.ScopeAll(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.OccupancyRate)
	assert.Equal(t, 0, stats.EmptyUnits)
}

func TestStatsRoundsToOneDecimal(t *testing.T) {
	repo := &fakeRepo{totalUnits: 3, occupyingNow: 1, occupyingPrior: 3}
	svc := serviceAt(repo, date(2026, time.September, 15))

	stats, err := svc.Stats(context.Background(), authz.ScopeAll(), nil)
	require.NoError(t, err)
	assert.Equal(t, 33.3, stats.OccupancyRate)
	require.NotNil(t, stats.TenantChangePercent)
	assert.Equal(t, -66.7, *stats.TenantChangePercent)
}

func TestIncomeTrendMonthBuckets(t *testing.T) {
	// September 2026 starts on a Tuesday; the clipped Monday weeks are
	// 1-6, 7-13, 14-20, 21-27 and 28-30.
	repo := &fakeRepo{
		income: []incomeEvent{
			{date: date(2026, time.September, 1), amount: 100},
			{date: date(2026, time.September, 6), amount: 50},
			{date: date(2026, time.September, 10), amount: 200},
			{date: date(2026, time.September, 30), amount: 75},
			// Outside the window, must not leak into any bucket.
			{date: date(2026, time.August, 31), amount: 999},
			{date: date(2026, time.October, 1), amount: 999},
		},
	}
	svc := serviceAt(repo, date(2026, time.September, 15))

	trend, err := svc.IncomeTrend(context.Background(), authz.ScopeAll(), nil, PeriodMonth)
	require.NoError(t, err)

	require.Len(t, trend.Items, 5)
	assert.Equal(t, "Minggu 1", trend.Items[0].Label)
	assert.Equal(t, "Minggu 5", trend.Items[4].Label)
	assert.Equal(t, "Bulan Sep 2026", trend.Period)

	assert.Equal(t, int64(150), trend.Items[0].Amount)
	assert.Equal(t, int64(200), trend.Items[1].Amount)
	assert.Equal(t, int64(0), trend.Items[2].Amount)
	assert.Equal(t, int64(75), trend.Items[4].Amount)

	var sum int64
	for _, item := range trend.Items {
		sum += item.Amount
	}
	assert.Equal(t, sum, trend.Total)
	assert.Equal(t, int64(425), trend.Total)
}

func TestIncomeTrendEmptyLedger(t *testing.T) {
	repo := &fakeRepo{}
	svc := serviceAt(repo, date(2026, time.September, 15))

	trend, err := svc.IncomeTrend(context.Background(), authz.ScopeAll(), nil, PeriodMonth)
	require.NoError(t, err)

	require.Len(t, trend.Items, 5)
	assert.Equal(t, int64(0), trend.Total)
	for _, item := range trend.Items {
		assert.Equal(t, int64(0), item.Amount)
	}
}

func TestIncomeTrendSemesterLabels(t *testing.T) {
	repo := &fakeRepo{}
	svc := serviceAt(repo, date(2026, time.September, 15))

	trend, err := svc.IncomeTrend(context.Background(), authz.ScopeAll(), nil, PeriodSemester)
	require.NoError(t, err)

	assert.Equal(t, "Semester 2 2026", trend.Period)
	require.NotEmpty(t, trend.Items)
	// The window starts July 1, a Wednesday, so the first clipped week
	// begins in July.
	assert.Equal(t, "Jul W1", trend.Items[0].Label)
}

func TestIncomeTrendRejectsUnknownPeriod(t *testing.T) {
	repo := &fakeRepo{}
	svc := serviceAt(repo, date(2026, time.September, 15))

	_, err := svc.IncomeTrend(context.Background(), authz.ScopeAll(), nil, "decade")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTrackerClassification(t *testing.T) {
	paid := TrackerTenant{ID: uuid.New(), Name: "Andi Wijaya", Phone: "081234567890", KostName: "Melati"}
	unpaid := TrackerTenant{ID: uuid.New(), Name: "Budi", Phone: "081234567891", KostName: "Melati"}

	repo := &fakeRepo{
		tenants: []TrackerTenant{paid, unpaid},
		lastRent: map[uuid.UUID]time.Time{
			paid.ID: date(2026, time.September, 3),
		},
	}
	svc := serviceAt(repo, date(2026, time.September, 15))

	tracker, err := svc.Tracker(context.Background(), authz.ScopeAll(), nil, 10)
	require.NoError(t, err)
	require.Len(t, tracker.Items, 2)

	assert.Equal(t, "Lunas", tracker.Items[0].Status.Label)
	assert.Equal(t, "success", tracker.Items[0].Status.Type)
	assert.Equal(t, "AW", tracker.Items[0].Initials)
	assert.Equal(t, "B", tracker.Items[1].Initials)

	// Before the 25th an unpaid tenant is only pending.
	assert.Equal(t, "Menunggu", tracker.Items[1].Status.Label)
	assert.Equal(t, "warning", tracker.Items[1].Status.Type)

	assert.Equal(t, "25 Sep 2026", tracker.Items[0].DueDate)
	assert.Equal(t, "orange", tracker.Items[0].Color)
	assert.Equal(t, "cyan", tracker.Items[1].Color)
}

func TestTrackerOverdueAfterDue(t *testing.T) {
	unpaid := TrackerTenant{ID: uuid.New(), Name: "Citra Dewi", Phone: "081234567892", KostName: "Melati"}
	stale := TrackerTenant{ID: uuid.New(), Name: "Dodi", Phone: "081234567893", KostName: "Melati"}

	repo := &fakeRepo{
		tenants: []TrackerTenant{unpaid, stale},
		lastRent: map[uuid.UUID]time.Time{
			// Last paid the previous month: counts as unpaid now.
			stale.ID: date(2026, time.August, 20),
		},
	}
	svc := serviceAt(repo, date(2026, time.September, 26))

	tracker, err := svc.Tracker(context.Background(), authz.ScopeAll(), nil, 10)
	require.NoError(t, err)

	for _, item := range tracker.Items {
		assert.Equal(t, "Terlambat", item.Status.Label)
		assert.Equal(t, "danger", item.Status.Type)
		assert.Equal(t, "Tagih", item.Action)
	}

	// Past the 25th the due date rolls into next month.
	assert.Equal(t, "25 Okt 2026", tracker.Items[0].DueDate)
}

func TestTrackerUsesRoomNumberWhenPresent(t *testing.T) {
	room := "A-204"
	withRoom := TrackerTenant{ID: uuid.New(), Name: "Eka", Phone: "081234567894", RoomNumber: &room, KostName: "Melati"}
	withoutRoom := TrackerTenant{ID: uuid.New(), Name: "Fajar", Phone: "081234567895", KostName: "Melati"}

	repo := &fakeRepo{tenants: []TrackerTenant{withRoom, withoutRoom}}
	svc := serviceAt(repo, date(2026, time.September, 10))

	tracker, err := svc.Tracker(context.Background(), authz.ScopeAll(), nil, 10)
	require.NoError(t, err)

	assert.Equal(t, "A-204", tracker.Items[0].Room)
	assert.Equal(t, "M-102", tracker.Items[1].Room)
}

func TestTrackerHandlesMultiByteNames(t *testing.T) {
	tenant := TrackerTenant{ID: uuid.New(), Name: "Ömer Çelik", Phone: "081234567896", KostName: "Ération"}

	repo := &fakeRepo{tenants: []TrackerTenant{tenant}}
	svc := serviceAt(repo, date(2026, time.September, 10))

	tracker, err := svc.Tracker(context.Background(), authz.ScopeAll(), nil, 10)
	require.NoError(t, err)

	item := tracker.Items[0]
	assert.Equal(t, "ÖÇ", item.Initials)
	assert.Equal(t, "É-101", item.Room)
	assert.True(t, utf8.ValidString(item.Initials))
	assert.True(t, utf8.ValidString(item.Room))
}
