// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/core"
)

const (
	PeriodMonth    = "month"
	PeriodSemester = "semester"
	PeriodYear     = "year"
)

// monthAbbr holds the Indonesian month abbreviations used in labels.
var monthAbbr = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

var trackerColors = [5]string{"orange", "cyan", "pink", "purple", "blue"}

// EntrySource is the slice of the ledger repository the aggregations
// read from.
type EntrySource interface {
	IncomeBetween(ctx context.Context, scope authz.Scope, kostID *uuid.UUID, start, end time.Time) (int64, error)
	LatestRentDates(ctx context.Context, tenantIDs []uuid.UUID) (map[uuid.UUID]time.Time, error)
}

type Service struct {
	repo    Repository
	entries EntrySource
	now     func() time.Time
}

func NewService(repo Repository, entries EntrySource) *Service {
	return &Service{repo: repo, entries: entries, now: time.Now}
}

// Stats summarizes occupancy for the scope. The change percentage
// compares today's occupying count against the count of tenants that
// already existed at the start of the previous month; it is nil when
// that baseline is zero.
func (s *Service) Stats(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
) (*Stats, error) {
	totalUnits, err := s.repo.TotalUnits(ctx, scope, kostID)
	if err != nil {
		return nil, err
	}

	totalTenants, err := s.repo.OccupyingCount(ctx, scope, kostID, nil)
	if err != nil {
		return nil, err
	}

	emptyUnits := totalUnits - totalTenants
	if emptyUnits < 0 {
		emptyUnits = 0
	}

	occupancyRate := 0.0
	if totalUnits > 0 {
		occupancyRate = round1(float64(totalTenants) / float64(totalUnits) * 100)
	}

	today := s.now()
	prevMonthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).
		AddDate(0, -1, 0)

	baseline, err := s.repo.OccupyingCount(ctx, scope, kostID, &prevMonthStart)
	if err != nil {
		return nil, err
	}

	var change *float64
	if baseline > 0 {
		delta := round1(float64(totalTenants-baseline) / float64(baseline) * 100)
		change = &delta
	}

	return &Stats{
		TotalTenants:        totalTenants,
		TotalUnits:          totalUnits,
		EmptyUnits:          emptyUnits,
		OccupancyRate:       occupancyRate,
		TenantChangePercent: change,
	}, nil
}

// IncomeTrend sums income per calendar week across the period window.
// Weeks start on Monday; the first and last weeks are clipped to the
// window edges so no out-of-window income leaks into the buckets.
func (s *Service) IncomeTrend(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
	period string,
) (*TrendResponse, error) {
	today := s.now()

	window, periodLabel, err := s.periodWindow(today, period)
	if err != nil {
		return nil, err
	}

	// Back up to the Monday of the week containing the window start.
	cursor := window.Start.AddDate(0, 0, -mondayOffset(window.Start))

	items := []TrendItem{}
	var total int64
	weekNum := 1

	for !cursor.After(window.End) {
		weekStart := cursor
		weekEnd := cursor.AddDate(0, 0, 6)

		if weekStart.Before(window.Start) {
			weekStart = window.Start
		}
		if weekEnd.After(window.End) {
			weekEnd = window.End
		}

		amount, err := s.entries.IncomeBetween(ctx, scope, kostID, weekStart, weekEnd)
		if err != nil {
			return nil, err
		}
		total += amount

		var label string
		if period == PeriodMonth {
			label = fmt.Sprintf("Minggu %d", weekNum)
		} else {
			weekOfMonth := (weekStart.Day()-1)/7 + 1
			label = fmt.Sprintf("%s W%d", monthAbbr[weekStart.Month()-1], weekOfMonth)
		}
		items = append(items, TrendItem{Label: label, Amount: amount})

		cursor = cursor.AddDate(0, 0, 7)
		weekNum++
	}

	return &TrendResponse{
		Period: periodLabel,
		Items:  items,
		Total:  total,
	}, nil
}

func (s *Service) periodWindow(today time.Time, period string) (queryWindow, string, error) {
	year, month := today.Year(), today.Month()
	loc := today.Location()

	switch period {
	case PeriodMonth:
		start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
		label := fmt.Sprintf("Bulan %s %d", monthAbbr[month-1], year)
		return queryWindow{Start: start, End: end}, label, nil

	case PeriodSemester:
		if month <= time.June {
			return queryWindow{
				Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
				End:   time.Date(year, time.June, 30, 0, 0, 0, 0, loc),
			}, fmt.Sprintf("Semester 1 %d", year), nil
		}
		return queryWindow{
			Start: time.Date(year, time.July, 1, 0, 0, 0, 0, loc),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, loc),
		}, fmt.Sprintf("Semester 2 %d", year), nil

	case PeriodYear:
		return queryWindow{
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, loc),
		}, fmt.Sprintf("Tahun %d", year), nil

	default:
		return queryWindow{}, "", fmt.Errorf(
			"period must be month, semester or year: %w", core.ErrInvalidInput)
	}
}

// Tracker classifies each occupying tenant's rent for the current month:
// paid when a rent entry lands in this month, overdue when none exists
// and the 25th has passed, pending otherwise.
func (s *Service) Tracker(
	ctx context.Context,
	scope authz.Scope,
	kostID *uuid.UUID,
	limit int,
) (*TrackerResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	tenants, err := s.repo.OccupyingTenants(ctx, scope, kostID, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(tenants))
	for i, t := range tenants {
		ids[i] = t.ID
	}
	lastPaid, err := s.entries.LatestRentDates(ctx, ids)
	if err != nil {
		return nil, err
	}

	today := s.now()
	dueDate := rentDueDate(today)
	dueLabel := fmt.Sprintf("%d %s %d", dueDate.Day(), monthAbbr[dueDate.Month()-1], dueDate.Year())

	items := make([]TrackerItem, len(tenants))
	for i, t := range tenants {
		paidAt, hasPayment := lastPaid[t.ID]
		paidThisMonth := hasPayment &&
			paidAt.Month() == today.Month() && paidAt.Year() == today.Year()

		var status PaymentStatus
		var action string
		switch {
		case paidThisMonth:
			status = PaymentStatus{Type: "success", Label: "Lunas"}
			action = "Detail"
		case today.Day() > 25:
			status = PaymentStatus{Type: "danger", Label: "Terlambat"}
			action = "Tagih"
		default:
			status = PaymentStatus{Type: "warning", Label: "Menunggu"}
			action = "Ingatkan"
		}

		room := fmt.Sprintf("%s-%d", firstRune(t.KostName), i+101)
		if t.RoomNumber != nil && *t.RoomNumber != "" {
			room = *t.RoomNumber
		}

		items[i] = TrackerItem{
			ID:       t.ID,
			Name:     t.Name,
			Initials: initials(t.Name),
			Phone:    t.Phone,
			Room:     room,
			Floor:    "Lantai 1",
			Status:   status,
			DueDate:  dueLabel,
			Action:   action,
			Color:    trackerColors[i%len(trackerColors)],
		}
	}

	return &TrackerResponse{Items: items, Total: len(items)}, nil
}

// rentDueDate is the 25th of the current month, or of the next month once
// the 25th has passed.
func rentDueDate(today time.Time) time.Time {
	due := time.Date(today.Year(), today.Month(), 25, 0, 0, 0, 0, today.Location())
	if today.Day() >= 25 {
		due = due.AddDate(0, 1, 0)
	}
	return due
}

// mondayOffset is the number of days since the most recent Monday.
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "?"
	}
	if len(parts) > 2 {
		parts = parts[:2]
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(firstRune(p))
	}
	return b.String()
}

// firstRune returns the upper-cased first rune, not byte, so multi-byte
// names render cleanly.
func firstRune(s string) string {
	if s == "" {
		return "R"
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return "R"
	}
	return strings.ToUpper(string(r))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
