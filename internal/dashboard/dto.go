// AngelaMos | 2026
// dto.go

package dashboard

import (
	"time"

	"github.com/google/uuid"
)

type Stats struct {
	TotalTenants        int      `json:"total_tenants"`
	TotalUnits          int      `json:"total_units"`
	EmptyUnits          int      `json:"empty_units"`
	OccupancyRate       float64  `json:"occupancy_rate"`
	TenantChangePercent *float64 `json:"tenant_change_percent"`
}

type TrendItem struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type TrendResponse struct {
	Period string      `json:"period"`
	Items  []TrendItem `json:"items"`
	Total  int64       `json:"total"`
}

type PaymentStatus struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

type TrackerItem struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Initials string        `json:"initials"`
	Phone    string        `json:"phone"`
	Room     string        `json:"room"`
	Floor    string        `json:"floor"`
	Status   PaymentStatus `json:"status"`
	DueDate  string        `json:"due_date"`
	Action   string        `json:"action"`
	Color    string        `json:"color"`
}

type TrackerResponse struct {
	Items []TrackerItem `json:"items"`
	Total int           `json:"total"`
}

// TrackerTenant is the row shape the tracker reads: the tenant plus its
// kost name for the room fallback.
type TrackerTenant struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Phone      string    `db:"phone"`
	RoomNumber *string   `db:"room_number"`
	KostName   string    `db:"kost_name"`
}

type queryWindow struct {
	Start time.Time
	End   time.Time
}
