// AngelaMos | 2026
// entity.go

package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of tenant lifecycle states. Occupancy is a
// property of the status plus the is_active flag, never tracked separately.
type Status string

const (
	StatusActive     Status = "active"
	StatusDP         Status = "dp"
	StatusInactive   Status = "inactive"
	StatusMovedOut   Status = "moved_out"
	StatusLate       Status = "late"
	StatusRenovation Status = "renovation"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDP, StatusInactive,
		StatusMovedOut, StatusLate, StatusRenovation:
		return true
	}
	return false
}

// Occupying reports whether the status holds a unit. Combined with
// is_active it decides what counts against a kost's capacity.
func (s Status) Occupying() bool {
	return s == StatusActive || s == StatusDP
}

type Tenant struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	KostID      uuid.UUID  `db:"kost_id" json:"kost_id"`
	Name        string     `db:"name" json:"name"`
	Phone       string     `db:"phone" json:"phone"`
	RoomNumber  *string    `db:"room_number" json:"room_number,omitempty"`
	RentPrice   *int64     `db:"rent_price" json:"rent_price,omitempty"`
	FeeTrash    int64      `db:"fee_trash" json:"fee_trash"`
	FeeSecurity int64      `db:"fee_security" json:"fee_security"`
	FeeAdmin    int64      `db:"fee_admin" json:"fee_admin"`
	Status      Status     `db:"status" json:"status"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	StartDate   *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Occupying reports whether this record currently holds a unit.
func (t *Tenant) Occupying() bool {
	return t.IsActive && t.Status.Occupying()
}

// FeeSum is the fixed monthly fee component added on top of rent or
// deposit amounts.
func (t *Tenant) FeeSum() int64 {
	return t.FeeTrash + t.FeeSecurity + t.FeeAdmin
}
