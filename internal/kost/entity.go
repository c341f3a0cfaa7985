// AngelaMos | 2026
// entity.go

package kost

import (
	"time"

	"github.com/google/uuid"
)

type Kost struct {
	ID         uuid.UUID `db:"id" json:"id"`
	RegionID   uuid.UUID `db:"region_id" json:"region_id"`
	Name       string    `db:"name" json:"name"`
	Address    string    `db:"address" json:"address"`
	TotalUnits int       `db:"total_units" json:"total_units"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
