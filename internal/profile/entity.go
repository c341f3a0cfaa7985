// AngelaMos | 2026
// entity.go

package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile links an external identity-provider subject to a role inside this
// system. Region visibility for non-owners comes from the user_regions
// assignment table, not from the profile row itself.
type Profile struct {
	ID         uuid.UUID `db:"id"`
	SubjectUID string    `db:"subject_uid"`
	Name       string    `db:"name"`
	Role       string    `db:"role"`
	CreatedAt  time.Time `db:"created_at"`
}

const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleIT    = "it"
)

func (p *Profile) IsOwner() bool {
	return p.Role == RoleOwner
}

func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleAdmin || role == RoleIT
}

// Assignment is one row of the user ↔ region many-to-many join.
type Assignment struct {
	UserID     uuid.UUID `db:"user_id"`
	RegionID   uuid.UUID `db:"region_id"`
	AssignedAt time.Time `db:"assigned_at"`
}
