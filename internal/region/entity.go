// AngelaMos | 2026
// entity.go

package region

import (
	"time"

	"github.com/google/uuid"
)

type Region struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
