// AngelaMos | 2026
// entity.go

package ledger

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

const (
	CategoryRent = "rent"
	CategoryDP   = "dp"
)

// Entry is a single ledger record. region_id is always resolved
// server-side from the kost and never taken from the caller. due_date is
// set only on down-payment entries.
type Entry struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	KostID          *uuid.UUID `db:"kost_id" json:"kost_id,omitempty"`
	TenantID        *uuid.UUID `db:"tenant_id" json:"tenant_id,omitempty"`
	RegionID        uuid.UUID  `db:"region_id" json:"region_id"`
	Type            string     `db:"type" json:"type"`
	Category        string     `db:"category" json:"category"`
	Amount          int64      `db:"amount" json:"amount"`
	TransactionDate time.Time  `db:"transaction_date" json:"transaction_date"`
	Description     *string    `db:"description" json:"description,omitempty"`
	DueDate         *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
