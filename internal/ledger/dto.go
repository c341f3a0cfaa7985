// AngelaMos | 2026
// dto.go

package ledger

import (
	"time"

	"github.com/google/uuid"
)

type ListEntriesParams struct {
	KostID   *uuid.UUID
	TenantID *uuid.UUID
	Type     string
	Category string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type RecordPaymentRequest struct {
	KostID          uuid.UUID `json:"kost_id" validate:"required"`
	TenantID        uuid.UUID `json:"tenant_id" validate:"required"`
	Amount          int64     `json:"amount" validate:"required,min=1"`
	TransactionDate time.Time `json:"transaction_date" validate:"required"`
	Description     *string   `json:"description" validate:"omitempty,max=500"`
}

type RecordExpenseRequest struct {
	KostID          *uuid.UUID `json:"kost_id"`
	RegionID        *uuid.UUID `json:"region_id"`
	Category        string     `json:"category" validate:"required,min=2,max=50"`
	Amount          int64      `json:"amount" validate:"required,min=1"`
	TransactionDate time.Time  `json:"transaction_date" validate:"required"`
	Description     *string    `json:"description" validate:"omitempty,max=500"`
}
