// AngelaMos | 2026
// dto.go

package tenant

import (
	"time"

	"github.com/google/uuid"
)

type CreateTenantRequest struct {
	KostID      uuid.UUID  `json:"kost_id" validate:"required"`
	Name        string     `json:"name" validate:"required,min=2,max=150"`
	Phone       string     `json:"phone" validate:"required"`
	RoomNumber  *string    `json:"room_number" validate:"omitempty,max=20"`
	RentPrice   *int64     `json:"rent_price" validate:"omitempty,min=0"`
	FeeTrash    int64      `json:"fee_trash" validate:"min=0"`
	FeeSecurity int64      `json:"fee_security" validate:"min=0"`
	FeeAdmin    int64      `json:"fee_admin" validate:"min=0"`
	Status      Status     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	DPAmount    *int64     `json:"dp_amount"`
	DPDueDate   *time.Time `json:"dp_due_date"`
}

// UpdateTenantRequest carries partial updates. Nil pointers leave the
// stored value untouched.
type UpdateTenantRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=2,max=150"`
	Phone       *string    `json:"phone"`
	RoomNumber  *string    `json:"room_number" validate:"omitempty,max=20"`
	RentPrice   *int64     `json:"rent_price" validate:"omitempty,min=0"`
	FeeTrash    *int64     `json:"fee_trash" validate:"omitempty,min=0"`
	FeeSecurity *int64     `json:"fee_security" validate:"omitempty,min=0"`
	FeeAdmin    *int64     `json:"fee_admin" validate:"omitempty,min=0"`
	Status      *Status    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	DPAmount    *int64     `json:"dp_amount"`
	DPDueDate   *time.Time `json:"dp_due_date"`
}

type ListTenantsParams struct {
	KostID   *uuid.UUID
	Search   string
	Status   Status
	Page     int
	PageSize int
}
