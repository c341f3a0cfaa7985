// AngelaMos | 2026
// dto.go

package kost

import "github.com/google/uuid"

type CreateKostRequest struct {
	RegionID   uuid.UUID `json:"region_id" validate:"required"`
	Name       string    `json:"name" validate:"required,min=2,max=150"`
	Address    string    `json:"address" validate:"required,min=5,max=300"`
	TotalUnits int       `json:"total_units" validate:"required,min=1,max=1000"`
	Notes      *string   `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateKostRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=150"`
	Address    string  `json:"address" validate:"required,min=5,max=300"`
	TotalUnits int     `json:"total_units" validate:"required,min=1,max=1000"`
	Notes      *string `json:"notes" validate:"omitempty,max=1000"`
}

type KostResponse struct {
	Kost
	OccupiedUnits int `json:"occupied_units"`
}

type ListKostsParams struct {
	Page     int
	PageSize int
	Search   string
}
