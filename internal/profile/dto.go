// AngelaMos | 2026
// dto.go

package profile

import (
	"time"

	"github.com/google/uuid"
)

type CreateProfileRequest struct {
	SubjectUID string      `json:"subject_uid" validate:"required,min=1,max=128"`
	Name       string      `json:"name"        validate:"required,min=1,max=100"`
	Role       string      `json:"role"        validate:"required,oneof=admin it"`
	RegionIDs  []uuid.UUID `json:"region_ids"  validate:"omitempty,dive,required"`
}

type ProfileWithEmail struct {
	Profile
	Email string
}

type ProfileResponse struct {
	ID         uuid.UUID  `json:"id"`
	SubjectUID string     `json:"subject_uid"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	RegionID   *uuid.UUID `json:"region_id,omitempty"`
	Email      string     `json:"email,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ProfileListResponse struct {
	Items []ProfileResponse `json:"items"`
}

func ToProfileResponse(p *Profile, regionID *uuid.UUID) ProfileResponse {
	return ProfileResponse{
		ID:         p.ID,
		SubjectUID: p.SubjectUID,
		Name:       p.Name,
		Role:       p.Role,
		RegionID:   regionID,
		CreatedAt:  p.CreatedAt,
	}
}

func ToProfileListResponse(profiles []ProfileWithEmail) ProfileListResponse {
	items := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp := ToProfileResponse(&p.Profile, nil)
		resp.Email = p.Email
		items = append(items, resp)
	}
	return ProfileListResponse{Items: items}
}
