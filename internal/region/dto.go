// AngelaMos | 2026
// dto.go

package region

type CreateRegionRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type UpdateRegionRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
