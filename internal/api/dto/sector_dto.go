package dto

import (
	"time"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// SectorPayload is the shared shape of sector create/update requests.
type SectorPayload struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// SectorResponse representation.
type SectorResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSectorResponse maps a domain sector.
func NewSectorResponse(sector *domain.Sector) SectorResponse {
	return SectorResponse{
		ID:          sector.ID,
		Name:        sector.Name,
		Description: sector.Description,
		CreatedAt:   sector.CreatedAt,
		UpdatedAt:   sector.UpdatedAt,
	}
}
