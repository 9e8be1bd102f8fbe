package dto

import (
	"time"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// FamilyPayload is the shared shape of family create/update requests.
type FamilyPayload struct {
	SectorID          string  `json:"sector_id" validate:"required,uuid"`
	FamilyName        string  `json:"family_name" validate:"required,max=200"`
	HeadOfFamilyID    *string `json:"head_of_family_id" validate:"omitempty,uuid"`
	Status            string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DISSOLVED"`
	DissolutionReason *string `json:"dissolution_reason" validate:"omitempty,max=100"`
	DissolutionDate   *string `json:"dissolution_date" validate:"omitempty,datetime=2006-01-02"`
	AddressStreet     string  `json:"address_street" validate:"required,max=255"`
	AddressCity       string  `json:"address_city" validate:"required,max=100"`
	AddressProvince   string  `json:"address_province" validate:"required,max=100"`
	AddressPostalCode string  `json:"address_postal_code" validate:"omitempty,max=10"`
	PhoneNumber       string  `json:"phone_number" validate:"required,max=20"`
}

// DissolveFamilyRequest payload.
type DissolveFamilyRequest struct {
	Reason string `json:"reason" validate:"required,max=100"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
}

// FamilyResponse is the household representation.
type FamilyResponse struct {
	ID                string    `json:"id"`
	SectorID          string    `json:"sector_id"`
	FamilyName        string    `json:"family_name"`
	HeadOfFamilyID    *string   `json:"head_of_family_id"`
	Status            string    `json:"status"`
	DissolutionReason *string   `json:"dissolution_reason"`
	DissolutionDate   *string   `json:"dissolution_date"`
	AddressStreet     string    `json:"address_street"`
	AddressCity       string    `json:"address_city"`
	AddressProvince   string    `json:"address_province"`
	AddressPostalCode string    `json:"address_postal_code"`
	PhoneNumber       string    `json:"phone_number"`
	FullAddress       string    `json:"full_address"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewFamilyResponse maps a domain family.
func NewFamilyResponse(family *domain.Family) FamilyResponse {
	return FamilyResponse{
		ID:                family.ID,
		SectorID:          family.SectorID,
		FamilyName:        family.FamilyName,
		HeadOfFamilyID:    family.HeadOfFamilyID,
		Status:            string(family.Status),
		DissolutionReason: family.DissolutionReason,
		DissolutionDate:   FormatOptionalDate(family.DissolutionDate),
		AddressStreet:     family.AddressStreet,
		AddressCity:       family.AddressCity,
		AddressProvince:   family.AddressProvince,
		AddressPostalCode: family.AddressPostalCode,
		PhoneNumber:       family.PhoneNumber,
		FullAddress:       family.FullAddress(),
		CreatedAt:         family.CreatedAt,
		UpdatedAt:         family.UpdatedAt,
	}
}
