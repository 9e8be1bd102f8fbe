package domain

import "time"

// FamilyStatus enumerates household lifecycle states. Families are never
// physically deleted; dissolution is a status transition.
type FamilyStatus string

const (
	FamilyStatusActive    FamilyStatus = "ACTIVE"
	FamilyStatusInactive  FamilyStatus = "INACTIVE"
	FamilyStatusDissolved FamilyStatus = "DISSOLVED"
)

// Family models a household owned by one sector.
type Family struct {
	ID                string
	SectorID          string
	FamilyName        string
	HeadOfFamilyID    *string
	Status            FamilyStatus
	DissolutionReason *string
	DissolutionDate   *time.Time
	AddressStreet     string
	AddressCity       string
	AddressProvince   string
	AddressPostalCode string
	PhoneNumber       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FullAddress joins the address parts for display.
func (f *Family) FullAddress() string {
	addr := f.AddressStreet + ", " + f.AddressCity + ", " + f.AddressProvince
	if f.AddressPostalCode != "" {
		addr += ", " + f.AddressPostalCode
	}
	return addr
}
