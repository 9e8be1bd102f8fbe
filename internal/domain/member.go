package domain

import "time"

// Gender enumerates member gender codes.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// BloodType enumerates recorded blood types.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// MembershipStatus enumerates congregation membership states.
type MembershipStatus string

const (
	MembershipStatusFull        MembershipStatus = "FULL"
	MembershipStatusPreparation MembershipStatus = "PREPARATION"
	MembershipStatusTransferIn  MembershipStatus = "TRANSFER_IN"
	MembershipStatusTransferOut MembershipStatus = "TRANSFER_OUT"
)

// FamilyRole enumerates a member's role within their household.
type FamilyRole string

const (
	FamilyRoleHusband FamilyRole = "HUSBAND"
	FamilyRoleWife    FamilyRole = "WIFE"
	FamilyRoleChild   FamilyRole = "CHILD"
	FamilyRoleParent  FamilyRole = "PARENT"
	FamilyRoleOther   FamilyRole = "OTHER"
)

// Member is the aggregate for one tracked person.
//
// MemberNo is the NIJ. It is assigned once by the allocator at registration
// and never changes afterwards, no matter how the row is edited.
type Member struct {
	ID               string
	MemberNo         string
	FamilyID         string
	CurrentSectorID  string
	FullName         string
	Gender           Gender
	FamilyRole       FamilyRole
	BirthOrder       *int16
	BloodType        *BloodType
	DateOfBirth      time.Time
	PhoneNumber      string
	Email            string
	BaptismDate      *time.Time
	SidiDate         *time.Time
	MarriageDate     *time.Time
	MembershipStatus MembershipStatus
	IsActive         bool
	InactiveReason   *string
	IsDeceased       bool
	DeceasedDate     *time.Time
	DeceasedReason   string
	PhotoKey         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Age returns full years at the given reference date.
func (m *Member) Age(at time.Time) int {
	years := at.Year() - m.DateOfBirth.Year()
	anniversary := m.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
