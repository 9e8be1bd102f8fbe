package dto

import (
	"time"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// MemberPayload is the shared shape of create and update requests. The
// member identifier is never part of the payload; the allocator owns it.
type MemberPayload struct {
	FamilyID         string  `json:"family_id" validate:"required,uuid"`
	SectorID         string  `json:"sector_id" validate:"required,uuid"`
	FullName         string  `json:"full_name" validate:"required,max=200"`
	Gender           string  `json:"gender" validate:"required,oneof=M F"`
	FamilyRole       string  `json:"family_role" validate:"omitempty,oneof=HUSBAND WIFE CHILD PARENT OTHER"`
	BirthOrder       *int16  `json:"birth_order" validate:"omitempty,min=1"`
	BloodType        *string `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	DateOfBirth      string  `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	PhoneNumber      string  `json:"phone_number" validate:"omitempty,max=20"`
	Email            string  `json:"email" validate:"omitempty,email"`
	BaptismDate      *string `json:"baptism_date" validate:"omitempty,datetime=2006-01-02"`
	SidiDate         *string `json:"sidi_date" validate:"omitempty,datetime=2006-01-02"`
	MarriageDate     *string `json:"marriage_date" validate:"omitempty,datetime=2006-01-02"`
	MembershipStatus string  `json:"membership_status" validate:"omitempty,oneof=FULL PREPARATION TRANSFER_IN TRANSFER_OUT"`
	PhotoKey         string  `json:"photo_key"`
}

// TransferMemberRequest payload.
type TransferMemberRequest struct {
	ToSectorID   string `json:"to_sector_id" validate:"required,uuid"`
	TransferDate string `json:"transfer_date" validate:"required,datetime=2006-01-02"`
	Reason       string `json:"reason" validate:"omitempty,max=200"`
	Notes        string `json:"notes"`
}

// DeactivateMemberRequest payload.
type DeactivateMemberRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=100"`
}

// DeceaseMemberRequest payload.
type DeceaseMemberRequest struct {
	DeceasedDate string `json:"deceased_date" validate:"required,datetime=2006-01-02"`
	Reason       string `json:"reason"`
}

// MemberResponse is the full member representation.
type MemberResponse struct {
	ID               string    `json:"id"`
	MemberNo         string    `json:"member_no"`
	FamilyID         string    `json:"family_id"`
	CurrentSectorID  string    `json:"current_sector_id"`
	FullName         string    `json:"full_name"`
	Gender           string    `json:"gender"`
	FamilyRole       string    `json:"family_role"`
	BirthOrder       *int16    `json:"birth_order"`
	BloodType        *string   `json:"blood_type"`
	DateOfBirth      string    `json:"date_of_birth"`
	PhoneNumber      string    `json:"phone_number"`
	Email            string    `json:"email"`
	BaptismDate      *string   `json:"baptism_date"`
	SidiDate         *string   `json:"sidi_date"`
	MarriageDate     *string   `json:"marriage_date"`
	MembershipStatus string    `json:"membership_status"`
	IsActive         bool      `json:"is_active"`
	InactiveReason   *string   `json:"inactive_reason"`
	IsDeceased       bool      `json:"is_deceased"`
	DeceasedDate     *string   `json:"deceased_date"`
	DeceasedReason   string    `json:"deceased_reason,omitempty"`
	PhotoKey         string    `json:"photo_key,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SectorHistoryResponse is one ledger entry.
type SectorHistoryResponse struct {
	ID           int64     `json:"id"`
	MemberID     string    `json:"member_id"`
	FromSectorID *string   `json:"from_sector_id"`
	ToSectorID   string    `json:"to_sector_id"`
	TransferDate string    `json:"transfer_date"`
	Reason       string    `json:"reason"`
	Notes        string    `json:"notes,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewMemberResponse maps a domain member.
func NewMemberResponse(member *domain.Member) MemberResponse {
	var bloodType *string
	if member.BloodType != nil {
		bt := string(*member.BloodType)
		bloodType = &bt
	}
	return MemberResponse{
		ID:               member.ID,
		MemberNo:         member.MemberNo,
		FamilyID:         member.FamilyID,
		CurrentSectorID:  member.CurrentSectorID,
		FullName:         member.FullName,
		Gender:           string(member.Gender),
		FamilyRole:       string(member.FamilyRole),
		BirthOrder:       member.BirthOrder,
		BloodType:        bloodType,
		DateOfBirth:      FormatDate(member.DateOfBirth),
		PhoneNumber:      member.PhoneNumber,
		Email:            member.Email,
		BaptismDate:      FormatOptionalDate(member.BaptismDate),
		SidiDate:         FormatOptionalDate(member.SidiDate),
		MarriageDate:     FormatOptionalDate(member.MarriageDate),
		MembershipStatus: string(member.MembershipStatus),
		IsActive:         member.IsActive,
		InactiveReason:   member.InactiveReason,
		IsDeceased:       member.IsDeceased,
		DeceasedDate:     FormatOptionalDate(member.DeceasedDate),
		DeceasedReason:   member.DeceasedReason,
		PhotoKey:         member.PhotoKey,
		CreatedAt:        member.CreatedAt,
		UpdatedAt:        member.UpdatedAt,
	}
}

// NewSectorHistoryResponse maps a ledger entry.
func NewSectorHistoryResponse(entry *domain.SectorHistory) SectorHistoryResponse {
	return SectorHistoryResponse{
		ID:           entry.ID,
		MemberID:     entry.MemberID,
		FromSectorID: entry.FromSectorID,
		ToSectorID:   entry.ToSectorID,
		TransferDate: FormatDate(entry.TransferDate),
		Reason:       entry.Reason,
		Notes:        entry.Notes,
		CreatedBy:    entry.CreatedBy,
		CreatedAt:    entry.CreatedAt,
	}
}
