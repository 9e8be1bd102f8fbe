package events

import (
	"time"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMemberRegistered        EventType = "member_registered"
	EventMemberSectorTransferred EventType = "member_sector_transferred"
	EventMemberDeactivated       EventType = "member_deactivated"
	EventMemberDeceased          EventType = "member_deceased"
	EventFamilyDissolved         EventType = "family_dissolved"
)

// Event represents a domain event emitted by services. OperatorID identifies
// the operator (human or system) whose action produced the event.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	SubjectID  string      `json:"subject_id"`
	OperatorID string      `json:"operator_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// MemberRegisteredPayload payload.
type MemberRegisteredPayload struct {
	MemberNo string `json:"member_no"`
	FullName string `json:"full_name"`
	SectorID string `json:"sector_id"`
	FamilyID string `json:"family_id"`
}

// SectorTransferredPayload payload.
type SectorTransferredPayload struct {
	FromSectorID string    `json:"from_sector_id"`
	ToSectorID   string    `json:"to_sector_id"`
	TransferDate time.Time `json:"transfer_date"`
	Reason       string    `json:"reason,omitempty"`
}

// MemberDeactivatedPayload payload.
type MemberDeactivatedPayload struct {
	Reason string `json:"reason,omitempty"`
}

// MemberDeceasedPayload payload.
type MemberDeceasedPayload struct {
	DeceasedDate time.Time `json:"deceased_date"`
}

// FamilyDissolvedPayload payload.
type FamilyDissolvedPayload struct {
	Status            domain.FamilyStatus `json:"status"`
	DissolutionReason string              `json:"dissolution_reason"`
	DissolutionDate   time.Time           `json:"dissolution_date"`
}
