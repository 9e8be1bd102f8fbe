package domain

import "time"

// Transfer reasons recorded by automatic ledger capture.
const (
	TransferReasonInitial      = "initial registration"
	TransferReasonSectorChange = "sector change"
)

// SectorHistory is one immutable entry of the sector-assignment ledger.
// Entries are appended on first registration and on every sector change and
// are never updated or deleted. FromSectorID is nil only on the founding
// entry. The BIGSERIAL ID doubles as the insertion-order tie-break when
// several entries share a transfer date.
type SectorHistory struct {
	ID           int64
	MemberID     string
	FromSectorID *string
	ToSectorID   string
	TransferDate time.Time
	Reason       string
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
}
