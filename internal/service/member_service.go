package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Juliussaint/gmianugerah/internal/cache"
	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/events"
	"github.com/Juliussaint/gmianugerah/internal/repository"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// MemberService coordinates member registration, edits and sector transfers.
// Every mutation that touches current_sector_id runs in one transaction with
// its ledger append; the member row and its history can never diverge.
type MemberService struct {
	store       repository.Store
	allocator   *IdentifierAllocator
	memberCache *cache.MemberCache
	dispatcher  events.Dispatcher

	// systemOperator names the account that attributes automatic captures
	// (founding entries and generic-edit sector changes without an operator).
	systemOperator string
}

// MemberDependencies bundles collaborators for the member service.
type MemberDependencies struct {
	Store          repository.Store
	Allocator      *IdentifierAllocator
	Cache          *cache.MemberCache
	Dispatcher     events.Dispatcher
	SystemOperator string
}

// NewMemberService constructs the service.
func NewMemberService(deps MemberDependencies) *MemberService {
	return &MemberService{
		store:          deps.Store,
		allocator:      deps.Allocator,
		memberCache:    deps.Cache,
		dispatcher:     deps.Dispatcher,
		systemOperator: deps.SystemOperator,
	}
}

// MemberCreateInput describes a registration request. The identifier is
// deliberately absent; the allocator supplies it.
type MemberCreateInput struct {
	FamilyID         string
	SectorID         string
	FullName         string
	Gender           domain.Gender
	FamilyRole       domain.FamilyRole
	BirthOrder       *int16
	BloodType        *domain.BloodType
	DateOfBirth      time.Time
	PhoneNumber      string
	Email            string
	BaptismDate      *time.Time
	SidiDate         *time.Time
	MarriageDate     *time.Time
	MembershipStatus domain.MembershipStatus
	PhotoKey         string
}

// MemberUpdateInput describes a generic edit. Changing SectorID through this
// path still produces a ledger entry; the detection compares the locked row
// against the incoming value.
type MemberUpdateInput struct {
	FamilyID         string
	SectorID         string
	FullName         string
	Gender           domain.Gender
	FamilyRole       domain.FamilyRole
	BirthOrder       *int16
	BloodType        *domain.BloodType
	DateOfBirth      time.Time
	PhoneNumber      string
	Email            string
	BaptismDate      *time.Time
	SidiDate         *time.Time
	MarriageDate     *time.Time
	MembershipStatus domain.MembershipStatus
	PhotoKey         string
}

// TransferInput describes a deliberate sector transfer by an operator.
type TransferInput struct {
	ToSectorID   string
	TransferDate time.Time
	Reason       string
	Notes        string
}

// Register creates a member: allocates the NIJ, inserts the row and appends
// the founding ledger entry, all in one transaction.
func (s *MemberService) Register(ctx context.Context, input MemberCreateInput) (*domain.Member, error) {
	if details := validateMemberFields(input.FullName, input.FamilyRole, input.BirthOrder, input.DateOfBirth); details != nil {
		return nil, util.NewValidationError("invalid member payload", details)
	}

	member := &domain.Member{
		FamilyID:         input.FamilyID,
		CurrentSectorID:  input.SectorID,
		FullName:         strings.TrimSpace(input.FullName),
		Gender:           input.Gender,
		FamilyRole:       input.FamilyRole,
		BirthOrder:       input.BirthOrder,
		BloodType:        input.BloodType,
		DateOfBirth:      input.DateOfBirth,
		PhoneNumber:      input.PhoneNumber,
		Email:            input.Email,
		BaptismDate:      input.BaptismDate,
		SidiDate:         input.SidiDate,
		MarriageDate:     input.MarriageDate,
		MembershipStatus: input.MembershipStatus,
		IsActive:         true,
		PhotoKey:         input.PhotoKey,
	}
	if member.MembershipStatus == "" {
		member.MembershipStatus = domain.MembershipStatusFull
	}
	if member.FamilyRole == "" {
		member.FamilyRole = domain.FamilyRoleOther
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Sectors().GetByID(ctx, input.SectorID); err != nil {
			return notFoundOr(err, "sector")
		}
		family, err := tx.Families().GetByID(ctx, input.FamilyID)
		if err != nil {
			return notFoundOr(err, "family")
		}
		if err := s.checkFamilyStructure(ctx, tx, family.ID, member.FamilyRole, ""); err != nil {
			return err
		}

		recorder, err := s.resolveRecorder(ctx, tx, "")
		if err != nil {
			return err
		}

		memberNo, err := s.allocator.Next(ctx, tx.Members())
		if err != nil {
			return err
		}
		member.MemberNo = memberNo

		if err := tx.Members().Create(ctx, member); err != nil {
			return util.MapPgError(err)
		}

		founding := &domain.SectorHistory{
			MemberID:     member.ID,
			FromSectorID: nil,
			ToSectorID:   member.CurrentSectorID,
			TransferDate: member.CreatedAt,
			Reason:       domain.TransferReasonInitial,
			CreatedBy:    recorder,
		}
		return tx.History().Create(ctx, founding)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventMemberRegistered,
		SubjectID: member.ID,
		Payload: events.MemberRegisteredPayload{
			MemberNo: member.MemberNo,
			FullName: member.FullName,
			SectorID: member.CurrentSectorID,
			FamilyID: member.FamilyID,
		},
	})
	return member, nil
}

// Update applies a generic edit. If the edit changes the current sector the
// ledger entry is appended in the same transaction, attributed to the acting
// operator, or to the system operator when the edit comes from an
// administrative path without one.
func (s *MemberService) Update(ctx context.Context, memberID string, input MemberUpdateInput, operatorID string) (*domain.Member, error) {
	if details := validateMemberFields(input.FullName, input.FamilyRole, input.BirthOrder, input.DateOfBirth); details != nil {
		return nil, util.NewValidationError("invalid member payload", details)
	}

	var member *domain.Member
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Members().GetByIDForUpdate(ctx, memberID)
		if err != nil {
			return notFoundOr(err, "member")
		}
		if _, err := tx.Sectors().GetByID(ctx, input.SectorID); err != nil {
			return notFoundOr(err, "sector")
		}
		if input.FamilyID != current.FamilyID {
			if _, err := tx.Families().GetByID(ctx, input.FamilyID); err != nil {
				return notFoundOr(err, "family")
			}
		}
		if err := s.checkFamilyStructure(ctx, tx, input.FamilyID, input.FamilyRole, current.ID); err != nil {
			return err
		}

		oldSectorID := current.CurrentSectorID
		newSectorID := input.SectorID

		current.FamilyID = input.FamilyID
		current.CurrentSectorID = newSectorID
		current.FullName = strings.TrimSpace(input.FullName)
		current.Gender = input.Gender
		current.FamilyRole = input.FamilyRole
		current.BirthOrder = input.BirthOrder
		current.BloodType = input.BloodType
		current.DateOfBirth = input.DateOfBirth
		current.PhoneNumber = input.PhoneNumber
		current.Email = input.Email
		current.BaptismDate = input.BaptismDate
		current.SidiDate = input.SidiDate
		current.MarriageDate = input.MarriageDate
		current.MembershipStatus = input.MembershipStatus
		current.PhotoKey = input.PhotoKey

		if oldSectorID != newSectorID {
			recorder, err := s.resolveRecorder(ctx, tx, operatorID)
			if err != nil {
				return err
			}
			from := oldSectorID
			entry := &domain.SectorHistory{
				MemberID:     current.ID,
				FromSectorID: &from,
				ToSectorID:   newSectorID,
				TransferDate: today(),
				Reason:       domain.TransferReasonSectorChange,
				CreatedBy:    recorder,
			}
			if err := tx.History().Create(ctx, entry); err != nil {
				return util.MapPgError(err)
			}
		}

		if err := tx.Members().Update(ctx, current); err != nil {
			return util.MapPgError(err)
		}
		member = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.memberCache.Invalidate(ctx, memberID)
	return member, nil
}

// Transfer moves a member to another sector on behalf of an identified
// operator, appending the ledger entry and updating the member row
// atomically.
func (s *MemberService) Transfer(ctx context.Context, memberID string, input TransferInput, operatorID string) (*domain.Member, error) {
	if operatorID == "" {
		return nil, util.NewMissingRecorder(errors.New("transfer requires an operator identity"))
	}

	var member *domain.Member
	var fromSectorID string
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Members().GetByIDForUpdate(ctx, memberID)
		if err != nil {
			return notFoundOr(err, "member")
		}
		if input.ToSectorID == current.CurrentSectorID {
			return util.NewInvalidTransferTarget()
		}
		if _, err := tx.Sectors().GetByID(ctx, input.ToSectorID); err != nil {
			return notFoundOr(err, "sector")
		}
		recorder, err := s.resolveRecorder(ctx, tx, operatorID)
		if err != nil {
			return err
		}

		fromSectorID = current.CurrentSectorID
		from := fromSectorID
		entry := &domain.SectorHistory{
			MemberID:     current.ID,
			FromSectorID: &from,
			ToSectorID:   input.ToSectorID,
			TransferDate: input.TransferDate,
			Reason:       input.Reason,
			Notes:        input.Notes,
			CreatedBy:    recorder,
		}
		if err := tx.History().Create(ctx, entry); err != nil {
			return util.MapPgError(err)
		}

		current.CurrentSectorID = input.ToSectorID
		if err := tx.Members().Update(ctx, current); err != nil {
			return util.MapPgError(err)
		}
		member = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.memberCache.Invalidate(ctx, memberID)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventMemberSectorTransferred,
		SubjectID:  member.ID,
		OperatorID: operatorID,
		Payload: events.SectorTransferredPayload{
			FromSectorID: fromSectorID,
			ToSectorID:   input.ToSectorID,
			TransferDate: input.TransferDate,
			Reason:       input.Reason,
		},
	})
	return member, nil
}

// Get fetches a member, consulting the cache first.
func (s *MemberService) Get(ctx context.Context, memberID string) (*domain.Member, error) {
	if cached, ok := s.memberCache.Get(ctx, memberID); ok {
		return cached, nil
	}
	member, err := s.store.Members().GetByID(ctx, memberID)
	if err != nil {
		return nil, notFoundOr(err, "member")
	}
	s.memberCache.Set(ctx, member)
	return member, nil
}

// GetByMemberNo fetches a member by identifier.
func (s *MemberService) GetByMemberNo(ctx context.Context, memberNo string) (*domain.Member, error) {
	member, err := s.store.Members().GetByMemberNo(ctx, memberNo)
	if err != nil {
		return nil, notFoundOr(err, "member")
	}
	return member, nil
}

// List returns members matching the filter.
func (s *MemberService) List(ctx context.Context, filter repository.MemberFilter) ([]domain.Member, error) {
	return s.store.Members().ListWithFilter(ctx, filter)
}

// History returns the member's ledger entries in display order
// (transfer date descending).
func (s *MemberService) History(ctx context.Context, memberID string) ([]domain.SectorHistory, error) {
	if _, err := s.store.Members().GetByID(ctx, memberID); err != nil {
		return nil, notFoundOr(err, "member")
	}
	return s.store.History().ListByMember(ctx, memberID)
}

// Deactivate soft-ends a member's lifecycle. The row is never deleted.
func (s *MemberService) Deactivate(ctx context.Context, memberID, reason, operatorID string) (*domain.Member, error) {
	var member *domain.Member
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Members().GetByIDForUpdate(ctx, memberID)
		if err != nil {
			return notFoundOr(err, "member")
		}
		current.IsActive = false
		if reason != "" {
			current.InactiveReason = &reason
		}
		if err := tx.Members().Update(ctx, current); err != nil {
			return util.MapPgError(err)
		}
		member = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.memberCache.Invalidate(ctx, memberID)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventMemberDeactivated,
		SubjectID:  memberID,
		OperatorID: operatorID,
		Payload:    events.MemberDeactivatedPayload{Reason: reason},
	})
	return member, nil
}

// MarkDeceased records a member's death.
func (s *MemberService) MarkDeceased(ctx context.Context, memberID string, deceasedDate time.Time, deceasedReason, operatorID string) (*domain.Member, error) {
	var member *domain.Member
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Members().GetByIDForUpdate(ctx, memberID)
		if err != nil {
			return notFoundOr(err, "member")
		}
		if deceasedDate.IsZero() {
			return util.NewValidationError("invalid deceased payload", map[string]any{
				"deceased_date": "deceased date is required",
			})
		}
		if deceasedDate.Before(current.DateOfBirth) {
			return util.NewValidationError("invalid deceased payload", map[string]any{
				"deceased_date": "deceased date cannot precede date of birth",
			})
		}
		current.IsDeceased = true
		current.DeceasedDate = &deceasedDate
		current.DeceasedReason = deceasedReason
		if err := tx.Members().Update(ctx, current); err != nil {
			return util.MapPgError(err)
		}
		member = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.memberCache.Invalidate(ctx, memberID)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventMemberDeceased,
		SubjectID:  memberID,
		OperatorID: operatorID,
		Payload:    events.MemberDeceasedPayload{DeceasedDate: deceasedDate},
	})
	return member, nil
}

// resolveRecorder maps the acting operator to a ledger attribution. With no
// operator (automatic capture) it falls back to the configured system
// account. A missing or unusable identity aborts the transaction: a ledger
// entry is never written with fabricated attribution.
func (s *MemberService) resolveRecorder(ctx context.Context, tx repository.Store, operatorID string) (string, error) {
	if operatorID != "" {
		op, err := tx.Operators().GetByID(ctx, operatorID)
		if err != nil {
			return "", util.NewMissingRecorder(err)
		}
		if !op.IsActive {
			return "", util.NewMissingRecorder(errors.New("operator " + op.Username + " is inactive"))
		}
		return op.ID, nil
	}
	op, err := tx.Operators().GetByUsername(ctx, s.systemOperator)
	if err != nil {
		return "", util.NewMissingRecorder(err)
	}
	return op.ID, nil
}

// checkFamilyStructure enforces at most one living husband and one living
// wife per family. excludeID skips the member being edited.
func (s *MemberService) checkFamilyStructure(ctx context.Context, tx repository.Store, familyID string, role domain.FamilyRole, excludeID string) error {
	if role != domain.FamilyRoleHusband && role != domain.FamilyRoleWife {
		return nil
	}
	notDeceased := false
	sameRole := role
	existing, err := tx.Members().ListWithFilter(ctx, repository.MemberFilter{
		FamilyID:   &familyID,
		FamilyRole: &sameRole,
		IsDeceased: &notDeceased,
		Limit:      5,
	})
	if err != nil {
		return err
	}
	for _, m := range existing {
		if m.ID != excludeID {
			return util.NewValidationError("invalid member payload", map[string]any{
				"family_role": "family already has a living " + strings.ToLower(string(role)),
			})
		}
	}
	return nil
}

func validateMemberFields(fullName string, role domain.FamilyRole, birthOrder *int16, dateOfBirth time.Time) map[string]any {
	details := map[string]any{}
	if strings.TrimSpace(fullName) == "" {
		details["full_name"] = "full name is required"
	}
	if dateOfBirth.IsZero() {
		details["date_of_birth"] = "date of birth is required"
	}
	if birthOrder != nil && role != domain.FamilyRoleChild {
		details["birth_order"] = "birth order applies only to children"
	}
	if role == domain.FamilyRoleChild && birthOrder == nil {
		details["birth_order"] = "children require a birth order"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound(resource, nil)
	}
	return err
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *MemberService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
