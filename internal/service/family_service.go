package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/events"
	"github.com/Juliussaint/gmianugerah/internal/repository"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// FamilyService manages household records. Families are never deleted;
// dissolution is a status transition with mandatory reason and date.
type FamilyService struct {
	store      repository.Store
	dispatcher events.Dispatcher
}

// NewFamilyService constructs the service.
func NewFamilyService(store repository.Store, dispatcher events.Dispatcher) *FamilyService {
	return &FamilyService{store: store, dispatcher: dispatcher}
}

// FamilyInput describes create/update payloads.
type FamilyInput struct {
	SectorID          string
	FamilyName        string
	HeadOfFamilyID    *string
	Status            domain.FamilyStatus
	DissolutionReason *string
	DissolutionDate   *time.Time
	AddressStreet     string
	AddressCity       string
	AddressProvince   string
	AddressPostalCode string
	PhoneNumber       string
}

// Create registers a household.
func (s *FamilyService) Create(ctx context.Context, input FamilyInput) (*domain.Family, error) {
	if input.Status == "" {
		input.Status = domain.FamilyStatusActive
	}
	if details := validateFamilyInput(input); details != nil {
		return nil, util.NewValidationError("invalid family payload", details)
	}

	family := familyFromInput(input)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Sectors().GetByID(ctx, input.SectorID); err != nil {
			return notFoundOr(err, "sector")
		}
		return util.MapPgError(tx.Families().Create(ctx, family))
	})
	if err != nil {
		return nil, err
	}
	return family, nil
}

// Update edits a household, revalidating the dissolution invariant.
func (s *FamilyService) Update(ctx context.Context, familyID string, input FamilyInput) (*domain.Family, error) {
	if details := validateFamilyInput(input); details != nil {
		return nil, util.NewValidationError("invalid family payload", details)
	}

	var family *domain.Family
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Families().GetByID(ctx, familyID)
		if err != nil {
			return notFoundOr(err, "family")
		}
		if _, err := tx.Sectors().GetByID(ctx, input.SectorID); err != nil {
			return notFoundOr(err, "sector")
		}
		if input.HeadOfFamilyID != nil {
			head, err := tx.Members().GetByID(ctx, *input.HeadOfFamilyID)
			if err != nil {
				return notFoundOr(err, "member")
			}
			if head.FamilyID != familyID {
				return util.NewValidationError("invalid family payload", map[string]any{
					"head_of_family_id": "head of family must belong to the family",
				})
			}
		}

		updated := familyFromInput(input)
		updated.ID = current.ID
		if err := tx.Families().Update(ctx, updated); err != nil {
			return util.MapPgError(err)
		}
		family = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return family, nil
}

// Dissolve transitions a family to DISSOLVED. Reason and date are mandatory,
// enforced here rather than at the presentation layer.
func (s *FamilyService) Dissolve(ctx context.Context, familyID, reason string, date time.Time, operatorID string) (*domain.Family, error) {
	details := map[string]any{}
	if strings.TrimSpace(reason) == "" {
		details["dissolution_reason"] = "dissolution reason is required when status is dissolved"
	}
	if date.IsZero() {
		details["dissolution_date"] = "dissolution date is required when status is dissolved"
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("invalid dissolution payload", details)
	}

	var family *domain.Family
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Families().GetByID(ctx, familyID)
		if err != nil {
			return notFoundOr(err, "family")
		}
		current.Status = domain.FamilyStatusDissolved
		current.DissolutionReason = &reason
		current.DissolutionDate = &date
		if err := tx.Families().Update(ctx, current); err != nil {
			return util.MapPgError(err)
		}
		family = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventFamilyDissolved,
			SubjectID:  familyID,
			OperatorID: operatorID,
			Timestamp:  time.Now(),
			Payload: events.FamilyDissolvedPayload{
				Status:            domain.FamilyStatusDissolved,
				DissolutionReason: reason,
				DissolutionDate:   date,
			},
		})
	}
	return family, nil
}

// Get fetches a household.
func (s *FamilyService) Get(ctx context.Context, familyID string) (*domain.Family, error) {
	family, err := s.store.Families().GetByID(ctx, familyID)
	if err != nil {
		return nil, notFoundOr(err, "family")
	}
	return family, nil
}

// List returns families matching the filter.
func (s *FamilyService) List(ctx context.Context, filter repository.FamilyFilter) ([]domain.Family, error) {
	return s.store.Families().ListWithFilter(ctx, filter)
}

func familyFromInput(input FamilyInput) *domain.Family {
	return &domain.Family{
		SectorID:          input.SectorID,
		FamilyName:        strings.TrimSpace(input.FamilyName),
		HeadOfFamilyID:    input.HeadOfFamilyID,
		Status:            input.Status,
		DissolutionReason: input.DissolutionReason,
		DissolutionDate:   input.DissolutionDate,
		AddressStreet:     input.AddressStreet,
		AddressCity:       input.AddressCity,
		AddressProvince:   input.AddressProvince,
		AddressPostalCode: input.AddressPostalCode,
		PhoneNumber:       input.PhoneNumber,
	}
}

// validateFamilyInput enforces the dissolution invariant: DISSOLVED requires
// both a reason and a date.
func validateFamilyInput(input FamilyInput) map[string]any {
	details := map[string]any{}
	if strings.TrimSpace(input.FamilyName) == "" {
		details["family_name"] = "family name is required"
	}
	if input.Status == domain.FamilyStatusDissolved {
		if input.DissolutionReason == nil || strings.TrimSpace(*input.DissolutionReason) == "" {
			details["dissolution_reason"] = "dissolution reason is required when status is dissolved"
		}
		if input.DissolutionDate == nil || input.DissolutionDate.IsZero() {
			details["dissolution_date"] = "dissolution date is required when status is dissolved"
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
