package service

import (
	"context"
	"strings"

	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/repository"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// SectorService manages sector records.
type SectorService struct {
	store repository.Store
}

// NewSectorService constructs the service.
func NewSectorService(store repository.Store) *SectorService {
	return &SectorService{store: store}
}

// SectorInput describes create/update payloads.
type SectorInput struct {
	Name        string
	Description string
}

// Create registers a sector. Names are unique.
func (s *SectorService) Create(ctx context.Context, input SectorInput) (*domain.Sector, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, util.NewValidationError("invalid sector payload", map[string]any{"name": "name is required"})
	}
	sector := &domain.Sector{Name: strings.TrimSpace(input.Name), Description: input.Description}
	if err := s.store.Sectors().Create(ctx, sector); err != nil {
		return nil, util.MapPgError(err)
	}
	return sector, nil
}

// Update edits a sector.
func (s *SectorService) Update(ctx context.Context, sectorID string, input SectorInput) (*domain.Sector, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, util.NewValidationError("invalid sector payload", map[string]any{"name": "name is required"})
	}
	var sector *domain.Sector
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Sectors().GetByID(ctx, sectorID)
		if err != nil {
			return notFoundOr(err, "sector")
		}
		current.Name = strings.TrimSpace(input.Name)
		current.Description = input.Description
		if err := tx.Sectors().Update(ctx, current); err != nil {
			return util.MapPgError(err)
		}
		sector = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sector, nil
}

// Get fetches a sector.
func (s *SectorService) Get(ctx context.Context, sectorID string) (*domain.Sector, error) {
	sector, err := s.store.Sectors().GetByID(ctx, sectorID)
	if err != nil {
		return nil, notFoundOr(err, "sector")
	}
	return sector, nil
}

// List returns all sectors ordered by name.
func (s *SectorService) List(ctx context.Context) ([]domain.Sector, error) {
	return s.store.Sectors().List(ctx)
}

// Delete removes a sector. Blocked while members or families still reference
// it; the RESTRICT foreign keys back this up at the storage layer.
func (s *SectorService) Delete(ctx context.Context, sectorID string) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Sectors().GetByID(ctx, sectorID); err != nil {
			return notFoundOr(err, "sector")
		}
		refs, err := tx.Sectors().CountReferences(ctx, sectorID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return util.NewConflict("sector is still referenced", map[string]any{"references": refs})
		}
		return util.MapPgError(tx.Sectors().Delete(ctx, sectorID))
	})
}
