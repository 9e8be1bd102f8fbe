package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// SectorRepository manages sector persistence.
type SectorRepository interface {
	Create(ctx context.Context, sector *domain.Sector) error
	Update(ctx context.Context, sector *domain.Sector) error
	GetByID(ctx context.Context, id string) (*domain.Sector, error)
	GetByName(ctx context.Context, name string) (*domain.Sector, error)
	List(ctx context.Context) ([]domain.Sector, error)
	Delete(ctx context.Context, id string) error
	CountReferences(ctx context.Context, id string) (int64, error)
}

type sectorRepository struct {
	db DBTX
}

// NewSectorRepository builds the repository.
func NewSectorRepository(db DBTX) SectorRepository {
	return &sectorRepository{db: db}
}

func (r *sectorRepository) Create(ctx context.Context, sector *domain.Sector) error {
	const query = `
        INSERT INTO sectors (name, description)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		sector.Name,
		sector.Description,
	).Scan(&sector.ID, &sector.CreatedAt, &sector.UpdatedAt)
}

func (r *sectorRepository) Update(ctx context.Context, sector *domain.Sector) error {
	const query = `
        UPDATE sectors SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, sector.Name, sector.Description, sector.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sectorRepository) GetByID(ctx context.Context, id string) (*domain.Sector, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM sectors WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *sectorRepository) GetByName(ctx context.Context, name string) (*domain.Sector, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM sectors WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *sectorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Sector, error) {
	var sector domain.Sector
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&sector.ID,
		&sector.Name,
		&sector.Description,
		&sector.CreatedAt,
		&sector.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sector, nil
}

func (r *sectorRepository) List(ctx context.Context) ([]domain.Sector, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM sectors ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Sector
	for rows.Next() {
		var sector domain.Sector
		if err := rows.Scan(&sector.ID, &sector.Name, &sector.Description, &sector.CreatedAt, &sector.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, sector)
	}
	return result, rows.Err()
}

func (r *sectorRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM sectors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountReferences counts members and families still assigned to the sector.
// Deleting a referenced sector is blocked at the service layer; the RESTRICT
// foreign keys remain the storage-level guard.
func (r *sectorRepository) CountReferences(ctx context.Context, id string) (int64, error) {
	const query = `
        SELECT (SELECT COUNT(*) FROM members WHERE current_sector_id=$1)
             + (SELECT COUNT(*) FROM families WHERE sector_id=$1)`
	var count int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
