package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// FamilyFilter captures family search parameters.
type FamilyFilter struct {
	SearchTerm *string
	SectorID   *string
	Status     *domain.FamilyStatus
	Limit      int
}

// FamilyRepository manages household persistence.
type FamilyRepository interface {
	Create(ctx context.Context, family *domain.Family) error
	Update(ctx context.Context, family *domain.Family) error
	GetByID(ctx context.Context, id string) (*domain.Family, error)
	ListWithFilter(ctx context.Context, filter FamilyFilter) ([]domain.Family, error)
}

type familyRepository struct {
	db DBTX
}

// NewFamilyRepository builds the repository.
func NewFamilyRepository(db DBTX) FamilyRepository {
	return &familyRepository{db: db}
}

const familyColumns = `id, sector_id, family_name, head_of_family_id, family_status,
        dissolution_reason, dissolution_date,
        address_street, address_city, address_province, address_postal_code,
        phone_number, created_at, updated_at`

func (r *familyRepository) Create(ctx context.Context, family *domain.Family) error {
	const query = `
        INSERT INTO families (sector_id, family_name, head_of_family_id, family_status,
            dissolution_reason, dissolution_date,
            address_street, address_city, address_province, address_postal_code, phone_number)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		family.SectorID,
		family.FamilyName,
		family.HeadOfFamilyID,
		family.Status,
		family.DissolutionReason,
		family.DissolutionDate,
		family.AddressStreet,
		family.AddressCity,
		family.AddressProvince,
		family.AddressPostalCode,
		family.PhoneNumber,
	).Scan(&family.ID, &family.CreatedAt, &family.UpdatedAt)
}

func (r *familyRepository) Update(ctx context.Context, family *domain.Family) error {
	const query = `
        UPDATE families SET sector_id=$1, family_name=$2, head_of_family_id=$3, family_status=$4,
            dissolution_reason=$5, dissolution_date=$6,
            address_street=$7, address_city=$8, address_province=$9, address_postal_code=$10,
            phone_number=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.db.Exec(ctx, query,
		family.SectorID,
		family.FamilyName,
		family.HeadOfFamilyID,
		family.Status,
		family.DissolutionReason,
		family.DissolutionDate,
		family.AddressStreet,
		family.AddressCity,
		family.AddressProvince,
		family.AddressPostalCode,
		family.PhoneNumber,
		family.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *familyRepository) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	query := `SELECT ` + familyColumns + ` FROM families WHERE id=$1`
	var family domain.Family
	if err := scanFamily(r.db.QueryRow(ctx, query, id), &family); err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *familyRepository) ListWithFilter(ctx context.Context, filter FamilyFilter) ([]domain.Family, error) {
	base := `SELECT ` + familyColumns + ` FROM families`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("LOWER(family_name) LIKE $%d", len(args)))
	}
	if filter.SectorID != nil {
		args = append(args, *filter.SectorID)
		clauses = append(clauses, fmt.Sprintf("sector_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("family_status=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY family_name ASC LIMIT %d`,
		base, strings.Join(clauses, " AND "), limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Family
	for rows.Next() {
		var family domain.Family
		if err := scanFamily(rows, &family); err != nil {
			return nil, err
		}
		result = append(result, family)
	}
	return result, rows.Err()
}

func scanFamily(row pgx.Row, family *domain.Family) error {
	return row.Scan(
		&family.ID,
		&family.SectorID,
		&family.FamilyName,
		&family.HeadOfFamilyID,
		&family.Status,
		&family.DissolutionReason,
		&family.DissolutionDate,
		&family.AddressStreet,
		&family.AddressCity,
		&family.AddressProvince,
		&family.AddressPostalCode,
		&family.PhoneNumber,
		&family.CreatedAt,
		&family.UpdatedAt,
	)
}
