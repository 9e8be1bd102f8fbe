package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// MemberFilter captures member search parameters.
type MemberFilter struct {
	SearchTerm       *string
	SectorID         *string
	FamilyID         *string
	MembershipStatus *domain.MembershipStatus
	FamilyRole       *domain.FamilyRole
	IsActive         *bool
	IsDeceased       *bool
	Limit            int
}

// MemberRepository encapsulates member persistence. LockIdentifierRange and
// MaxIdentifier back the NIJ allocator and only make sense inside a
// transaction obtained through Store.WithinTx.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	Update(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Member, error)
	GetByMemberNo(ctx context.Context, memberNo string) (*domain.Member, error)
	ListWithFilter(ctx context.Context, filter MemberFilter) ([]domain.Member, error)
	LockIdentifierRange(ctx context.Context, prefix string) error
	MaxIdentifier(ctx context.Context, prefix string) (string, error)
}

type memberRepository struct {
	db DBTX
}

// NewMemberRepository instantiates repository.
func NewMemberRepository(db DBTX) MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, member_no, family_id, current_sector_id, full_name, gender, family_role,
        birth_order, blood_type, date_of_birth, phone_number, email,
        baptism_date, sidi_date, marriage_date, membership_status,
        is_active, inactive_reason, is_deceased, deceased_date, deceased_reason,
        photo_key, created_at, updated_at`

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (member_no, family_id, current_sector_id, full_name, gender, family_role,
            birth_order, blood_type, date_of_birth, phone_number, email,
            baptism_date, sidi_date, marriage_date, membership_status,
            is_active, inactive_reason, is_deceased, deceased_date, deceased_reason, photo_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		member.MemberNo,
		member.FamilyID,
		member.CurrentSectorID,
		member.FullName,
		member.Gender,
		member.FamilyRole,
		member.BirthOrder,
		member.BloodType,
		member.DateOfBirth,
		member.PhoneNumber,
		member.Email,
		member.BaptismDate,
		member.SidiDate,
		member.MarriageDate,
		member.MembershipStatus,
		member.IsActive,
		member.InactiveReason,
		member.IsDeceased,
		member.DeceasedDate,
		member.DeceasedReason,
		member.PhotoKey,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

// Update persists every mutable field. member_no is deliberately absent:
// the identifier never changes after allocation.
func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	const query = `
        UPDATE members SET family_id=$1, current_sector_id=$2, full_name=$3, gender=$4, family_role=$5,
            birth_order=$6, blood_type=$7, date_of_birth=$8, phone_number=$9, email=$10,
            baptism_date=$11, sidi_date=$12, marriage_date=$13, membership_status=$14,
            is_active=$15, inactive_reason=$16, is_deceased=$17, deceased_date=$18, deceased_reason=$19,
            photo_key=$20, updated_at=NOW()
        WHERE id=$21`
	cmd, err := r.db.Exec(ctx, query,
		member.FamilyID,
		member.CurrentSectorID,
		member.FullName,
		member.Gender,
		member.FamilyRole,
		member.BirthOrder,
		member.BloodType,
		member.DateOfBirth,
		member.PhoneNumber,
		member.Email,
		member.BaptismDate,
		member.SidiDate,
		member.MarriageDate,
		member.MembershipStatus,
		member.IsActive,
		member.InactiveReason,
		member.IsDeceased,
		member.DeceasedDate,
		member.DeceasedReason,
		member.PhotoKey,
		member.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetByIDForUpdate locks the member row so concurrent sector changes for the
// same member serialize and the ledger's from-chain stays consistent.
func (r *memberRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id=$1 FOR UPDATE`
	return r.fetchSingle(ctx, query, id)
}

func (r *memberRepository) GetByMemberNo(ctx context.Context, memberNo string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_no=$1`
	return r.fetchSingle(ctx, query, memberNo)
}

func (r *memberRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Member, error) {
	var member domain.Member
	if err := scanMember(r.db.QueryRow(ctx, query, arg), &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) ListWithFilter(ctx context.Context, filter MemberFilter) ([]domain.Member, error) {
	base := `SELECT ` + memberColumns + ` FROM members`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(full_name) LIKE %s OR LOWER(member_no) LIKE %s)", placeholder, placeholder))
	}
	if filter.SectorID != nil {
		args = append(args, *filter.SectorID)
		clauses = append(clauses, fmt.Sprintf("current_sector_id=$%d", len(args)))
	}
	if filter.FamilyID != nil {
		args = append(args, *filter.FamilyID)
		clauses = append(clauses, fmt.Sprintf("family_id=$%d", len(args)))
	}
	if filter.MembershipStatus != nil {
		args = append(args, *filter.MembershipStatus)
		clauses = append(clauses, fmt.Sprintf("membership_status=$%d", len(args)))
	}
	if filter.FamilyRole != nil {
		args = append(args, *filter.FamilyRole)
		clauses = append(clauses, fmt.Sprintf("family_role=$%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.IsDeceased != nil {
		args = append(args, *filter.IsDeceased)
		clauses = append(clauses, fmt.Sprintf("is_deceased=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY full_name ASC LIMIT %d`,
		base, strings.Join(clauses, " AND "), limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Member
	for rows.Next() {
		var member domain.Member
		if err := scanMember(rows, &member); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}

// LockIdentifierRange serializes identifier allocation for one year prefix.
// The advisory lock is transaction scoped: it releases on commit or rollback,
// which is exactly how long two allocators must exclude each other.
func (r *memberRepository) LockIdentifierRange(ctx context.Context, prefix string) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, prefix)
	return err
}

// MaxIdentifier returns the highest member_no sharing the prefix, or "" when
// none exists. Must run after LockIdentifierRange in the same transaction.
func (r *memberRepository) MaxIdentifier(ctx context.Context, prefix string) (string, error) {
	const query = `SELECT COALESCE(MAX(member_no), '') FROM members WHERE member_no LIKE $1 || '%'`
	var last string
	if err := r.db.QueryRow(ctx, query, prefix).Scan(&last); err != nil {
		return "", err
	}
	return last, nil
}

func scanMember(row pgx.Row, member *domain.Member) error {
	return row.Scan(
		&member.ID,
		&member.MemberNo,
		&member.FamilyID,
		&member.CurrentSectorID,
		&member.FullName,
		&member.Gender,
		&member.FamilyRole,
		&member.BirthOrder,
		&member.BloodType,
		&member.DateOfBirth,
		&member.PhoneNumber,
		&member.Email,
		&member.BaptismDate,
		&member.SidiDate,
		&member.MarriageDate,
		&member.MembershipStatus,
		&member.IsActive,
		&member.InactiveReason,
		&member.IsDeceased,
		&member.DeceasedDate,
		&member.DeceasedReason,
		&member.PhotoKey,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
}
