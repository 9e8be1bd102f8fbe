package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// SectorHistoryRepository stores the append-only sector-assignment ledger.
// There is no update or delete: entries are immutable once written.
type SectorHistoryRepository interface {
	Create(ctx context.Context, entry *domain.SectorHistory) error
	// ListByMember returns entries in display order: transfer date
	// descending, insertion order descending.
	ListByMember(ctx context.Context, memberID string) ([]domain.SectorHistory, error)
	// ListChronological returns entries in causal order: transfer date
	// ascending, insertion order ascending. Each entry's to-sector equals
	// the next entry's from-sector.
	ListChronological(ctx context.Context, memberID string) ([]domain.SectorHistory, error)
}

type sectorHistoryRepository struct {
	db DBTX
}

// NewSectorHistoryRepository builds repository.
func NewSectorHistoryRepository(db DBTX) SectorHistoryRepository {
	return &sectorHistoryRepository{db: db}
}

func (r *sectorHistoryRepository) Create(ctx context.Context, entry *domain.SectorHistory) error {
	const query = `
        INSERT INTO sector_history (member_id, from_sector_id, to_sector_id, transfer_date, reason, notes, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		entry.MemberID,
		entry.FromSectorID,
		entry.ToSectorID,
		entry.TransferDate,
		entry.Reason,
		entry.Notes,
		entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *sectorHistoryRepository) ListByMember(ctx context.Context, memberID string) ([]domain.SectorHistory, error) {
	const query = `
        SELECT id, member_id, from_sector_id, to_sector_id, transfer_date, reason, notes, created_by, created_at
        FROM sector_history WHERE member_id=$1 ORDER BY transfer_date DESC, id DESC`
	return r.list(ctx, query, memberID)
}

func (r *sectorHistoryRepository) ListChronological(ctx context.Context, memberID string) ([]domain.SectorHistory, error) {
	const query = `
        SELECT id, member_id, from_sector_id, to_sector_id, transfer_date, reason, notes, created_by, created_at
        FROM sector_history WHERE member_id=$1 ORDER BY transfer_date ASC, id ASC`
	return r.list(ctx, query, memberID)
}

func (r *sectorHistoryRepository) list(ctx context.Context, query, memberID string) ([]domain.SectorHistory, error) {
	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SectorHistory
	for rows.Next() {
		var entry domain.SectorHistory
		if err := scanHistory(rows, &entry); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanHistory(row pgx.Row, entry *domain.SectorHistory) error {
	return row.Scan(
		&entry.ID,
		&entry.MemberID,
		&entry.FromSectorID,
		&entry.ToSectorID,
		&entry.TransferDate,
		&entry.Reason,
		&entry.Notes,
		&entry.CreatedBy,
		&entry.CreatedAt,
	)
}
