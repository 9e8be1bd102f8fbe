package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx, so
// the same repositories run against the pool or inside a transaction.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store bundles the registry repositories behind one handle. WithinTx runs
// the given function against a transaction-scoped Store; identifier
// allocation and ledger appends rely on it so that a member row and its
// history entry commit or roll back as a unit.
type Store interface {
	Members() MemberRepository
	Sectors() SectorRepository
	Families() FamilyRepository
	History() SectorHistoryRepository
	Operators() OperatorRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type pgStore struct {
	db DBTX

	members   MemberRepository
	sectors   SectorRepository
	families  FamilyRepository
	history   SectorHistoryRepository
	operators OperatorRepository
}

// NewStore builds a Store over a pool or transaction handle.
func NewStore(db DBTX) Store {
	return &pgStore{
		db:        db,
		members:   NewMemberRepository(db),
		sectors:   NewSectorRepository(db),
		families:  NewFamilyRepository(db),
		history:   NewSectorHistoryRepository(db),
		operators: NewOperatorRepository(db),
	}
}

func (s *pgStore) Members() MemberRepository        { return s.members }
func (s *pgStore) Sectors() SectorRepository        { return s.sectors }
func (s *pgStore) Families() FamilyRepository       { return s.families }
func (s *pgStore) History() SectorHistoryRepository { return s.history }
func (s *pgStore) Operators() OperatorRepository    { return s.operators }

func (s *pgStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
