package repository

import (
	"context"

	"github.com/Juliussaint/gmianugerah/internal/domain"
)

// OperatorRepository looks up registry staff accounts.
type OperatorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
}

type operatorRepository struct {
	db DBTX
}

// NewOperatorRepository builds the repository.
func NewOperatorRepository(db DBTX) OperatorRepository {
	return &operatorRepository{db: db}
}

const operatorColumns = `id, username, full_name, password_hash, role, is_active, created_at, updated_at`

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *operatorRepository) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *operatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Operator, error) {
	var op domain.Operator
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&op.ID,
		&op.Username,
		&op.FullName,
		&op.PasswordHash,
		&op.Role,
		&op.IsActive,
		&op.CreatedAt,
		&op.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &op, nil
}
