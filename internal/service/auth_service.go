package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Juliussaint/gmianugerah/internal/auth"
	"github.com/Juliussaint/gmianugerah/internal/config"
	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/repository"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// AuthService authenticates registry operators. Its only job is resolving a
// username/password into a bearer token so that every mutation carries an
// operator identity; there is no session state.
type AuthService struct {
	operators repository.OperatorRepository
	tokens    *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, operators repository.OperatorRepository) *AuthService {
	return &AuthService{
		operators: operators,
		tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// LoginResult carries a freshly issued token.
type LoginResult struct {
	Operator  *domain.Operator
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	operator, err := s.operators.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	// The seeded system account has an unusable hash and never logs in.
	if !operator.IsActive || operator.Role == domain.OperatorRoleSystem {
		return nil, util.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return nil, util.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(operator.ID, operator.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Operator: operator, Token: token, ExpiresAt: expiresAt}, nil
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
