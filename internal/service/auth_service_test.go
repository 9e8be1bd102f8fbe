package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juliussaint/gmianugerah/internal/auth"
	"github.com/Juliussaint/gmianugerah/internal/config"
	"github.com/Juliussaint/gmianugerah/internal/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
	}, store.operators)
	return svc, store
}

func addOperatorWithPassword(t *testing.T, store *fakeStore, username, password string, role domain.OperatorRole, active bool) *domain.Operator {
	t.Helper()
	op := store.addOperator(username, role, active)
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	op.PasswordHash = hash
	store.operators.byID[op.ID] = op
	return op
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, store := newAuthFixture(t)
	op := addOperatorWithPassword(t, store, "maria", "s3cret", domain.OperatorRoleStaff, true)

	result, err := svc.Login(context.Background(), "maria", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, op.ID, result.Operator.ID)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.OperatorID)
	assert.Equal(t, domain.OperatorRoleStaff, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, store := newAuthFixture(t)
	addOperatorWithPassword(t, store, "maria", "s3cret", domain.OperatorRoleStaff, true)

	_, err := svc.Login(context.Background(), "maria", "wrong")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}

func TestLoginRejectsInactiveOperator(t *testing.T) {
	svc, store := newAuthFixture(t)
	addOperatorWithPassword(t, store, "former", "s3cret", domain.OperatorRoleStaff, false)

	_, err := svc.Login(context.Background(), "former", "s3cret")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}

func TestLoginRejectsSystemAccount(t *testing.T) {
	svc, store := newAuthFixture(t)
	addOperatorWithPassword(t, store, "system", "s3cret", domain.OperatorRoleSystem, true)

	_, err := svc.Login(context.Background(), "system", "s3cret")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}
