package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shortdrama/pkg/token"
)

func newAuth(t *testing.T, email, password string) (AuthService, *token.Service) {
	repo, _ := newTestRepo(t)
	cfg := testConfig()
	cfg.Auth.AdminEmail = email
	cfg.Auth.AdminPassword = password
	tokens := token.NewService("user-secret-123", "admin-secret-123", "worker")
	return NewAuthService(repo, tokens, cfg), tokens
}

func TestGuest_CreatesFundedAccount(t *testing.T) {
	svc, tokens := newAuth(t, "", "")

	first, err := svc.Guest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, first.User.Coins)

	id, err := tokens.VerifyUser(first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.User.Id, id)

	second, err := svc.Guest(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.User.Id, second.User.Id)
}

func TestAdminLogin(t *testing.T) {
	svc, tokens := newAuth(t, "ops@example.com", "hunter22")

	raw, err := svc.AdminLogin(context.Background(), "ops@example.com", "hunter22")
	require.NoError(t, err)
	assert.NoError(t, tokens.VerifyAdmin(raw))

	_, err = svc.AdminLogin(context.Background(), "ops@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAdminLogin_DisabledWithoutCredentials(t *testing.T) {
	svc, _ := newAuth(t, "", "")

	_, err := svc.AdminLogin(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
