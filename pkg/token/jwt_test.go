package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserToken_RoundTrip(t *testing.T) {
	svc := NewService("user-secret-123", "admin-secret-123", "worker")
	id := uuid.New()

	raw, err := svc.IssueUser(id)
	require.NoError(t, err)

	got, err := svc.VerifyUser(raw)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestNamespacesDoNotCross(t *testing.T) {
	svc := NewService("user-secret-123", "admin-secret-123", "worker")

	userToken, err := svc.IssueUser(uuid.New())
	require.NoError(t, err)
	adminToken, err := svc.IssueAdmin()
	require.NoError(t, err)

	assert.ErrorIs(t, svc.VerifyAdmin(userToken), ErrInvalidToken)
	_, err = svc.VerifyUser(adminToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NoError(t, svc.VerifyAdmin(adminToken))
}

func TestExpiredUserToken(t *testing.T) {
	svc := NewService("user-secret-123", "admin-secret-123", "worker")
	svc.now = func() time.Time { return time.Now().Add(-60 * 24 * time.Hour) }
	raw, err := svc.IssueUser(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyUser(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWorker(t *testing.T) {
	svc := NewService("user-secret-123", "admin-secret-123", "worker-token")
	assert.True(t, svc.VerifyWorker("worker-token"))
	assert.False(t, svc.VerifyWorker("worker-token2"))
	assert.False(t, svc.VerifyWorker(""))
	assert.False(t, NewService("a", "b", "").VerifyWorker(""))
}
