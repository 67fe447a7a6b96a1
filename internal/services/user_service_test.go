package services

import (
	"testing"
	"time"

	"acta_backend/internal/models"
	"acta_backend/internal/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
}

func TestRegisterAndLogin(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewUserService(userRepo, newTestRedis(t), time.Hour)

	user, err := svc.Register("ana@example.com", "correct-horse", "Ana", "Reyes")
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleMember), user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.PasswordHash, "password must be hashed")

	token, logged, err := svc.Login("ana@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, logged.LastLogin)

	session, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), session.UserID)
	assert.Equal(t, "ana@example.com", session.Email)

	require.NoError(t, svc.Logout(token))
	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, redis.ErrSessionNotFound)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, newTestRedis(t), time.Hour)

	_, err := svc.Register("", "correct-horse", "", "")
	assert.Error(t, err)

	_, err = svc.Register("ana@example.com", "short", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")

	_, err = svc.Register("ana@example.com", "correct-horse", "", "")
	require.NoError(t, err)
	_, err = svc.Register("ana@example.com", "another-pass", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := NewUserService(userRepo, newTestRedis(t), time.Hour)

	_, _, err := svc.Login("nobody@example.com", "whatever-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.Register("ana@example.com", "correct-horse", "", "")
	require.NoError(t, err)

	_, _, err = svc.Login("ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Deactivated accounts cannot log in even with the right password.
	user.IsActive = false
	require.NoError(t, userRepo.Update(user))
	_, _, err = svc.Login("ana@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
