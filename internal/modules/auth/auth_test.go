package auth

import (
	"testing"

	"github.com/aerovista/core/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}))
	return NewService(db)
}

func TestRegisterOnlyOnce(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(&RegisterDTO{Name: "Admin", Email: "Admin@Example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.NotEqual(t, "secret-pass", u.PasswordHash)

	_, err = svc.Register(&RegisterDTO{Name: "Other", Email: "other@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(&RegisterDTO{Name: "Admin", Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	token, u, err := svc.Login("admin@example.com", "secret-pass", "203.0.113.9")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "203.0.113.9", u.LastLoginIP)
	assert.NotNil(t, u.LastLoginAt)

	_, _, err = svc.Login("admin@example.com", "wrong", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login("ghost@example.com", "secret-pass", "")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(&RegisterDTO{Name: "Admin", Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(u.ID, "wrong", "new-password1"), ErrBadCredentials)
	require.NoError(t, svc.ChangePassword(u.ID, "secret-pass", "new-password1"))

	_, _, err = svc.Login("admin@example.com", "secret-pass", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login("admin@example.com", "new-password1", "")
	require.NoError(t, err)
}

func TestValidateToken(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(&RegisterDTO{Name: "Admin", Email: "admin@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	token, _, err := svc.Login("admin@example.com", "secret-pass", "")
	require.NoError(t, err)

	assert.True(t, svc.ValidateToken(token))
	assert.True(t, svc.ValidateToken("Bearer "+token))
	assert.False(t, svc.ValidateToken("garbage"))
	assert.False(t, svc.ValidateToken(""))
}
