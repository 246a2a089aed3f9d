package newsletter

import (
	"testing"

	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/pkg/pagination"
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
	require.NoError(t, db.AutoMigrate(&models.NewsletterModel{}))
	return NewService(db)
}

func TestSubscribeLifecycle(t *testing.T) {
	svc := newTestService(t)

	sub, err := svc.Subscribe("Alice@Example.COM ", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub.Email)
	assert.False(t, sub.Verified)
	assert.NotEmpty(t, sub.CancelToken)

	// Re-subscribing before verification reissues the same token.
	again, err := svc.Subscribe("alice@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, sub.CancelToken, again.CancelToken)

	verified, err := svc.Verify(sub.CancelToken)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	// Verified email cannot subscribe again.
	_, err = svc.Subscribe("alice@example.com", "")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	// Verify is idempotent.
	_, err = svc.Verify(sub.CancelToken)
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(sub.CancelToken))
	assert.ErrorIs(t, svc.Unsubscribe(sub.CancelToken), ErrTokenNotFound)
}

func TestVerifyUnknownToken(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Verify("nope")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestListVerifiedFilter(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.Subscribe("a@example.com", "")
	require.NoError(t, err)
	_, err = svc.Subscribe("b@example.com", "")
	require.NoError(t, err)

	_, err = svc.Verify(a.CancelToken)
	require.NoError(t, err)

	subs, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, true)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "a@example.com", subs[0].Email)

	subs, pag, err := svc.List(pagination.Query{Page: 1, Size: 10}, false)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.EqualValues(t, 2, pag.Total)
}
