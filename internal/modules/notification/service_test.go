package notification

import (
	"testing"

	"github.com/aerovista/core/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeEmitter struct {
	events []string
}

func (f *fakeEmitter) BroadcastAdmins(event string, payload interface{}) {
	f.events = append(f.events, event)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.NotificationModel{}))
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB, email string) *models.UserModel {
	t.Helper()
	u := &models.UserModel{Email: email, PasswordHash: "x", Name: "Admin"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestNotifyCreatesRowPerAdmin(t *testing.T) {
	db := newTestDB(t)
	a := seedAdmin(t, db, "a@example.com")
	b := seedAdmin(t, db, "b@example.com")
	emitter := &fakeEmitter{}
	svc := NewService(db, emitter, nil)

	require.NoError(t, svc.Notify(TypeQuotation, "New quote request", "from Alice", "/admin/quotations"))

	var rows []models.NotificationModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 2)

	recipients := []string{rows[0].Recipient, rows[1].Recipient}
	assert.Contains(t, recipients, a.ID)
	assert.Contains(t, recipients, b.ID)
	assert.Equal(t, []string{eventNotification}, emitter.events)
}

func TestNotifyNoAdminsIsNoop(t *testing.T) {
	db := newTestDB(t)
	emitter := &fakeEmitter{}
	svc := NewService(db, emitter, nil)

	require.NoError(t, svc.Notify(TypeSystem, "t", "m", ""))

	var count int64
	require.NoError(t, db.Model(&models.NotificationModel{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, emitter.events)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	db := newTestDB(t)
	a := seedAdmin(t, db, "a@example.com")
	b := seedAdmin(t, db, "b@example.com")
	svc := NewService(db, nil, nil)

	require.NoError(t, svc.Notify(TypeContact, "contact", "msg", ""))

	var aRow models.NotificationModel
	require.NoError(t, db.Where("recipient = ?", a.ID).First(&aRow).Error)

	// Wrong recipient cannot read someone else's row.
	assert.ErrorIs(t, svc.MarkRead(b.ID, aRow.ID), gorm.ErrRecordNotFound)

	require.NoError(t, svc.MarkRead(a.ID, aRow.ID))

	count, err := svc.UnreadCount(a.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.UnreadCount(b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMarkAllReadOnlyTouchesRecipient(t *testing.T) {
	db := newTestDB(t)
	a := seedAdmin(t, db, "a@example.com")
	b := seedAdmin(t, db, "b@example.com")
	svc := NewService(db, nil, nil)

	require.NoError(t, svc.Notify(TypeChat, "chat", "hello", ""))
	require.NoError(t, svc.Notify(TypeChat, "chat", "again", ""))

	n, err := svc.MarkAllRead(a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	countB, err := svc.UnreadCount(b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, countB)

	// Idempotent.
	n, err = svc.MarkAllRead(a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteScopedToRecipient(t *testing.T) {
	db := newTestDB(t)
	a := seedAdmin(t, db, "a@example.com")
	b := seedAdmin(t, db, "b@example.com")
	svc := NewService(db, nil, nil)

	require.NoError(t, svc.Notify(TypeNewsletter, "sub", "new subscriber", ""))

	var aRow models.NotificationModel
	require.NoError(t, db.Where("recipient = ?", a.ID).First(&aRow).Error)

	assert.ErrorIs(t, svc.Delete(b.ID, aRow.ID), gorm.ErrRecordNotFound)
	require.NoError(t, svc.Delete(a.ID, aRow.ID))
	assert.ErrorIs(t, svc.Delete(a.ID, aRow.ID), gorm.ErrRecordNotFound)
}
