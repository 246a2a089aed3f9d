package chat

import (
	"fmt"
	"testing"
	"time"

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
	require.NoError(t, db.AutoMigrate(&models.ChatMessageModel{}))
	return NewService(db)
}

func TestSaveMessage(t *testing.T) {
	svc := newTestService(t)

	msg, err := svc.SaveMessage("conv-1", "sid-1", "Alice", models.SenderVisitor, "  hello  ")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, models.SenderVisitor, msg.SenderType)
	assert.False(t, msg.Read)

	_, err = svc.SaveMessage("", "sid-1", "Alice", models.SenderVisitor, "hi")
	assert.Error(t, err)
	_, err = svc.SaveMessage("conv-1", "sid-1", "Alice", models.SenderVisitor, "   ")
	assert.Error(t, err)
}

func TestSaveMessageCoercesUnknownSender(t *testing.T) {
	svc := newTestService(t)
	msg, err := svc.SaveMessage("conv-1", "sid-1", "X", models.SenderType("weird"), "hi")
	require.NoError(t, err)
	assert.Equal(t, models.SenderVisitor, msg.SenderType)
}

func TestHistoryReturnsLast50Chronological(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 60; i++ {
		msg := &models.ChatMessageModel{
			ConversationID: "conv-1",
			SenderType:     models.SenderVisitor,
			Text:           fmt.Sprintf("msg-%02d", i),
		}
		msg.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, svc.db.Create(msg).Error)
	}

	history, err := svc.History("conv-1")
	require.NoError(t, err)
	require.Len(t, history, HistoryLimit)
	assert.Equal(t, "msg-10", history[0].Text)
	assert.Equal(t, "msg-59", history[len(history)-1].Text)
}

func TestMarkReadTouchesOnlyOtherSide(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveMessage("conv-1", "v1", "Alice", models.SenderVisitor, "question")
	require.NoError(t, err)
	_, err = svc.SaveMessage("conv-1", "a1", "Admin", models.SenderAdmin, "answer")
	require.NoError(t, err)
	_, err = svc.SaveMessage("conv-2", "v2", "Bob", models.SenderVisitor, "other conv")
	require.NoError(t, err)

	// Admin reads conv-1: only the visitor message there flips.
	n, err := svc.MarkRead("conv-1", models.SenderAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var unreadVisitor int64
	require.NoError(t, svc.db.Model(&models.ChatMessageModel{}).
		Where("sender_type = ? AND `read` = ?", models.SenderVisitor, false).
		Count(&unreadVisitor).Error)
	assert.EqualValues(t, 1, unreadVisitor) // conv-2 untouched

	// Visitor reads conv-1: admin message flips.
	n, err = svc.MarkRead("conv-1", models.SenderVisitor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// Idempotent.
	n, err = svc.MarkRead("conv-1", models.SenderAdmin)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestActiveConversations(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SaveMessage("conv-1", "v1", "Alice", models.SenderVisitor, "first")
	require.NoError(t, err)
	_, err = svc.SaveMessage("conv-1", "v1", "Alice", models.SenderVisitor, "second")
	require.NoError(t, err)
	_, err = svc.SaveMessage("conv-2", "v2", "Bob", models.SenderVisitor, "hello")
	require.NoError(t, err)
	_, err = svc.SaveMessage("conv-2", "a1", "Admin", models.SenderAdmin, "hi Bob")
	require.NoError(t, err)

	sums, err := svc.ActiveConversations(time.Now().Add(-time.Hour), 50)
	require.NoError(t, err)
	require.Len(t, sums, 2)

	byID := map[string]ConversationSummary{}
	for _, s := range sums {
		byID[s.ConversationID] = s
	}

	assert.EqualValues(t, 2, byID["conv-1"].Unread)
	assert.Equal(t, "Alice", byID["conv-1"].VisitorName)
	assert.Equal(t, "second", byID["conv-1"].LastMessage)

	assert.EqualValues(t, 1, byID["conv-2"].Unread)
	assert.Equal(t, "hi Bob", byID["conv-2"].LastMessage)
	assert.Equal(t, string(models.SenderAdmin), byID["conv-2"].LastSender)
}
