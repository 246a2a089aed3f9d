package notification

import (
	"errors"
	"time"

	"github.com/aerovista/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notification types.
const (
	TypeQuotation  = "quotation"
	TypeContact    = "contact"
	TypeChat       = "chat"
	TypeNewsletter = "newsletter"
	TypeSystem     = "system"
)

const eventNotification = "notification"

// Emitter pushes an event to the connected admin sockets. The chat hub
// satisfies this; delivery is best-effort.
type Emitter interface {
	BroadcastAdmins(event string, payload interface{})
}

// Service persists per-admin notifications and fans them out over the socket.
type Service struct {
	db      *gorm.DB
	emitter Emitter
	log     *zap.Logger
}

func NewService(db *gorm.DB, emitter Emitter, log *zap.Logger) *Service {
	return &Service{db: db, emitter: emitter, log: log}
}

// Notify creates one notification row per admin user and emits it to the
// admin room. Socket delivery failing never fails the caller.
func (s *Service) Notify(ntype, title, message, link string) error {
	var admins []models.UserModel
	if err := s.db.Select("id").Find(&admins).Error; err != nil {
		return err
	}
	if len(admins) == 0 {
		return nil
	}

	rows := make([]models.NotificationModel, 0, len(admins))
	for _, admin := range admins {
		rows = append(rows, models.NotificationModel{
			Recipient: admin.ID,
			Type:      ntype,
			Title:     title,
			Message:   message,
			Link:      link,
		})
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return err
	}

	if s.emitter != nil {
		s.emitter.BroadcastAdmins(eventNotification, map[string]interface{}{
			"type":    ntype,
			"title":   title,
			"message": message,
			"link":    link,
		})
	}
	return nil
}

// NotifyAsync is Notify with the swallow-and-log policy, for callers on the
// request path that must not fail on notification errors.
func (s *Service) NotifyAsync(ntype, title, message, link string) {
	go func() {
		if err := s.Notify(ntype, title, message, link); err != nil && s.log != nil {
			s.log.Warn("notification fan-out failed", zap.String("type", ntype), zap.Error(err))
		}
	}()
}

// List returns the recipient's notifications, newest first.
func (s *Service) List(recipient string, unreadOnly bool) *gorm.DB {
	tx := s.db.Model(&models.NotificationModel{}).
		Where("recipient = ?", recipient).
		Order("created_at DESC")
	if unreadOnly {
		tx = tx.Where("`read` = ?", false)
	}
	return tx
}

// UnreadCount returns how many unread notifications the recipient has.
func (s *Service) UnreadCount(recipient string) (int64, error) {
	var count int64
	err := s.db.Model(&models.NotificationModel{}).
		Where("recipient = ? AND `read` = ?", recipient, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one of the recipient's notifications as read.
func (s *Service) MarkRead(recipient, id string) error {
	now := time.Now()
	result := s.db.Model(&models.NotificationModel{}).
		Where("id = ? AND recipient = ?", id, recipient).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return result.Error
}

// MarkAllRead marks every unread notification of the recipient as read. Only
// the recipient's own rows are touched.
func (s *Service) MarkAllRead(recipient string) (int64, error) {
	if recipient == "" {
		return 0, errors.New("recipient is required")
	}
	now := time.Now()
	result := s.db.Model(&models.NotificationModel{}).
		Where("recipient = ? AND `read` = ?", recipient, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

// Delete removes one of the recipient's notifications.
func (s *Service) Delete(recipient, id string) error {
	result := s.db.Where("id = ? AND recipient = ?", id, recipient).
		Delete(&models.NotificationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
