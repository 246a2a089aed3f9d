package chat

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/aerovista/core/internal/models"
	"gorm.io/gorm"
)

// HistoryLimit is how many messages a client receives when joining a
// conversation.
const HistoryLimit = 50

// Service owns chat message persistence.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// SaveMessage persists a chat message and returns it with ID and timestamps.
func (s *Service) SaveMessage(conversationID, senderID, senderName string, senderType models.SenderType, text string) (*models.ChatMessageModel, error) {
	text = strings.TrimSpace(text)
	if conversationID == "" || text == "" {
		return nil, errors.New("conversation id and text are required")
	}
	if senderType != models.SenderAdmin {
		senderType = models.SenderVisitor
	}

	msg := &models.ChatMessageModel{
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderName:     senderName,
		SenderType:     senderType,
		Text:           text,
	}
	if err := s.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// History returns the last HistoryLimit messages of a conversation in
// chronological order.
func (s *Service) History(conversationID string) ([]models.ChatMessageModel, error) {
	var msgs []models.ChatMessageModel
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(HistoryLimit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// reverse to chronological
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// MarkRead marks all unread messages from the other side of the conversation
// as read. reader is the side doing the reading; only messages sent by the
// opposite side are touched.
func (s *Service) MarkRead(conversationID string, reader models.SenderType) (int64, error) {
	if conversationID == "" {
		return 0, errors.New("conversation id is required")
	}
	other := models.SenderVisitor
	if reader == models.SenderVisitor {
		other = models.SenderAdmin
	}

	now := time.Now()
	result := s.db.Model(&models.ChatMessageModel{}).
		Where("conversation_id = ? AND sender_type = ? AND `read` = ?", conversationID, other, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

// ConversationSummary is one row of the admin conversation list.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	LastMessage    string    `json:"last_message"`
	LastSender     string    `json:"last_sender"`
	LastAt         time.Time `json:"last_at"`
	Unread         int64     `json:"unread"`
	VisitorName    string    `json:"visitor_name"`
	Online         bool      `json:"online"`
}

// ActiveConversations lists conversations with recent traffic, newest first.
// Unread counts visitor messages the admin side has not read yet.
func (s *Service) ActiveConversations(since time.Time, limit int) ([]ConversationSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	var msgs []models.ChatMessageModel
	err := s.db.Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	byConv := map[string]*ConversationSummary{}
	order := []string{}
	for _, m := range msgs {
		sum, ok := byConv[m.ConversationID]
		if !ok {
			sum = &ConversationSummary{ConversationID: m.ConversationID}
			byConv[m.ConversationID] = sum
			order = append(order, m.ConversationID)
		}
		sum.LastMessage = m.Text
		sum.LastSender = string(m.SenderType)
		sum.LastAt = m.CreatedAt
		if m.SenderType == models.SenderVisitor {
			if m.SenderName != "" {
				sum.VisitorName = m.SenderName
			}
			if !m.Read {
				sum.Unread++
			}
		}
	}

	out := make([]ConversationSummary, 0, len(byConv))
	for _, id := range order {
		out = append(out, *byConv[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAt.After(out[j].LastAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
