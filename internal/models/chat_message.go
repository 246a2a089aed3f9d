package models

import "time"

// SenderType distinguishes the two sides of a conversation.
type SenderType string

const (
	SenderVisitor SenderType = "visitor"
	SenderAdmin   SenderType = "admin"
)

// ChatMessageModel is a persisted live-chat message.
type ChatMessageModel struct {
	Base
	ConversationID string     `json:"conversation_id" gorm:"index;not null;type:varchar(64)"`
	SenderID       string     `json:"sender_id"       gorm:"type:varchar(64)"`
	SenderName     string     `json:"sender_name"`
	SenderType     SenderType `json:"sender_type"     gorm:"type:varchar(16);default:visitor;index"`
	Text           string     `json:"text"            gorm:"type:text;not null"`
	Read           bool       `json:"read"            gorm:"default:false;index"`
	ReadAt         *time.Time `json:"read_at"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }
