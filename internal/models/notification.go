package models

import "time"

// NotificationModel is a persisted admin notification.
type NotificationModel struct {
	Base
	Recipient string     `json:"recipient" gorm:"index;not null;type:varchar(64)"`
	Type      string     `json:"type"      gorm:"type:varchar(32);index"` // quotation | contact | chat | newsletter | system
	Title     string     `json:"title"     gorm:"not null"`
	Message   string     `json:"message"   gorm:"type:text"`
	Link      string     `json:"link"      gorm:"type:varchar(512)"`
	Read      bool       `json:"read"      gorm:"default:false;index"`
	ReadAt    *time.Time `json:"read_at"`
}

func (NotificationModel) TableName() string { return "notifications" }
