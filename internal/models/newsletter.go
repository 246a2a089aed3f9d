package models

// NewsletterModel is a newsletter subscriber with double-opt-in state.
type NewsletterModel struct {
	Base
	Email       string `json:"email"        gorm:"uniqueIndex;not null;type:varchar(191)"`
	Verified    bool   `json:"verified"     gorm:"default:false;index"`
	CancelToken string `json:"-"            gorm:"uniqueIndex;type:varchar(64)"`
	SessionID   string `json:"session_id"   gorm:"type:varchar(64)"`
}

func (NewsletterModel) TableName() string { return "newsletter_subscribers" }
