package models

import "time"

// UserModel is an admin dashboard user.
type UserModel struct {
	Base
	Name         string     `json:"name"       gorm:"not null"`
	Email        string     `json:"email"      gorm:"uniqueIndex;not null;type:varchar(191)"`
	PasswordHash string     `json:"-"          gorm:"column:password;not null"`
	Role         string     `json:"role"       gorm:"type:varchar(32);default:admin"`
	Avatar       string     `json:"avatar"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	LastLoginIP  string     `json:"last_login_ip" gorm:"type:varchar(45)"`
}

func (UserModel) TableName() string { return "users" }
