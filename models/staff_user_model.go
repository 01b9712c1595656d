package models

import (
	"time"
)

// StaffUser is a dashboard login. New accounts start with a temporary
// password and must set a permanent one on first login.
type StaffUser struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Username string `gorm:"type:varchar(100);not null;unique" json:"username"`
	FullName string `gorm:"type:varchar(255)" json:"full_name"`

	// Club the account manages; doubles as the tenant filter on every
	// dashboard query.
	Club string `gorm:"type:varchar(100);not null" json:"club"`

	PasswordHash       *string `gorm:"type:varchar(255)" json:"-"`
	TempPassword       *string `gorm:"type:varchar(255)" json:"-"`
	MustChangePassword bool    `gorm:"default:true" json:"must_change_password"`
	IsActive           bool    `gorm:"default:true" json:"is_active"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StaffUser) TableName() string {
	return "dashboard_users"
}
