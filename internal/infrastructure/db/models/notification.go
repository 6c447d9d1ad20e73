package models

import "time"

type Notification struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	UserName       string    `gorm:"type:text;not null;index:idx_notifications_user_created,priority:1"`
	JobKindID      string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"not null;index:idx_notifications_user_created,priority:2,sort:desc"`
	IsSuccess      bool      `gorm:"not null"`
	Description    string    `gorm:"size:255;not null"`
	IsAcknowledged bool      `gorm:"not null;default:false"`
}

func (Notification) TableName() string {
	return "notifications"
}
