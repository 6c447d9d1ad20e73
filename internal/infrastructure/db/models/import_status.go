package models

import "time"

type ImportStatus struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	RequestedBy string    `gorm:"type:text;not null"`
	IsPending   bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time
}

func (ImportStatus) TableName() string {
	return "import_statuses"
}
