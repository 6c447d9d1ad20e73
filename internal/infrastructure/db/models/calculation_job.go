package models

import (
	"time"

	"gorm.io/datatypes"
)

type CalculationJob struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	UserName     string         `gorm:"type:text;not null;uniqueIndex:idx_calculation_jobs_user_kind,priority:1"`
	Kind         string         `gorm:"type:text;not null;uniqueIndex:idx_calculation_jobs_user_kind,priority:2"`
	Input        datatypes.JSON `gorm:"type:jsonb"`
	Output       datatypes.JSON `gorm:"type:jsonb"`
	IsReady      bool           `gorm:"not null;default:false"`
	IsProcessing bool           `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CalculationJob) TableName() string {
	return "calculation_jobs"
}
