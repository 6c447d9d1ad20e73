package models

import "time"

type Individual struct {
	ID         int64      `gorm:"primaryKey"`
	ExternalID string     `gorm:"size:64;not null;uniqueIndex"`
	IsDeleted  bool       `gorm:"not null;default:false"`
	Name       string     `gorm:"type:text;not null;default:''"`
	Surname    string     `gorm:"type:text;not null;default:''"`
	Patronymic string     `gorm:"type:text;not null;default:''"`
	BirthDate  *time.Time `gorm:"type:date"`
	INN        string     `gorm:"column:inn;size:12;not null;default:''"`
	SNILS      string     `gorm:"column:snils;size:14;not null;default:''"`
	Code       string     `gorm:"type:text;not null;default:''"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Individual) TableName() string {
	return "individuals"
}

// Employee keeps the raw individual reference next to the resolved key so a
// link to an individual imported later can be filled in afterwards.
type Employee struct {
	ID                   int64       `gorm:"primaryKey"`
	ExternalID           string      `gorm:"size:64;not null;uniqueIndex"`
	IsDeleted            bool        `gorm:"not null;default:false"`
	IndividualExternalID *string     `gorm:"size:64;index"`
	IndividualID         *int64      `gorm:"index"`
	Individual           *Individual `gorm:"foreignKey:IndividualID;constraint:OnDelete:SET NULL"`
	EmployeeNumber       string      `gorm:"type:text;not null;default:''"`
	FullName             string      `gorm:"type:text;not null;default:''"`
	EmploymentDate       *time.Time  `gorm:"type:date"`
	DismissalDate        *time.Time  `gorm:"type:date"`
	IsPrimaryWorkplace   bool        `gorm:"not null;default:false"`
	Code                 string      `gorm:"type:text;not null;default:''"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (Employee) TableName() string {
	return "employees"
}
