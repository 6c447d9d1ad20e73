package repository

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
	"github.com/mohammadpnp/math-server/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type EmployeeQueryRepository struct {
	db *gorm.DB
}

func NewEmployeeQueryRepository(db *gorm.DB) *EmployeeQueryRepository {
	return &EmployeeQueryRepository{db: db}
}

func (r *EmployeeQueryRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.EmployeeView, error) {
	var row models.Employee

	err := r.db.WithContext(ctx).First(&row, "external_id = ?", externalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee by external id: %w", err)
	}

	return &domain.EmployeeView{
		Employee: domain.Employee{
			ExternalID:           row.ExternalID,
			IsDeleted:            row.IsDeleted,
			IndividualExternalID: row.IndividualExternalID,
			EmployeeNumber:       row.EmployeeNumber,
			FullName:             row.FullName,
			EmploymentDate:       row.EmploymentDate,
			DismissalDate:        row.DismissalDate,
			IsPrimaryWorkplace:   row.IsPrimaryWorkplace,
			Code:                 row.Code,
		},
		IndividualID: row.IndividualID,
	}, nil
}
