package personnel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
)

type GetEmployeeInput struct {
	ExternalID string
}

type GetEmployeeOutput struct {
	ExternalID           string  `json:"external_id"`
	IsDeleted            bool    `json:"is_deleted"`
	IndividualExternalID *string `json:"individual_external_id"`
	IndividualResolved   bool    `json:"individual_resolved"`
	EmployeeNumber       string  `json:"employee_number"`
	FullName             string  `json:"full_name"`
	EmploymentDate       *string `json:"employment_date"`
	DismissalDate        *string `json:"dismissal_date"`
	IsPrimaryWorkplace   bool    `json:"is_primary_workplace"`
	Code                 string  `json:"code"`
}

type GetEmployee interface {
	Execute(ctx context.Context, in GetEmployeeInput) (GetEmployeeOutput, error)
}

type getEmployee struct {
	repo domain.EmployeeQueryRepository
}

func NewGetEmployee(repo domain.EmployeeQueryRepository) GetEmployee {
	return &getEmployee{repo: repo}
}

func (uc *getEmployee) Execute(ctx context.Context, in GetEmployeeInput) (GetEmployeeOutput, error) {
	externalID := strings.TrimSpace(in.ExternalID)
	if externalID == "" || len(externalID) > 64 {
		return GetEmployeeOutput{}, ErrInvalidExternalID
	}

	view, err := uc.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return GetEmployeeOutput{}, ErrEmployeeNotFound
		}
		return GetEmployeeOutput{}, fmt.Errorf("%w: %v", ErrGetEmployee, err)
	}

	return GetEmployeeOutput{
		ExternalID:           view.ExternalID,
		IsDeleted:            view.IsDeleted,
		IndividualExternalID: view.IndividualExternalID,
		IndividualResolved:   view.IndividualID != nil,
		EmployeeNumber:       view.EmployeeNumber,
		FullName:             view.FullName,
		EmploymentDate:       formatDate(view.EmploymentDate),
		DismissalDate:        formatDate(view.DismissalDate),
		IsPrimaryWorkplace:   view.IsPrimaryWorkplace,
		Code:                 view.Code,
	}, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
