package personnel_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	app "github.com/mohammadpnp/math-server/internal/application/personnel"
	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
)

type fakeEmployeeQueryRepo struct {
	view      *domain.EmployeeView
	returnErr error
	gotID     string
}

func (f *fakeEmployeeQueryRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.EmployeeView, error) {
	f.gotID = externalID
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	return f.view, nil
}

func TestGetEmployeeSuccess(t *testing.T) {
	t.Parallel()

	individual := "1001"
	individualID := int64(7)
	hired := time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeEmployeeQueryRepo{view: &domain.EmployeeView{
		Employee: domain.Employee{
			ExternalID:           "2001",
			IndividualExternalID: &individual,
			EmployeeNumber:       "000123",
			FullName:             "Петров Иван",
			EmploymentDate:       &hired,
			IsPrimaryWorkplace:   true,
			Code:                 "СТ-2001",
		},
		IndividualID: &individualID,
	}}

	uc := app.NewGetEmployee(repo)

	out, err := uc.Execute(context.Background(), app.GetEmployeeInput{ExternalID: " 2001 "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.gotID != "2001" {
		t.Fatalf("expected trimmed id, got %q", repo.gotID)
	}
	if !out.IndividualResolved {
		t.Fatal("expected individual to be resolved")
	}
	if out.EmploymentDate == nil || *out.EmploymentDate != "2010-03-01" {
		t.Fatalf("unexpected employment date: %v", out.EmploymentDate)
	}
	if out.DismissalDate != nil {
		t.Fatalf("expected nil dismissal date, got %v", *out.DismissalDate)
	}
}

func TestGetEmployeeDanglingIndividual(t *testing.T) {
	t.Parallel()

	individual := "9999"
	uc := app.NewGetEmployee(&fakeEmployeeQueryRepo{view: &domain.EmployeeView{
		Employee: domain.Employee{ExternalID: "2001", IndividualExternalID: &individual},
	}})

	out, err := uc.Execute(context.Background(), app.GetEmployeeInput{ExternalID: "2001"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.IndividualResolved {
		t.Fatal("expected unresolved individual")
	}
	if out.IndividualExternalID == nil || *out.IndividualExternalID != "9999" {
		t.Fatalf("unexpected individual reference: %v", out.IndividualExternalID)
	}
}

func TestGetEmployeeInvalidID(t *testing.T) {
	t.Parallel()

	uc := app.NewGetEmployee(&fakeEmployeeQueryRepo{})

	for _, id := range []string{"", "   ", strings.Repeat("9", 65)} {
		_, err := uc.Execute(context.Background(), app.GetEmployeeInput{ExternalID: id})
		if !errors.Is(err, app.ErrInvalidExternalID) {
			t.Fatalf("expected ErrInvalidExternalID for %q, got %v", id, err)
		}
	}
}

func TestGetEmployeeNotFound(t *testing.T) {
	t.Parallel()

	uc := app.NewGetEmployee(&fakeEmployeeQueryRepo{returnErr: domain.ErrEmployeeNotFound})

	_, err := uc.Execute(context.Background(), app.GetEmployeeInput{ExternalID: "2001"})
	if !errors.Is(err, app.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestGetEmployeeRepositoryError(t *testing.T) {
	t.Parallel()

	uc := app.NewGetEmployee(&fakeEmployeeQueryRepo{returnErr: errors.New("db down")})

	_, err := uc.Execute(context.Background(), app.GetEmployeeInput{ExternalID: "2001"})
	if !errors.Is(err, app.ErrGetEmployee) {
		t.Fatalf("expected ErrGetEmployee, got %v", err)
	}
}
