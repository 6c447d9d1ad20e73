package personnel

import (
	"strings"
	"time"
)

type Individual struct {
	ExternalID string
	IsDeleted  bool
	Name       string
	Surname    string
	Patronymic string
	BirthDate  *time.Time
	INN        string
	SNILS      string
	Code       string
}

func (i Individual) Kind() EntityKind { return KindIndividual }

func (i Individual) Key() string { return i.ExternalID }

func (i Individual) Receipt() Receipt {
	return Receipt{
		Kind:       KindIndividual,
		ExternalID: i.ExternalID,
		Code:       i.Code,
		Name:       i.FullName(),
	}
}

// FullName joins surname, name and patronymic, skipping blanks.
func (i Individual) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{i.Surname, i.Name, i.Patronymic} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}
