package personnel

import (
	"time"

	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
)

const (
	individualRecordType = "ФизическоеЛицо"
	employeeRecordType   = "Сотрудник"
)

// ParserSpec runs one record parser and tags its output with the entity kind.
type ParserSpec struct {
	Kind  domain.EntityKind
	Parse func(doc *domain.Document) ([]domain.Record, error)
}

func IndividualParser() RecordParser[domain.Individual] {
	return RecordParser[domain.Individual]{
		RecordType: individualRecordType,
		Fields: FieldMapping[domain.Individual]{
			"ИдентификаторВБазе": Text(func(r *domain.Individual, v string) { r.ExternalID = v }),
			"ПометкаУдаления":    Bool(func(r *domain.Individual, v bool) { r.IsDeleted = v }),
			"Имя":                Text(func(r *domain.Individual, v string) { r.Name = v }),
			"Фамилия":            Text(func(r *domain.Individual, v string) { r.Surname = v }),
			"Отчество":           Text(func(r *domain.Individual, v string) { r.Patronymic = v }),
			"ДатаРождения":       Date(func(r *domain.Individual, v *time.Time) { r.BirthDate = v }),
			"ИНН":                Text(func(r *domain.Individual, v string) { r.INN = v }),
			"СНИЛС":              Text(func(r *domain.Individual, v string) { r.SNILS = v }),
			"Код":                Text(func(r *domain.Individual, v string) { r.Code = v }),
		},
	}
}

func EmployeeParser() RecordParser[domain.Employee] {
	return RecordParser[domain.Employee]{
		RecordType: employeeRecordType,
		Fields: FieldMapping[domain.Employee]{
			"ИдентификаторВБазе":  Text(func(r *domain.Employee, v string) { r.ExternalID = v }),
			"ПометкаУдаления":     Bool(func(r *domain.Employee, v bool) { r.IsDeleted = v }),
			"ФизическоеЛицо":      Reference(func(r *domain.Employee, v *string) { r.IndividualExternalID = v }),
			"ТабельныйНомер":      Text(func(r *domain.Employee, v string) { r.EmployeeNumber = v }),
			"Наименование":        Text(func(r *domain.Employee, v string) { r.FullName = v }),
			"ДатаПриемаНаРаботу":  Date(func(r *domain.Employee, v *time.Time) { r.EmploymentDate = v }),
			"ДатаУвольнения":      Date(func(r *domain.Employee, v *time.Time) { r.DismissalDate = v }),
			"ОсновноеМестоРаботы": Bool(func(r *domain.Employee, v bool) { r.IsPrimaryWorkplace = v }),
			"Код":                 Text(func(r *domain.Employee, v string) { r.Code = v }),
		},
	}
}

// DefaultParsers returns one parser per entity kind of the NSI feed.
func DefaultParsers() []ParserSpec {
	return []ParserSpec{
		{Kind: domain.KindIndividual, Parse: asRecords(IndividualParser())},
		{Kind: domain.KindEmployee, Parse: asRecords(EmployeeParser())},
	}
}

func asRecords[T domain.Record](p RecordParser[T]) func(doc *domain.Document) ([]domain.Record, error) {
	return func(doc *domain.Document) ([]domain.Record, error) {
		items, err := p.Parse(doc)
		if err != nil {
			return nil, err
		}
		records := make([]domain.Record, 0, len(items))
		for _, item := range items {
			records = append(records, item)
		}
		return records, nil
	}
}
