package personnel

import "time"

// Employee references its Individual by external id. The reference may be
// nil or point to an individual that has not been imported yet.
type Employee struct {
	ExternalID           string
	IsDeleted            bool
	IndividualExternalID *string
	EmployeeNumber       string
	FullName             string
	EmploymentDate       *time.Time
	DismissalDate        *time.Time
	IsPrimaryWorkplace   bool
	Code                 string
}

func (e Employee) Kind() EntityKind { return KindEmployee }

func (e Employee) Key() string { return e.ExternalID }

func (e Employee) Receipt() Receipt {
	return Receipt{
		Kind:       KindEmployee,
		ExternalID: e.ExternalID,
		Code:       e.Code,
		Name:       e.FullName,
	}
}

// EmployeeView is an employee as stored, with the individual link resolved
// when the referenced individual exists.
type EmployeeView struct {
	Employee
	IndividualID *int64
}
