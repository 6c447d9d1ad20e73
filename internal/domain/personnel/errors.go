package personnel

import "errors"

var ErrEmployeeNotFound = errors.New("employee not found")
