package personnel

import "time"

// ImportStatus is the single-flight lock row of the feed import. At most one
// row has IsPending set; rows are never deleted.
type ImportStatus struct {
	ID          string
	RequestedBy string
	CreatedAt   time.Time
	IsPending   bool
}
