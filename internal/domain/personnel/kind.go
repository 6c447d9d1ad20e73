package personnel

type EntityKind string

const (
	KindIndividual EntityKind = "individual"
	KindEmployee   EntityKind = "employee"
)

// KindOrder is the order in which extracted kinds are persisted and acknowledged.
func KindOrder() []EntityKind {
	return []EntityKind{KindIndividual, KindEmployee}
}

// Record is a natural-key-bearing entity extracted from the feed.
type Record interface {
	Kind() EntityKind
	Key() string
	Receipt() Receipt
}

// Receipt is the identity of a record as it appears in the acknowledgement file.
type Receipt struct {
	Kind       EntityKind
	ExternalID string
	Code       string
	Name       string
}

// BatchResult counts the rows touched by one committed kind batch.
type BatchResult struct {
	InsertedCount int64
	UpdatedCount  int64
}
