package personnel

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
)

// FieldSetter copies the value of one field node into a record.
type FieldSetter[T any] func(rec *T, field *domain.Node) error

// FieldMapping maps a field tag to its setter. Tags without a setter are ignored.
type FieldMapping[T any] map[string]FieldSetter[T]

// RecordParser extracts records of one type from a feed document. It holds
// no state between calls, so parsing the same document twice yields the same
// records.
type RecordParser[T any] struct {
	RecordType string
	Fields     FieldMapping[T]
}

// Parse returns the records of p.RecordType in document order. A field whose
// transform fails makes the whole parse fail.
func (p RecordParser[T]) Parse(doc *domain.Document) ([]T, error) {
	out := make([]T, 0)
	for i, node := range doc.Records() {
		if node.RecordType() != p.RecordType {
			continue
		}

		var rec T
		for _, field := range node.Children {
			set, ok := p.Fields[field.Tag]
			if !ok {
				continue
			}
			if err := set(&rec, field); err != nil {
				return nil, fmt.Errorf("%s record #%d, field %s: %w", p.RecordType, i, field.Tag, err)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func Text[T any](assign func(rec *T, value string)) FieldSetter[T] {
	return func(rec *T, field *domain.Node) error {
		assign(rec, field.Text)
		return nil
	}
}

func Bool[T any](assign func(rec *T, value bool)) FieldSetter[T] {
	return func(rec *T, field *domain.Node) error {
		value, err := parseBool(field.Text)
		if err != nil {
			return err
		}
		assign(rec, value)
		return nil
	}
}

// Date parses an ISO date. Empty text assigns nil.
func Date[T any](assign func(rec *T, value *time.Time)) FieldSetter[T] {
	return func(rec *T, field *domain.Node) error {
		value, err := parseDate(field.Text)
		if err != nil {
			return err
		}
		assign(rec, value)
		return nil
	}
}

// Reference takes the referenced external id from the first child of the
// field node. A field without children or with blank text assigns nil.
func Reference[T any](assign func(rec *T, externalID *string)) FieldSetter[T] {
	return func(rec *T, field *domain.Node) error {
		if len(field.Children) == 0 {
			assign(rec, nil)
			return nil
		}
		id := strings.TrimSpace(field.Children[0].Text)
		if id == "" {
			assign(rec, nil)
			return nil
		}
		assign(rec, &id)
		return nil
	}
}

func parseBool(text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBool, text)
	}
}

func parseDate(text string) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if len(text) > 10 && text[10] == 'T' {
		text = text[:10]
	}
	value, err := time.Parse(time.DateOnly, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	return &value, nil
}
