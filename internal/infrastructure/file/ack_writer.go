package file

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mohammadpnp/math-server/internal/domain/personnel"
)

type ackDocument struct {
	XMLName     xml.Name    `xml:"Acknowledgement"`
	GeneratedAt string      `xml:"generatedAt,attr"`
	Count       int         `xml:"count,attr"`
	Records     []ackRecord `xml:"Record"`
}

type ackRecord struct {
	Kind       string `xml:"kind,attr"`
	ExternalID string `xml:"ExternalID"`
	Code       string `xml:"Code,omitempty"`
	Name       string `xml:"Name,omitempty"`
}

// AckWriter renders the receipt of accepted records and replaces the file
// at Path with it.
type AckWriter struct {
	Path string
	Now  func() time.Time
}

func NewAckWriter(path string) *AckWriter {
	return &AckWriter{Path: path, Now: time.Now}
}

func (w *AckWriter) Emit(ctx context.Context, accepted []personnel.Record) error {
	_ = ctx

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	doc := ackDocument{
		GeneratedAt: now().UTC().Format(time.RFC3339),
		Count:       len(accepted),
		Records:     make([]ackRecord, 0, len(accepted)),
	}
	for _, rec := range accepted {
		receipt := rec.Receipt()
		doc.Records = append(doc.Records, ackRecord{
			Kind:       string(receipt.Kind),
			ExternalID: receipt.ExternalID,
			Code:       receipt.Code,
			Name:       receipt.Name,
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("render ack: %w", err)
	}

	return writeFileAtomic(w.Path, append([]byte(xml.Header), body...))
}

// ReadAck returns the external ids listed in a receipt file, in order.
func ReadAck(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ack %s: %w", path, err)
	}

	var doc ackDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode ack %s: %w", path, err)
	}

	ids := make([]string, 0, len(doc.Records))
	for _, rec := range doc.Records {
		ids = append(ids, rec.ExternalID)
	}
	return ids, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp ack file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write ack: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ack: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod ack: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace ack %s: %w", path, err)
	}
	return nil
}
