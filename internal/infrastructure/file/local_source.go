package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mohammadpnp/math-server/internal/domain/personnel"
)

// LocalSource reads the exported feed document from the local filesystem.
type LocalSource struct {
	Path string
}

func NewLocalSource(baseDir, feedPath string) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}

	path := feedPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, feedPath)
	}
	return &LocalSource{Path: path}
}

func (s *LocalSource) Load(ctx context.Context) (*personnel.Document, error) {
	_ = ctx

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open feed %s: %w", s.Path, err)
	}
	defer f.Close()

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.Path, err)
	}
	return doc, nil
}
