// Package source fetches the raw dataset bytes from a local file or a URL.
package source

import (
	"context"
	"fmt"
	"os"

	"github.com/amishk599/datajobs/internal/model"
)

// Ensure FileSource implements model.Source.
var _ model.Source = (*FileSource)(nil)

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource returns a source that reads path on every Fetch.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
	}
	return data, nil
}
