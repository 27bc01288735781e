package source

import (
	"context"
	"fmt"
	"os"

	"github.com/daniilsolovey/blog-catalog/internal/catalog"
)

// File reads posts from a local .json, .yaml or .csv file.
type File struct {
	path   string
	format Format
}

// NewFile detects the format from the extension when format is empty.
func NewFile(path string, format Format) *File {
	if format == "" {
		format = FormatFromPath(path)
	}
	return &File{path: path, format: format}
}

func (f *File) Name() string { return "file" }

func (f *File) Posts(ctx context.Context) ([]catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &FetchError{URL: f.path, Err: fmt.Errorf("read file: %w", err)}
	}

	return Decode(f.format, body)
}
