package source

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/daniilsolovey/blog-catalog/internal/catalog"
)

// Source delivers the raw post records of the blog.
type Source interface {
	Name() string
	Posts(ctx context.Context) ([]catalog.Record, error)
}

// Refresher is implemented by sources that keep a cached copy. Refresh
// bypasses it and reads the origin again.
type Refresher interface {
	Refresh(ctx context.Context) ([]catalog.Record, error)
}

// Cache stores fetched payloads between loads, keyed by source URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// readPayload reads at most limit bytes. A longer body is an error, never a
// silently truncated payload.
func readPayload(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w of %d bytes", ErrPayloadTooLarge, limit)
	}
	return body, nil
}

// Static serves a fixed set of records held in memory.
type Static struct {
	records []catalog.Record
	err     error
}

func NewStatic(records []catalog.Record) *Static {
	return &Static{records: records}
}

// NewFailing returns a source whose every load fails with err.
func NewFailing(err error) *Static {
	return &Static{err: err}
}

func (s *Static) Name() string { return "static" }

func (s *Static) Posts(ctx context.Context) ([]catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}

	out := make([]catalog.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}
