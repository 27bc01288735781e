package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/daniilsolovey/blog-catalog/internal/catalog"
	"github.com/daniilsolovey/blog-catalog/internal/source"
)

var (
	ErrNotLoaded          = errors.New("posts are not loaded")
	ErrConflictingFilters = errors.New("only one of category, tag or search may be set")
	ErrSuperseded         = errors.New("load superseded by a newer one")
)

// Query describes one view request. At most one filter field may be set.
type Query struct {
	Category string
	Tag      string
	Search   string
	Page     int
}

// Filter converts the query fields to a catalog filter. A blank search does
// not count as a filter.
func (q Query) Filter() (catalog.Filter, error) {
	var filters []catalog.Filter
	if q.Category != "" {
		filters = append(filters, catalog.ByCategory(q.Category))
	}
	if q.Tag != "" {
		filters = append(filters, catalog.ByTag(q.Tag))
	}
	if s := catalog.BySearch(q.Search); !s.IsNone() {
		filters = append(filters, s)
	}

	switch len(filters) {
	case 0:
		return catalog.NoFilter(), nil
	case 1:
		return filters[0], nil
	default:
		return catalog.NoFilter(), ErrConflictingFilters
	}
}

// Health is a snapshot of the loaded catalog state.
type Health struct {
	Status   catalog.Status `json:"status"`
	Source   string         `json:"source"`
	Posts    int            `json:"posts"`
	LoadedAt *time.Time     `json:"loadedAt,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Manager owns the catalog loaded from a source. Reads fork it, so request
// handlers never share filter or page state.
type Manager struct {
	src         source.Source
	pageSize    int
	recentCount atomic.Int64
	logger      *slog.Logger

	generation atomic.Uint64

	mu       sync.RWMutex
	loaded   *catalog.Catalog
	loadedAt time.Time
	lastErr  error
}

func NewManager(src source.Source, pageSize int, logger *slog.Logger) *Manager {
	m := &Manager{
		src:      src,
		pageSize: pageSize,
		logger:   logger,
		loaded:   catalog.New(pageSize, nil),
	}
	m.recentCount.Store(catalog.DefaultRecentCount)

	return m
}

// SetRecentCount changes how many posts Recent callers get when they do not
// ask for a specific number. Negative values are ignored.
func (m *Manager) SetRecentCount(n int) {
	if n >= 0 {
		m.recentCount.Store(int64(n))
	}
}

func (m *Manager) RecentCount() int {
	return int(m.recentCount.Load())
}

// Load reads the posts from the source, which may answer from its cache.
func (m *Manager) Load(ctx context.Context) error {
	return m.load(ctx, m.src.Posts)
}

// Reload reads the posts from the origin, bypassing any source cache.
func (m *Manager) Reload(ctx context.Context) error {
	if r, ok := m.src.(source.Refresher); ok {
		return m.load(ctx, r.Refresh)
	}
	return m.load(ctx, m.src.Posts)
}

// load replaces the catalog with the fetched posts. When several loads
// overlap only the most recently started one may replace the catalog, older
// results are dropped with ErrSuperseded. A failed load keeps serving the
// previous posts.
func (m *Manager) load(ctx context.Context, fetch func(context.Context) ([]catalog.Record, error)) error {
	gen := m.generation.Add(1)
	start := time.Now()

	next := catalog.New(m.pageSize, nil)
	records, err := fetch(ctx)
	if err != nil {
		next.Fail(err)
	} else {
		err = next.Load(records)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation.Load() {
		m.logger.DebugContext(ctx, "discarding stale load", "source", m.src.Name(), "generation", gen)
		return ErrSuperseded
	}

	if err != nil {
		m.lastErr = err
		if m.loaded.Status() == catalog.StatusReady {
			m.logger.WarnContext(ctx, "reload failed, keeping previous posts",
				"source", m.src.Name(), "error", err)
			return fmt.Errorf("failed to reload posts: %w", err)
		}

		m.loaded = next
		m.logger.ErrorContext(ctx, "failed to load posts", "source", m.src.Name(), "error", err)
		return fmt.Errorf("failed to load posts: %w", err)
	}

	m.loaded = next
	m.loadedAt = time.Now()
	m.lastErr = nil
	m.logger.InfoContext(ctx, "posts loaded",
		"source", m.src.Name(), "posts", next.Len(), "duration", time.Since(start))

	return nil
}

// Run loads the posts every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) && ctx.Err() == nil {
				m.logger.WarnContext(ctx, "periodic reload failed", "error", err)
			}
		}
	}
}

func (m *Manager) current() *catalog.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

func (m *Manager) ready() (*catalog.Catalog, error) {
	c := m.current()
	if c.Status() != catalog.StatusReady {
		if err := c.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotLoaded, err)
		}
		return nil, ErrNotLoaded
	}
	return c, nil
}

// Query returns one page of the posts matching q. The page is clamped into
// the valid range.
func (m *Manager) Query(q Query) (catalog.View, error) {
	c, err := m.ready()
	if err != nil {
		return catalog.View{}, err
	}

	f, err := q.Filter()
	if err != nil {
		return catalog.View{}, err
	}

	session := c.Fork(nil)
	session.Apply(f)
	if q.Page > 1 {
		session.SetPage(q.Page)
	}

	return session.View(), nil
}

// Post returns the post with the given id, false when there is none.
func (m *Manager) Post(id string) (catalog.Post, bool, error) {
	c, err := m.ready()
	if err != nil {
		return catalog.Post{}, false, err
	}

	p, ok := c.Post(strings.TrimSpace(id))
	return p, ok, nil
}

func (m *Manager) Categories() ([]catalog.CategoryCount, error) {
	c, err := m.ready()
	if err != nil {
		return nil, err
	}
	return c.Categories(), nil
}

func (m *Manager) Tags() ([]string, error) {
	c, err := m.ready()
	if err != nil {
		return nil, err
	}
	return c.Tags(), nil
}

func (m *Manager) Recent(n int) ([]catalog.Post, error) {
	c, err := m.ready()
	if err != nil {
		return nil, err
	}
	return c.Recent(n), nil
}

func (m *Manager) Facets(recent int) (catalog.Facets, error) {
	c, err := m.ready()
	if err != nil {
		return catalog.Facets{}, err
	}
	return c.Facets(recent), nil
}

func (m *Manager) Health() Health {
	m.mu.RLock()
	c, loadedAt, lastErr := m.loaded, m.loadedAt, m.lastErr
	m.mu.RUnlock()

	h := Health{
		Status: c.Status(),
		Source: m.src.Name(),
		Posts:  c.Len(),
	}
	if !loadedAt.IsZero() {
		h.LoadedAt = &loadedAt
	}
	if lastErr != nil {
		h.Error = lastErr.Error()
	}

	return h
}

func (m *Manager) PageSize() int {
	return m.current().PageSize()
}
