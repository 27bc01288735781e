package catalog

import (
	"fmt"
	"sort"
	"sync"
)

const (
	// DefaultPageSize is used by the static posts.json deployment.
	DefaultPageSize = 6
	// DefaultRecentCount is the size of the "recent posts" sidebar.
	DefaultRecentCount = 5
)

type Status int

const (
	StatusNotLoaded Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "not_loaded"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ready":
		*s = StatusReady
	case "failed":
		*s = StatusFailed
	case "not_loaded", "":
		*s = StatusNotLoaded
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Pagination summarizes the current page of the visible set.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	PageCount   int  `json:"pageCount"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	HasPrev     bool `json:"hasPrev"`
	HasNext     bool `json:"hasNext"`
}

// View is what the render callback receives after every mutating call.
type View struct {
	Items      []Post     `json:"items"`
	Pagination Pagination `json:"pagination"`
	Filter     Filter     `json:"filter"`
	Empty      bool       `json:"empty"`
	Status     Status     `json:"status"`
	Err        error      `json:"-"`
}

// RenderFunc is invoked synchronously, exactly once per mutating call.
type RenderFunc func(View)

// Catalog owns the loaded posts, the active filter and the current page.
// All methods are safe for concurrent use; the render callback runs outside
// the internal lock so it may query the catalog.
type Catalog struct {
	mu       sync.Mutex
	pageSize int
	render   RenderFunc

	all     []Post // newest first, shared read-only between forks
	visible []Post
	filter  Filter
	page    int

	status  Status
	loadErr error
}

// New creates an empty, not yet loaded catalog. A pageSize below 1 falls back
// to DefaultPageSize. render may be nil.
func New(pageSize int, render RenderFunc) *Catalog {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Catalog{
		pageSize: pageSize,
		render:   render,
		page:     1,
	}
}

// Fork returns a new session over the same loaded posts, with its own filter
// and page state reset to NoFilter / page 1.
func (c *Catalog) Fork(render RenderFunc) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	return &Catalog{
		pageSize: c.pageSize,
		render:   render,
		all:      c.all,
		visible:  c.all,
		page:     1,
		status:   c.status,
		loadErr:  c.loadErr,
	}
}

// Load validates records and replaces the catalog contents with them sorted
// newest first. On a DataError the catalog is left failed and empty.
func (c *Catalog) Load(records []Record) error {
	posts := make([]Post, 0, len(records))
	var loadErr error
	for i := range records {
		p, err := NewPost(i, records[i])
		if err != nil {
			loadErr = err
			break
		}
		posts = append(posts, p)
	}

	if loadErr != nil {
		c.Fail(loadErr)
		return loadErr
	}

	sortNewestFirst(posts)

	c.mu.Lock()
	c.all = posts
	c.status = StatusReady
	c.loadErr = nil
	c.applyLocked(NoFilter())
	v := c.viewLocked()
	c.mu.Unlock()

	c.notify(v)
	return nil
}

// Fail records that the data could not be obtained. The catalog keeps no
// posts and reports StatusFailed until the next successful Load.
func (c *Catalog) Fail(err error) {
	if err == nil {
		err = ErrData
	}

	c.mu.Lock()
	c.all = nil
	c.status = StatusFailed
	c.loadErr = err
	c.applyLocked(NoFilter())
	v := c.viewLocked()
	c.mu.Unlock()

	c.notify(v)
}

func (c *Catalog) FilterByCategory(cat string) {
	c.Apply(ByCategory(cat))
}

func (c *Catalog) FilterByTag(tag string) {
	c.Apply(ByTag(tag))
}

func (c *Catalog) FilterBySearch(query string) {
	c.Apply(BySearch(query))
}

func (c *Catalog) ClearFilter() {
	c.Apply(NoFilter())
}

// Apply replaces the active filter and resets to page 1.
func (c *Catalog) Apply(f Filter) {
	c.mu.Lock()
	c.applyLocked(f)
	v := c.viewLocked()
	c.mu.Unlock()

	c.notify(v)
}

// SetPage moves to page p clamped into [1, PageCount()].
func (c *Catalog) SetPage(p int) {
	c.mu.Lock()
	c.page = clamp(p, 1, c.pageCountLocked())
	v := c.viewLocked()
	c.mu.Unlock()

	c.notify(v)
}

// NextPage is a no-op on the last page.
func (c *Catalog) NextPage() {
	c.mu.Lock()
	c.page = clamp(c.page+1, 1, c.pageCountLocked())
	v := c.viewLocked()
	c.mu.Unlock()

	c.notify(v)
}

// PrevPage is a no-op on the first page.
func (c *Catalog) PrevPage() {
	c.mu.Lock()
	c.page = clamp(c.page-1, 1, c.pageCountLocked())
	v := c.viewLocked()
	c.mu.Unlock()

	c.notify(v)
}

func (c *Catalog) PageSize() int {
	return c.pageSize
}

func (c *Catalog) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageCountLocked()
}

func (c *Catalog) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Catalog) CurrentPageItems() []Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageItemsLocked()
}

func (c *Catalog) Pagination() Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paginationLocked()
}

// View returns the same payload the render callback last received.
func (c *Catalog) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Catalog) ActiveFilter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Visible returns a copy of the filtered set, newest first.
func (c *Catalog) Visible() []Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Post(nil), c.visible...)
}

// All returns a copy of every loaded post, newest first.
func (c *Catalog) All() []Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Post(nil), c.all...)
}

func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.all)
}

func (c *Catalog) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the reason of the last failed load, nil otherwise.
func (c *Catalog) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Post looks a post up by id regardless of the active filter.
func (c *Catalog) Post(id string) (Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.all {
		if c.all[i].ID == id {
			return c.all[i], true
		}
	}
	return Post{}, false
}

func (c *Catalog) applyLocked(f Filter) {
	c.filter = f
	c.page = 1

	if f.IsNone() {
		c.visible = c.all
		return
	}

	visible := make([]Post, 0, len(c.all))
	for i := range c.all {
		if f.Match(&c.all[i]) {
			visible = append(visible, c.all[i])
		}
	}
	c.visible = visible
}

func (c *Catalog) pageCountLocked() int {
	n := len(c.visible)
	if n == 0 {
		return 1
	}
	return (n + c.pageSize - 1) / c.pageSize
}

func (c *Catalog) pageItemsLocked() []Post {
	start := (c.page - 1) * c.pageSize
	if start >= len(c.visible) {
		return []Post{}
	}
	end := start + c.pageSize
	if end > len(c.visible) {
		end = len(c.visible)
	}
	return append([]Post(nil), c.visible[start:end]...)
}

func (c *Catalog) paginationLocked() Pagination {
	count := c.pageCountLocked()
	return Pagination{
		CurrentPage: c.page,
		PageCount:   count,
		PageSize:    c.pageSize,
		Total:       len(c.visible),
		HasPrev:     c.page > 1,
		HasNext:     c.page < count,
	}
}

func (c *Catalog) viewLocked() View {
	return View{
		Items:      c.pageItemsLocked(),
		Pagination: c.paginationLocked(),
		Filter:     c.filter,
		Empty:      c.status == StatusReady && len(c.visible) == 0,
		Status:     c.status,
		Err:        c.loadErr,
	}
}

func (c *Catalog) notify(v View) {
	if c.render != nil {
		c.render(v)
	}
}

// sortNewestFirst orders by date descending. Equal dates keep input order and
// unparseable dates go last.
func sortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := &posts[i], &posts[j]
		if a.DateValid != b.DateValid {
			return a.DateValid
		}
		if !a.DateValid {
			return false
		}
		return a.PublishedAt.After(b.PublishedAt)
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
