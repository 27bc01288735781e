package catalog

import "strings"

type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterCategory
	FilterTag
	FilterSearch
)

func (k FilterKind) String() string {
	switch k {
	case FilterCategory:
		return "category"
	case FilterTag:
		return "tag"
	case FilterSearch:
		return "search"
	default:
		return "none"
	}
}

// Filter is the active narrowing of the catalog. Build it with NoFilter,
// ByCategory, ByTag or BySearch; the zero value is NoFilter.
type Filter struct {
	kind  FilterKind
	value string
}

func NoFilter() Filter {
	return Filter{}
}

// ByCategory matches posts whose category equals cat (case-sensitive).
func ByCategory(cat string) Filter {
	return Filter{kind: FilterCategory, value: cat}
}

// ByTag matches posts carrying tag exactly.
func ByTag(tag string) Filter {
	return Filter{kind: FilterTag, value: tag}
}

// BySearch lowercases and trims query. An empty query is NoFilter.
func BySearch(query string) Filter {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return NoFilter()
	}
	return Filter{kind: FilterSearch, value: q}
}

func (f Filter) Kind() FilterKind {
	return f.kind
}

func (f Filter) Value() string {
	return f.value
}

func (f Filter) IsNone() bool {
	return f.kind == FilterNone
}

// Match reports whether p satisfies the filter.
func (f Filter) Match(p *Post) bool {
	switch f.kind {
	case FilterCategory:
		return p.Category == f.value
	case FilterTag:
		return p.HasTag(f.value)
	case FilterSearch:
		return p.matchesQuery(f.value)
	default:
		return true
	}
}

func (f Filter) String() string {
	if f.kind == FilterNone {
		return "none"
	}
	return f.kind.String() + ":" + f.value
}

// MarshalText lets views and logs show the filter as "kind:value".
func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
