package catalog

import "sort"

// CategoryCount is a category with the number of loaded posts in it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets drive the sidebar: categories, tags and the newest posts.
type Facets struct {
	Categories []CategoryCount `json:"categories"`
	Tags       []string        `json:"tags"`
	Recent     []Post          `json:"recent"`
}

// Categories counts posts per category over all loaded posts, ignoring the
// active filter, in ascending lexical order. Posts without a category are
// not counted.
func (c *Catalog) Categories() []CategoryCount {
	c.mu.Lock()
	defer c.mu.Unlock()
	return categoriesOf(c.all)
}

// Tags returns every distinct tag, ascending.
func (c *Catalog) Tags() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tagsOf(c.all)
}

// Recent returns the first n loaded posts (all of them when fewer).
func (c *Catalog) Recent(n int) []Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return recentOf(c.all, n)
}

func (c *Catalog) Facets(recent int) Facets {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Facets{
		Categories: categoriesOf(c.all),
		Tags:       tagsOf(c.all),
		Recent:     recentOf(c.all, recent),
	}
}

func categoriesOf(posts []Post) []CategoryCount {
	counts := make(map[string]int)
	for i := range posts {
		if posts[i].Category == "" {
			continue
		}
		counts[posts[i].Category]++
	}

	result := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		result = append(result, CategoryCount{Name: name, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

func tagsOf(posts []Post) []string {
	seen := make(map[string]struct{})
	result := []string{}
	for i := range posts {
		for _, t := range posts[i].Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			result = append(result, t)
		}
	}
	sort.Strings(result)

	return result
}

func recentOf(posts []Post, n int) []Post {
	if n < 0 {
		n = 0
	}
	if n > len(posts) {
		n = len(posts)
	}
	return append([]Post{}, posts[:n]...)
}
