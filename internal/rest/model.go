package rest

import "time"

type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	URL         string     `json:"url"`
	Image       string     `json:"image,omitempty"`
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Filter struct {
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	PageCount   int  `json:"pageCount"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	HasPrev     bool `json:"hasPrev"`
	HasNext     bool `json:"hasNext"`
}

// PostsPage is one rendered page of the post list. Empty means the filter
// matched nothing ("no posts found").
type PostsPage struct {
	Items      []Post     `json:"items"`
	Pagination Pagination `json:"pagination"`
	Filter     Filter     `json:"filter"`
	Empty      bool       `json:"empty"`
}

type Facets struct {
	Categories []Category `json:"categories"`
	Tags       []string   `json:"tags"`
	Recent     []Post     `json:"recent"`
}
