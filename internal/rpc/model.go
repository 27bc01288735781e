package rpc

import "time"

type PostsFilter struct {
	Category string `json:"category,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page,omitempty"`
}

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

type PostsPage struct {
	Posts       []Post `json:"posts"`
	Filter      string `json:"filter"`
	CurrentPage int    `json:"currentPage"`
	PageCount   int    `json:"pageCount"`
	Total       int    `json:"total"`
	HasPrev     bool   `json:"hasPrev"`
	HasNext     bool   `json:"hasNext"`
	Empty       bool   `json:"empty"`
}

type Facets struct {
	Categories []Category `json:"categories"`
	Tags       []string   `json:"tags"`
	Recent     []Post     `json:"recent"`
}
