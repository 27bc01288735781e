package rpc

import (
	"context"
	"errors"
	"strings"

	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/blog-catalog/internal/blog"
)

//go:generate zenrpc

// BlogService provides RPC methods for the blog index.
type BlogService struct {
	zenrpc.Service
	manager *blog.Manager
}

func NewBlogService(manager *blog.Manager) *BlogService {
	return &BlogService{manager: manager}
}

func newManagerError(err error) error {
	switch {
	case errors.Is(err, blog.ErrNotLoaded):
		return zenrpc.NewStringError(503, "failed to load posts")
	case errors.Is(err, blog.ErrConflictingFilters):
		return zenrpc.NewStringError(400, err.Error())
	default:
		return err
	}
}

func (s *BlogService) recentCount(n *int) (int, error) {
	if n == nil {
		return s.manager.RecentCount(), nil
	}
	if *n < 0 {
		return 0, zenrpc.NewStringError(400, "n must not be negative")
	}
	return *n, nil
}

// List returns one page of posts, newest first, narrowed by at most one filter.
//
//zenrpc:filter category, tag or search plus page (1-based, clamped)
//zenrpc:return page of posts with pagination state
//zenrpc:400 only one of category, tag or search may be set
//zenrpc:503 failed to load posts
func (s *BlogService) List(ctx context.Context, filter PostsFilter) (*PostsPage, error) {
	view, err := s.manager.Query(blog.Query{
		Category: filter.Category,
		Tag:      filter.Tag,
		Search:   filter.Search,
		Page:     filter.Page,
	})
	if err != nil {
		return nil, newManagerError(err)
	}

	page := NewPostsPage(view)
	return &page, nil
}

// ByID returns a single post.
//
//zenrpc:id post id
//zenrpc:return post
//zenrpc:400 id is empty
//zenrpc:404 post not found
//zenrpc:503 failed to load posts
func (s *BlogService) ByID(ctx context.Context, id string) (*Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, zenrpc.NewStringError(400, "id is empty")
	}

	p, ok, err := s.manager.Post(id)
	if err != nil {
		return nil, newManagerError(err)
	} else if !ok {
		return nil, zenrpc.NewStringError(404, "post not found")
	}

	post := NewPost(p)
	return &post, nil
}

// Categories returns distinct categories sorted by name with post counts.
//
//zenrpc:return list of categories
//zenrpc:503 failed to load posts
func (s *BlogService) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.manager.Categories()
	if err != nil {
		return nil, newManagerError(err)
	}

	return Map(categories, NewCategory), nil
}

// Tags returns distinct tags sorted ascending.
//
//zenrpc:return list of tags
//zenrpc:503 failed to load posts
func (s *BlogService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.manager.Tags()
	if err != nil {
		return nil, newManagerError(err)
	}

	return tags, nil
}

// Recent returns the newest posts.
//
//zenrpc:n number of posts, the configured recent count when omitted
//zenrpc:return list of posts
//zenrpc:400 n must not be negative
//zenrpc:503 failed to load posts
func (s *BlogService) Recent(ctx context.Context, n *int) ([]Post, error) {
	count, err := s.recentCount(n)
	if err != nil {
		return nil, err
	}

	posts, err := s.manager.Recent(count)
	if err != nil {
		return nil, newManagerError(err)
	}

	return Map(posts, NewPost), nil
}

// Facets returns categories, tags and recent posts in one call.
//
//zenrpc:n number of recent posts, the configured recent count when omitted
//zenrpc:return sidebar data
//zenrpc:400 n must not be negative
//zenrpc:503 failed to load posts
func (s *BlogService) Facets(ctx context.Context, n *int) (*Facets, error) {
	count, err := s.recentCount(n)
	if err != nil {
		return nil, err
	}

	facets, err := s.manager.Facets(count)
	if err != nil {
		return nil, newManagerError(err)
	}

	result := NewFacets(facets)
	return &result, nil
}
