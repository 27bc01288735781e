package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/blog-catalog/internal/blog"
	"github.com/daniilsolovey/blog-catalog/internal/catalog"
)

type PostsRequest struct {
	Category string `query:"category"`
	Tag      string `query:"tag"`
	Query    string `query:"q"`
	Page     *int   `query:"page"`
}

type RecentRequest struct {
	N *int `query:"n"`
}

type BlogHandler struct {
	m   *blog.Manager
	log *slog.Logger
}

func NewBlogHandler(m *blog.Manager, log *slog.Logger) *BlogHandler {
	return &BlogHandler{
		m:   m,
		log: log,
	}
}

func (h *BlogHandler) handleError(c echo.Context, err error, statusCode int, message string) error {
	h.log.Error("handleError", "error", err, "statusCode", statusCode, "message", message)
	return c.JSON(statusCode, map[string]string{"error": message})
}

// handleManagerError maps catalog state errors to responses.
func (h *BlogHandler) handleManagerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, blog.ErrNotLoaded):
		return h.handleError(c, err, http.StatusServiceUnavailable, "failed to load posts")
	case errors.Is(err, blog.ErrConflictingFilters):
		return h.handleError(c, err, http.StatusBadRequest, err.Error())
	default:
		return h.handleError(c, err, http.StatusInternalServerError, "internal error")
	}
}

func (h *BlogHandler) recentCount(c echo.Context) (int, error) {
	var req RecentRequest
	if err := c.Bind(&req); err != nil {
		return 0, err
	}
	if req.N == nil {
		return h.m.RecentCount(), nil
	}
	if *req.N < 0 {
		return 0, errors.New("n must not be negative")
	}
	return *req.N, nil
}

// Posts handles GET /api/v1/posts
// @Summary List posts
// @Description Returns one page of posts, newest first, narrowed by at most one of category, tag or q
// @Tags posts
// @Produce json
// @Param category query string false "Exact category"
// @Param tag query string false "Exact tag"
// @Param q query string false "Case-insensitive search in title, description and tags"
// @Param page query int false "Page number (default: 1), clamped to the last page"
// @Success 200 {object} rest.PostsPage
// @Failure 400,500,503 {object} map[string]string
// @Router /api/v1/posts [get]
func (h *BlogHandler) Posts(c echo.Context) error {
	var req PostsRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	q := blog.Query{Category: req.Category, Tag: req.Tag, Search: req.Query, Page: 1}
	if req.Page != nil {
		q.Page = *req.Page
	}

	view, err := h.m.Query(q)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, NewPostsPage(view))
}

// PostByID handles GET /api/v1/posts/:id
// @Summary Get post by ID
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} rest.Post
// @Failure 400,404,503 {object} map[string]string
// @Router /api/v1/posts/{id} [get]
func (h *BlogHandler) PostByID(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return h.handleError(c, nil, http.StatusBadRequest, "invalid id")
	}

	post, ok, err := h.m.Post(id)
	if err != nil {
		return h.handleManagerError(c, err)
	} else if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
	}

	return c.JSON(http.StatusOK, NewPost(post))
}

// Categories handles GET /api/v1/categories
// @Summary Get categories
// @Description Distinct categories sorted by name, with post counts
// @Tags facets
// @Produce json
// @Success 200 {array} rest.Category
// @Failure 503 {object} map[string]string
// @Router /api/v1/categories [get]
func (h *BlogHandler) Categories(c echo.Context) error {
	categories, err := h.m.Categories()
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, NewCategories(categories))
}

// Tags handles GET /api/v1/tags
// @Summary Get tags
// @Tags facets
// @Produce json
// @Success 200 {array} string
// @Failure 503 {object} map[string]string
// @Router /api/v1/tags [get]
func (h *BlogHandler) Tags(c echo.Context) error {
	tags, err := h.m.Tags()
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, tags)
}

// Recent handles GET /api/v1/recent
// @Summary Get recent posts
// @Tags facets
// @Produce json
// @Param n query int false "Number of posts (default: 5)"
// @Success 200 {array} rest.Post
// @Failure 400,503 {object} map[string]string
// @Router /api/v1/recent [get]
func (h *BlogHandler) Recent(c echo.Context) error {
	n, err := h.recentCount(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	posts, err := h.m.Recent(n)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, NewPosts(posts))
}

// Facets handles GET /api/v1/facets
// @Summary Get sidebar data
// @Description Categories, tags and recent posts in one response
// @Tags facets
// @Produce json
// @Param n query int false "Number of recent posts (default: 5)"
// @Success 200 {object} rest.Facets
// @Failure 400,503 {object} map[string]string
// @Router /api/v1/facets [get]
func (h *BlogHandler) Facets(c echo.Context) error {
	n, err := h.recentCount(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	facets, err := h.m.Facets(n)
	if err != nil {
		return h.handleManagerError(c, err)
	}

	return c.JSON(http.StatusOK, NewFacets(facets))
}

// Reload handles POST /api/v1/reload
// @Summary Reload posts from the source
// @Description Fetches the origin again, bypassing the feed cache
// @Tags admin
// @Produce json
// @Success 200 {object} blog.Health
// @Failure 502 {object} map[string]string
// @Router /api/v1/reload [post]
func (h *BlogHandler) Reload(c echo.Context) error {
	err := h.m.Reload(c.Request().Context())
	if err != nil && !errors.Is(err, blog.ErrSuperseded) {
		return h.handleError(c, err, http.StatusBadGateway, "failed to reload posts")
	}

	return c.JSON(http.StatusOK, h.m.Health())
}

// Health handles GET /health
func (h *BlogHandler) Health(c echo.Context) error {
	health := h.m.Health()
	if health.Status != catalog.StatusReady {
		return c.JSON(http.StatusServiceUnavailable, health)
	}

	return c.JSON(http.StatusOK, health)
}
