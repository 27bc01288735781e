package rest

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	apiV1Prefix = "/api/v1"
	healthPath  = "/health"
)

// RegisterRoutes builds the echo instance serving the blog API.
func (h *BlogHandler) RegisterRoutes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(h.loggingMiddleware)

	h.Mount(e)

	return e
}

// Mount registers the API routes on an existing echo instance.
func (h *BlogHandler) Mount(e *echo.Echo) {
	api := e.Group(apiV1Prefix)
	api.GET("/posts", h.Posts)
	api.GET("/posts/:id", h.PostByID)
	api.GET("/categories", h.Categories)
	api.GET("/tags", h.Tags)
	api.GET("/recent", h.Recent)
	api.GET("/facets", h.Facets)
	api.POST("/reload", h.Reload)

	e.GET(healthPath, h.Health)
}

func (h *BlogHandler) loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		h.log.InfoContext(req.Context(), "HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Response().Status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.RealIP(),
		)

		return nil
	}
}
