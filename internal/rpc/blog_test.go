package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/blog-catalog/internal/blog"
	"github.com/daniilsolovey/blog-catalog/internal/catalog"
	"github.com/daniilsolovey/blog-catalog/internal/source"
)

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func noOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRPC(t *testing.T, src source.Source, load bool) http.Handler {
	t.Helper()
	m := blog.NewManager(src, 2, noOpLogger())
	if load {
		require.NoError(t, m.Reload(context.Background()))
	}
	return New(noOpLogger(), m)
}

func call(t *testing.T, h http.Handler, method string, params interface{}) rpcResponse {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func testRecords() []catalog.Record {
	return []catalog.Record{
		{ID: "1", Title: "React hooks", Date: "2024-01-10", Category: "Tech", Tags: []string{"react"}},
		{ID: "2", Title: "Morning walks", Date: "2024-01-09", Category: "Life", Tags: []string{"health"}},
		{ID: "3", Title: "Testing React", Date: "2024-01-08", Category: "Tech", Tags: []string{"react", "testing"}},
	}
}

func TestBlogService_List(t *testing.T) {
	h := newTestRPC(t, source.NewStatic(testRecords()), true)

	t.Run("Default", func(t *testing.T) {
		resp := call(t, h, "blog.list", map[string]interface{}{"filter": map[string]interface{}{}})
		require.Nil(t, resp.Error)

		var page PostsPage
		require.NoError(t, json.Unmarshal(resp.Result, &page))
		assert.Len(t, page.Posts, 2)
		assert.Equal(t, 2, page.PageCount)
		assert.True(t, page.HasNext)
		assert.Equal(t, "none", page.Filter)
	})

	t.Run("PositionalParams", func(t *testing.T) {
		resp := call(t, h, "blog.list", []interface{}{map[string]interface{}{"tag": "react", "page": 2}})
		require.Nil(t, resp.Error)

		var page PostsPage
		require.NoError(t, json.Unmarshal(resp.Result, &page))
		require.Len(t, page.Posts, 2)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 1, page.PageCount)
		assert.Equal(t, "tag:react", page.Filter)
	})

	t.Run("Search", func(t *testing.T) {
		resp := call(t, h, "blog.list", map[string]interface{}{"filter": map[string]interface{}{"search": "REACT"}})
		require.Nil(t, resp.Error)

		var page PostsPage
		require.NoError(t, json.Unmarshal(resp.Result, &page))
		require.Len(t, page.Posts, 2)
		assert.Equal(t, "1", page.Posts[0].ID)
		assert.Equal(t, "3", page.Posts[1].ID)
	})

	t.Run("ConflictingFilters", func(t *testing.T) {
		resp := call(t, h, "blog.list", map[string]interface{}{"filter": map[string]interface{}{"tag": "react", "category": "Tech"}})
		require.NotNil(t, resp.Error)
		assert.Equal(t, 400, resp.Error.Code)
	})
}

func TestBlogService_ByID(t *testing.T) {
	h := newTestRPC(t, source.NewStatic(testRecords()), true)

	resp := call(t, h, "blog.byId", map[string]interface{}{"id": "2"})
	require.Nil(t, resp.Error)
	var post Post
	require.NoError(t, json.Unmarshal(resp.Result, &post))
	assert.Equal(t, "Morning walks", post.Title)

	resp = call(t, h, "blog.byId", map[string]interface{}{"id": "42"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, 404, resp.Error.Code)

	resp = call(t, h, "blog.byId", map[string]interface{}{"id": " "})
	require.NotNil(t, resp.Error)
	assert.Equal(t, 400, resp.Error.Code)
}

func TestBlogService_Facets(t *testing.T) {
	h := newTestRPC(t, source.NewStatic(testRecords()), true)

	resp := call(t, h, "blog.categories", nil)
	require.Nil(t, resp.Error)
	var categories []Category
	require.NoError(t, json.Unmarshal(resp.Result, &categories))
	assert.Equal(t, []Category{{Name: "Life", Count: 1}, {Name: "Tech", Count: 2}}, categories)

	resp = call(t, h, "blog.tags", nil)
	require.Nil(t, resp.Error)
	var tags []string
	require.NoError(t, json.Unmarshal(resp.Result, &tags))
	assert.Equal(t, []string{"health", "react", "testing"}, tags)

	resp = call(t, h, "blog.recent", map[string]interface{}{"n": 1})
	require.Nil(t, resp.Error)
	var recent []Post
	require.NoError(t, json.Unmarshal(resp.Result, &recent))
	require.Len(t, recent, 1)
	assert.Equal(t, "1", recent[0].ID)

	resp = call(t, h, "blog.recent", map[string]interface{}{"n": -1})
	require.NotNil(t, resp.Error)
	assert.Equal(t, 400, resp.Error.Code)

	resp = call(t, h, "blog.facets", map[string]interface{}{})
	require.Nil(t, resp.Error)
	var facets Facets
	require.NoError(t, json.Unmarshal(resp.Result, &facets))
	assert.Len(t, facets.Recent, 3)
	assert.Len(t, facets.Categories, 2)
}

func TestBlogService_NotLoaded(t *testing.T) {
	h := newTestRPC(t, source.NewFailing(errors.New("down")), false)

	for _, method := range []string{"blog.list", "blog.categories", "blog.tags", "blog.recent", "blog.facets"} {
		resp := call(t, h, method, map[string]interface{}{})
		require.NotNil(t, resp.Error, method)
		assert.Equal(t, 503, resp.Error.Code, method)
	}
}

func TestBlogService_SMD(t *testing.T) {
	info := BlogService{}.SMD()
	for _, name := range []string{"List", "ByID", "Categories", "Tags", "Recent", "Facets"} {
		assert.Contains(t, info.Methods, name)
	}
}
