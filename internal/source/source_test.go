package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/blog-catalog/internal/catalog"
	"github.com/daniilsolovey/blog-catalog/internal/db"
)

const postsJSON = `[{"id":1,"title":"A","date":"2024-01-01","tags":["go"]},{"id":2,"title":"B","date":"2024-01-02"}]`

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func newTestHTTP(url string, retries int, cache Cache) *HTTP {
	return NewHTTP(HTTPOptions{
		URL:             url,
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		Cache:           cache,
		CacheTTL:        time.Minute,
	})
}

func TestHTTP_Posts(t *testing.T) {
	t.Run("RetriesUnavailable", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, postsJSON)
		}))
		defer srv.Close()

		records, err := newTestHTTP(srv.URL+"/posts.json", 3, nil).Posts(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("NotFoundIsPermanent", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := newTestHTTP(srv.URL, 3, nil).Posts(context.Background())

		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("RetriesExhausted", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestHTTP(srv.URL, 2, nil).Posts(context.Background())
		require.Error(t, err)
		assert.True(t, IsRetryable(err))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("ServesCachedBody", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			_, _ = io.WriteString(w, postsJSON)
		}))
		defer srv.Close()

		src := newTestHTTP(srv.URL, 0, newMemCache())
		for i := 0; i < 3; i++ {
			records, err := src.Posts(context.Background())
			require.NoError(t, err)
			assert.Len(t, records, 2)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("RefreshBypassesCache", func(t *testing.T) {
		var calls int32
		var body atomic.Value
		body.Store(`[{"title":"A","date":"2024-01-01"}]`)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			_, _ = io.WriteString(w, body.Load().(string))
		}))
		defer srv.Close()

		src := newTestHTTP(srv.URL, 0, newMemCache())
		records, err := src.Posts(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 1)

		body.Store(postsJSON)

		records, err = src.Posts(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 1, "cache-first read keeps the cached body")

		records, err = src.Refresh(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

		records, err = src.Posts(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2, "refreshed body replaces the cache entry")
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("OversizedBodyFails", func(t *testing.T) {
		var calls int32
		csv := "title,date\n" + strings.Repeat("Post,2024-01-01\n", 100)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			_, _ = io.WriteString(w, csv)
		}))
		defer srv.Close()

		src := NewHTTP(HTTPOptions{
			URL:             srv.URL + "/posts.csv",
			MaxRetries:      3,
			InitialInterval: time.Millisecond,
			MaxPayloadBytes: int64(len(csv) - 1),
		})
		_, err := src.Posts(context.Background())
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

		src = NewHTTP(HTTPOptions{URL: srv.URL + "/posts.csv", MaxPayloadBytes: int64(len(csv))})
		records, err := src.Posts(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 100)
	})

	t.Run("CSVExport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "csv", r.URL.Query().Get("format"))
			_, _ = io.WriteString(w, "title,date,tags\nA,2024-01-01,go|web\n")
		}))
		defer srv.Close()

		records, err := newTestHTTP(srv.URL+"/export?format=csv", 0, nil).Posts(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, []string{"go", "web"}, records[0].Tags)
	})

	t.Run("MalformedBodyIsDataError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<html>")
		}))
		defer srv.Close()

		_, err := newTestHTTP(srv.URL, 0, nil).Posts(context.Background())
		assert.ErrorIs(t, err, catalog.ErrData)
	})
}

func TestReadPayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr bool
	}{
		{"Empty", "", 4, false},
		{"BelowLimit", "abc", 4, false},
		{"AtLimit", "abcd", 4, false},
		{"OverLimit", "abcde", 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := readPayload(strings.NewReader(tt.body), tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPayloadTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Plain", errors.New("boom"), false},
		{"Marked", &RetryableError{Err: errors.New("reset")}, true},
		{"TooManyRequests", &FetchError{StatusCode: http.StatusTooManyRequests}, true},
		{"GatewayTimeout", &FetchError{StatusCode: http.StatusGatewayTimeout}, true},
		{"Forbidden", &FetchError{StatusCode: http.StatusForbidden}, false},
		{"DataError", catalog.NewDataError(errors.New("bad")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestRetrier_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRetrier(RetrierOptions{MaxRetries: 100, InitialInterval: time.Millisecond})

	var calls int
	err := r.Retry(ctx, func() error {
		calls++
		if calls == 2 {
			cancel()
		}
		return &RetryableError{Err: errors.New("flaky")}
	})
	require.Error(t, err)
	assert.Less(t, calls, 100)
}

func TestFile_Posts(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"posts.json": postsJSON,
		"posts.yaml": "- title: A\n  date: 2024-01-01\n",
		"posts.csv":  "title,date\nA,2024-01-01\nB,2024-01-02\n",
	}
	want := map[string]int{"posts.json": 2, "posts.yaml": 1, "posts.csv": 2}

	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		records, err := NewFile(path, "").Posts(context.Background())
		require.NoError(t, err, name)
		assert.Len(t, records, want[name], name)
	}

	_, err := NewFile(filepath.Join(dir, "missing.json"), "").Posts(context.Background())
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

type fakeS3 struct {
	objects map[string]string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3_Posts(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"blog/posts.json": postsJSON,
		"blog/posts.csv":  "title,date\nA,2024-01-01\n",
	}}

	records, err := NewS3(client, "blog", "posts.json", "").Posts(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = NewS3(client, "blog", "posts.csv", "").Posts(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	client.objects["blog/huge.csv"] = strings.Repeat("x", maxPayloadBytes+1)
	_, err = NewS3(client, "blog", "huge.csv", "").Posts(context.Background())
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	_, err = NewS3(client, "blog", "gone.json", "").Posts(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, "s3://blog/gone.json", fetchErr.URL)
}

type stubLister struct {
	PostsFunc func(ctx context.Context) ([]db.Post, error)
}

func (s *stubLister) Posts(ctx context.Context) ([]db.Post, error) {
	return s.PostsFunc(ctx)
}

func TestPostgres_Posts(t *testing.T) {
	slug := "react-hooks"
	image := "/img/r.png"
	published := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

	src := NewPostgres(&stubLister{PostsFunc: func(ctx context.Context) ([]db.Post, error) {
		return []db.Post{
			{
				ID: 7, Slug: &slug, Title: "React hooks", Description: "d",
				PublishedAt: published, Tags: []string{"react"}, URL: "/p/7", Image: &image,
				Category: &db.Category{ID: 1, Title: "Tech"},
			},
			{ID: 8, Title: "Note", PublishedAt: published.Add(-time.Hour)},
		}, nil
	}})

	records, err := src.Posts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, catalog.Record{
		ID:          "react-hooks",
		Title:       "React hooks",
		Description: "d",
		Date:        "2024-01-10T09:30:00Z",
		Category:    "Tech",
		Tags:        []string{"react"},
		URL:         "/p/7",
		Image:       "/img/r.png",
	}, records[0])
	assert.Equal(t, catalog.ID("8"), records[1].ID)
	assert.Empty(t, records[1].Category)

	failing := NewPostgres(&stubLister{PostsFunc: func(ctx context.Context) ([]db.Post, error) {
		return nil, errors.New("connection refused")
	}})
	_, err = failing.Posts(context.Background())
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestStatic_Posts(t *testing.T) {
	src := NewStatic([]catalog.Record{{Title: "A", Date: "2024-01-01"}})
	records, err := src.Posts(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	boom := errors.New("boom")
	_, err = NewFailing(boom).Posts(context.Background())
	assert.ErrorIs(t, err, boom)
}
