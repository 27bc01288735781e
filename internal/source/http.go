package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/daniilsolovey/blog-catalog/internal/catalog"
)

const (
	defaultTimeout  = 15 * time.Second
	maxPayloadBytes = 16 << 20
	userAgent       = "blog-catalog/1.0"
)

type HTTPOptions struct {
	URL             string
	Format          Format
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
	Cache           Cache
	CacheTTL        time.Duration
	MaxPayloadBytes int64
	Logger          *slog.Logger
	Client          *http.Client
}

// HTTP fetches posts.json or a spreadsheet CSV export over HTTP(S).
type HTTP struct {
	url      string
	format   Format
	client   *http.Client
	retrier  *Retrier
	cache      Cache
	cacheTTL   time.Duration
	maxPayload int64
	logger     *slog.Logger
}

func NewHTTP(opts HTTPOptions) *HTTP {
	if opts.Format == "" {
		opts.Format = FormatFromURL(opts.URL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.MaxPayloadBytes <= 0 {
		opts.MaxPayloadBytes = maxPayloadBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &HTTP{
		url:    opts.URL,
		format: opts.Format,
		client: opts.Client,
		retrier: NewRetrier(RetrierOptions{
			MaxRetries:      opts.MaxRetries,
			InitialInterval: opts.InitialInterval,
		}),
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		maxPayload: opts.MaxPayloadBytes,
		logger:     opts.Logger,
	}
}

func (h *HTTP) Name() string { return "http" }

// Posts returns the decoded records. A cached payload is served when present,
// otherwise the URL is fetched with retries and the body cached on success.
func (h *HTTP) Posts(ctx context.Context) ([]catalog.Record, error) {
	if h.cache != nil {
		if body, err := h.cache.Get(ctx, h.url); err == nil {
			h.logger.DebugContext(ctx, "serving posts from cache", "url", h.url)
			return Decode(h.format, body)
		}
	}

	return h.download(ctx)
}

// Refresh drops the cached payload and fetches the URL again.
func (h *HTTP) Refresh(ctx context.Context) ([]catalog.Record, error) {
	if h.cache != nil {
		if err := h.cache.Delete(ctx, h.url); err != nil {
			h.logger.WarnContext(ctx, "failed to drop cached posts", "url", h.url, "error", err)
		}
	}

	return h.download(ctx)
}

func (h *HTTP) download(ctx context.Context) ([]catalog.Record, error) {
	var body []byte
	err := h.retrier.Retry(ctx, func() error {
		var err error
		body, err = h.fetch(ctx)
		if err != nil && IsRetryable(err) {
			h.logger.WarnContext(ctx, "fetch failed, retrying", "url", h.url, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	records, err := Decode(h.format, body)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, h.url, body, h.cacheTTL); err != nil {
			h.logger.WarnContext(ctx, "failed to cache posts", "url", h.url, "error", err)
		}
	}

	return records, nil
}

func (h *HTTP) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, &FetchError{URL: h.url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, &FetchError{URL: h.url, Err: err}
		}
		return nil, &RetryableError{Err: &FetchError{URL: h.url, Err: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			URL:        h.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := readPayload(resp.Body, h.maxPayload)
	if errors.Is(err, ErrPayloadTooLarge) {
		return nil, &FetchError{URL: h.url, Err: err}
	} else if err != nil {
		return nil, &RetryableError{Err: &FetchError{URL: h.url, Err: err}}
	}

	return body, nil
}
