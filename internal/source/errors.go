package source

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnsupportedFormat is returned for payload formats no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported source format")

	// ErrPayloadTooLarge is returned instead of decoding a truncated body.
	ErrPayloadTooLarge = errors.New("payload exceeds size limit")
)

// FetchError is a failure to obtain the raw payload from a source.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RetryableError marks a failure worth another attempt.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is transient: explicitly marked, or a
// fetch that failed with a throttling / gateway status.
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return shouldRetryStatus(fetchErr.StatusCode)
	}

	return false
}

func shouldRetryStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
