package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options bound a single fetch. The zero value means no timeout and
// no size cap.
type Options struct {
	Timeout time.Duration
	MaxSize int
}

// A Downloader fetches the body behind a URL, possibly from a cache.
// Whether and how long bodies are cached is the implementation's
// business; Options only constrain the fetch itself.
type Downloader interface {
	Get(ctx context.Context, url string, options Options) ([]byte, error)
}

// Direct fetches over HTTP with no caching.
type Direct struct{}

func (Direct) Get(ctx context.Context, url string, options Options) ([]byte, error) {
	return fetch(ctx, url, options)
}

func fetch(ctx context.Context, url string, options Options) ([]byte, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}
