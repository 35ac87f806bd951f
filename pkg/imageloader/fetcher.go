package imageloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

// HTTPFetcher downloads assets over HTTP. Concurrent fetches of the same
// URL share one request; only the first caller receives progress. The
// shared request outlives any single caller's cancellation.
type HTTPFetcher struct {
	client *http.Client
	g      singleflight.Group
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{
			Timeout:   time.Minute,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, progress func(received, total int64)) ([]byte, error) {
	ch := f.g.DoChan(url, func() (interface{}, error) {
		return f.fetch(context.WithoutCancel(ctx), url, progress)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string, progress func(received, total int64)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	total := resp.ContentLength
	progress(0, total)

	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	r := &progressReader{r: resp.Body, total: total, report: progress}
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return buf.Bytes(), nil
}

type progressReader struct {
	r        io.Reader
	received int64
	total    int64
	report   func(received, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.received += int64(n)
		p.report(p.received, p.total)
	}
	return n, err
}
