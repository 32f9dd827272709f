package sitemap

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

// Pinger asks the frontend to regenerate cached pages by calling its
// revalidation endpoint. Paths pinged within the dedup window are skipped,
// so a product appearing in several sitemaps only triggers one rebuild.
type Pinger struct {
	client   *http.Client
	endpoint string
	secret   string
	window   time.Duration

	mu     sync.Mutex
	pinged map[string]time.Time
}

// NewPinger creates a Pinger against the given revalidation endpoint.
// A non-positive window disables deduplication.
func NewPinger(endpoint, secret string, window time.Duration) *Pinger {
	return &Pinger{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: endpoint,
		secret:   secret,
		window:   window,
		pinged:   make(map[string]time.Time),
	}
}

// Ping requests regeneration of a single page path. Recently pinged paths
// are skipped without an error.
func (p *Pinger) Ping(ctx context.Context, path string) error {
	if !p.claim(path, time.Now()) {
		return nil
	}

	q := url.Values{"path": {path}}
	if p.secret != "" {
		q.Set("secret", p.secret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.release(path)
		return errors.Wrapf(err, "revalidate %s", path)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		p.release(path)
		return errors.Errorf("revalidate %s: status %d", path, resp.StatusCode)
	}
	return nil
}

// PingAll revalidates the given paths with up to concurrency requests in
// flight. The first failure cancels the rest.
func (p *Pinger) PingAll(ctx context.Context, paths []string, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, path := range paths {
		g.Go(func() error {
			return p.Ping(ctx, path)
		})
	}
	return g.Wait()
}

// claim marks the path as pinged and reports whether the caller should
// proceed. Returns false when the path was pinged within the dedup window.
func (p *Pinger) claim(path string, now time.Time) bool {
	if p.window <= 0 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if at, ok := p.pinged[path]; ok && now.Sub(at) < p.window {
		return false
	}
	p.pinged[path] = now
	return true
}

// release forgets a claimed path so a failed ping can be retried.
func (p *Pinger) release(path string) {
	if p.window <= 0 {
		return
	}
	p.mu.Lock()
	delete(p.pinged, path)
	p.mu.Unlock()
}
