package sitemap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer counts revalidation hits per path.
type recordingServer struct {
	*httptest.Server

	mu     sync.Mutex
	hits   map[string]int
	status int
}

func newRecordingServer() *recordingServer {
	s := &recordingServer{hits: make(map[string]int), status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Query().Get("path")]++
		s.mu.Unlock()
		w.WriteHeader(s.status)
	}))
	return s
}

func (s *recordingServer) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func TestPinger_Ping(t *testing.T) {
	srv := newRecordingServer()
	defer srv.Close()

	p := NewPinger(srv.URL, "s3cret", time.Minute)

	require.NoError(t, p.Ping(context.Background(), "/product/shirt"))
	assert.Equal(t, 1, srv.hitCount("/product/shirt"))
}

func TestPinger_DedupWindow(t *testing.T) {
	srv := newRecordingServer()
	defer srv.Close()

	p := NewPinger(srv.URL, "", time.Minute)

	require.NoError(t, p.Ping(context.Background(), "/product/shirt"))
	require.NoError(t, p.Ping(context.Background(), "/product/shirt"))

	assert.Equal(t, 1, srv.hitCount("/product/shirt"), "second ping within the window is skipped")
}

func TestPinger_FailedPingRetries(t *testing.T) {
	srv := newRecordingServer()
	defer srv.Close()
	srv.status = http.StatusInternalServerError

	p := NewPinger(srv.URL, "", time.Minute)

	require.Error(t, p.Ping(context.Background(), "/product/shirt"))

	// The failure released the claim, so a retry goes through.
	srv.status = http.StatusOK
	require.NoError(t, p.Ping(context.Background(), "/product/shirt"))
	assert.Equal(t, 2, srv.hitCount("/product/shirt"))
}

func TestPinger_PingAll(t *testing.T) {
	srv := newRecordingServer()
	defer srv.Close()

	p := NewPinger(srv.URL, "", 0)
	paths := []string{"/", "/product/a", "/product/b", "/product/c"}

	require.NoError(t, p.PingAll(context.Background(), paths, 2))
	for _, path := range paths {
		assert.Equal(t, 1, srv.hitCount(path), path)
	}
}

func TestPinger_PingAllPropagatesFailure(t *testing.T) {
	srv := newRecordingServer()
	defer srv.Close()
	srv.status = http.StatusForbidden

	p := NewPinger(srv.URL, "wrong", 0)

	assert.Error(t, p.PingAll(context.Background(), []string{"/a", "/b"}, 2))
}
