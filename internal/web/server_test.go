package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/tour-content/internal/vars"
)

func TestHandlerRoutes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "content_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	var ready atomic.Bool
	h := NewHandler(reg, ready.Load)

	rec := serve(h, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	ready.Store(true)
	rec = serve(h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "content_test_total 1")

	rec = serve(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	var info vars.BuildInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, vars.Version, info.Version)
}

func TestHandlerWithoutMetrics(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil, nil)

	// Without a gatherer /metrics falls through to the build info route.
	rec := serve(h, "/metrics")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = serve(h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerLifecycle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := NewServer(ctx, "127.0.0.1:0", NewHandler(nil, nil))
	require.NoError(t, err)
	srv.Start()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()), "second shutdown is a no-op")
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}
