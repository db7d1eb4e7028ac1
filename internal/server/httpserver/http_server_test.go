package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	"github.com/divvun/divvun-worker-grammar/internal/config"
	"github.com/divvun/divvun-worker-grammar/internal/ratelimit"
	"github.com/divvun/divvun-worker-grammar/internal/server/responses"
	helpers "github.com/divvun/divvun-worker-grammar/internal/testutil/testutils"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	path := helpers.WriteBundle(t, helpers.DefaultBundleFixture())
	b, err := bundle.Load(path)
	require.NoError(t, err)
	return New(config.Default(), bundle.NewProvider(b), opts)
}

func TestHandlerRoutes(t *testing.T) {
	srv := newTestServer(t, Options{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// POST / runs a check
	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"text":"well i agree"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pr responses.ProcessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
	assert.Len(t, pr.Errs, 1)

	// GET /preferences
	resp2, err := http.Get(ts.URL + "/preferences")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	// GET /health
	resp3, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
}

func TestHandlerAppliesMiddleware(t *testing.T) {
	srv := newTestServer(t, Options{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestHandlerRateLimiting(t *testing.T) {
	srv := newTestServer(t, Options{
		RateLimitStore: ratelimit.NewStore(1, 1),
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	first, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"text":"hi"}`))
	require.NoError(t, err)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"text":"hi"}`))
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestAdminHandlerStatus(t *testing.T) {
	srv := newTestServer(t, Options{})
	ts := httptest.NewServer(srv.AdminHandler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sr responses.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	assert.Equal(t, "running", sr.Status)
	assert.Equal(t, "test-grammar", sr.Bundle.Name)
}

func TestStartRejectsBusyPort(t *testing.T) {
	srv := newTestServer(t, Options{})
	blocker := newTestServer(t, Options{})

	cfg := srv.cfg
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 49381
	blocker.cfg.Server.Host = "127.0.0.1"
	blocker.cfg.Server.Port = 49381

	ctx := context.Background()
	require.NoError(t, blocker.Start(ctx))
	defer blocker.Stop(ctx)

	err := srv.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http startup failed")
}

func TestHandlerUnknownPathsReturn404(t *testing.T) {
	srv := newTestServer(t, Options{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/favicon.ico")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2, err := http.Post(ts.URL+"/no/such/route", "application/json", strings.NewReader(`{"text":"hi"}`))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
