package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	mu    sync.Mutex
	token string
}

func (s *stubTokens) Token(context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *stubTokens) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func testOptions(baseURL string) Options {
	return Options{
		BaseURL:        baseURL,
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    2 * time.Second,
		WriteTimeout:   2 * time.Second,
	}
}

type recorded struct {
	mu      sync.Mutex
	auth    []string
	paths   []string
	queries []url.Values
	headers []http.Header
	bodies  []map[string]any
}

func recordingServer(t *testing.T, status int, body string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		rec.mu.Lock()
		rec.auth = append(rec.auth, r.Header.Get("Authorization"))
		rec.paths = append(rec.paths, r.URL.Path)
		rec.queries = append(rec.queries, r.URL.Query())
		rec.headers = append(rec.headers, r.Header.Clone())
		rec.bodies = append(rec.bodies, payload)
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestBearerHeaderFollowsStore(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, `[]`)
	tokens := &stubTokens{}
	c, err := New(tokens, testOptions(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "api/properties"})
	require.NoError(t, err)

	tokens.set("T1")
	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "api/properties"})
	require.NoError(t, err)

	tokens.set("T2")
	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "api/properties"})
	require.NoError(t, err)

	tokens.set("")
	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "api/properties"})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer T1", "Bearer T2", ""}, rec.auth)
}

func TestDoBuildsRequest(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusCreated, `{"id":1}`)
	c, err := New(&stubTokens{}, testOptions(srv.URL+"/"))
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/api/bookings",
		Query:  url.Values{"page": {"0"}},
		Body:   map[string]any{"propertyId": 42},
		Header: http.Header{HeaderIdempotencyKey: {"k-1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Created", resp.Status)
	assert.True(t, resp.IsSuccess())
	assert.JSONEq(t, `{"id":1}`, string(resp.Body))

	require.Len(t, rec.paths, 1)
	assert.Equal(t, "/api/bookings", rec.paths[0])
	assert.Equal(t, "0", rec.queries[0].Get("page"))
	assert.Equal(t, float64(42), rec.bodies[0]["propertyId"])
	assert.Equal(t, "application/json", rec.headers[0].Get("Content-Type"))
	assert.Equal(t, "k-1", rec.headers[0].Get(HeaderIdempotencyKey))
	assert.NotEmpty(t, rec.headers[0].Get(HeaderRequestID))
}

func TestBaseURLPathIsPreserved(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, `{}`)
	c, err := New(&stubTokens{}, testOptions(srv.URL+"/v1"))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "api/properties/3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/v1/api/properties/3"}, rec.paths)
}

func TestServerErrorIsAResponse(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusInternalServerError, `{"message":"boom"}`)
	opts := testOptions(srv.URL)
	opts.Breaker = BreakerSettings{Enabled: true, MaxFailures: 5, OpenTimeout: time.Minute}
	c, err := New(&stubTokens{}, opts)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "api/properties"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", resp.Status)
	assert.False(t, resp.IsSuccess())
}

func TestBreakerOpensAfterConsecutiveServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.Breaker = BreakerSettings{Enabled: true, MaxFailures: 3, OpenTimeout: time.Minute}
	c, err := New(&stubTokens{}, opts)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "api/properties"})
		require.NoError(t, err)
	}
	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "api/properties"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service temporarily unavailable")
	assert.Equal(t, int32(3), hits.Load())
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusNotFound, `{"message":"missing"}`)
	opts := testOptions(srv.URL)
	opts.Breaker = BreakerSettings{Enabled: true, MaxFailures: 2, OpenTimeout: time.Minute}
	c, err := New(&stubTokens{}, opts)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "api/properties/9"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	assert.Len(t, rec.paths, 5)
}

func TestConnectionFaultIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := New(&stubTokens{token: "T1"}, testOptions(addr))
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "api/properties"})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestCancelledContextIsAnError(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, `[]`)
	c, err := New(&stubTokens{}, testOptions(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Do(ctx, Request{Method: http.MethodGet, Path: "api/properties"})
	assert.Error(t, err)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(&stubTokens{}, testOptions("localhost"))
	assert.Error(t, err)
	_, err = New(&stubTokens{}, testOptions("://bad"))
	assert.Error(t, err)
}

func TestLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(0))
	l := newLimiter(60)
	require.NotNil(t, l)
	assert.Equal(t, 60, l.Burst())
}
