package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(baseURL string) *Client {
	return NewClient(testLogger(), Options{
		BaseURL:     baseURL,
		UserAgent:   "LetsGoApp/1.0",
		MinInterval: time.Millisecond,
		CacheTTL:    time.Minute,
	})
}

func TestGeocode_FirstResultWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "LetsGoApp/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "Najd Village, Riyadh", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat": "24.66", "lon": "46.73"}]`))
	}))
	defer srv.Close()

	coord := newTestClient(srv.URL).Geocode(context.Background(), "Najd Village, Riyadh")

	require.NotNil(t, coord)
	assert.Equal(t, 24.66, coord.Lat)
	assert.Equal(t, 46.73, coord.Lng)
}

func TestGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	assert.Nil(t, newTestClient(srv.URL).Geocode(context.Background(), "nowhere at all"))
}

func TestGeocode_UpstreamErrorIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over capacity", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	assert.Nil(t, newTestClient(srv.URL).Geocode(context.Background(), "Riyadh"))
}

func TestGeocode_UnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>blocked</html>`))
	}))
	defer srv.Close()

	assert.Nil(t, newTestClient(srv.URL).Geocode(context.Background(), "Riyadh"))
}

func TestGeocode_EmptyQuery(t *testing.T) {
	assert.Nil(t, newTestClient("http://127.0.0.1:0").Geocode(context.Background(), "   "))
}

func TestGeocode_CachesResults(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"lat": "24.66", "lon": "46.73"}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	first := client.Geocode(context.Background(), "Najd Village, Riyadh")
	second := client.Geocode(context.Background(), "najd village, riyadh") // key is case-insensitive

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGeocode_CachesNegativeResults(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	assert.Nil(t, client.Geocode(context.Background(), "nowhere"))
	assert.Nil(t, client.Geocode(context.Background(), "nowhere"))
	assert.Equal(t, int32(1), hits.Load())
}

func TestGeocode_UpstreamFailureIsNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "over capacity", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"lat": "24.66", "lon": "46.73"}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	assert.Nil(t, client.Geocode(context.Background(), "Najd Village, Riyadh"))

	// A transient 503 must not pin a negative entry; the retry has to reach
	// the upstream and resolve.
	coord := client.Geocode(context.Background(), "Najd Village, Riyadh")
	require.NotNil(t, coord)
	assert.Equal(t, 24.66, coord.Lat)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGeocode_RateLimitsOutboundCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat": "1", "lon": "2"}]`))
	}))
	defer srv.Close()

	interval := 50 * time.Millisecond
	client := NewClient(testLogger(), Options{
		BaseURL:     srv.URL,
		MinInterval: interval,
		CacheTTL:    time.Minute,
	})

	start := time.Now()
	client.Geocode(context.Background(), "first")
	client.Geocode(context.Background(), "second")
	elapsed := time.Since(start)

	// The second distinct lookup has to wait for a fresh token.
	assert.GreaterOrEqual(t, elapsed, interval)
}
