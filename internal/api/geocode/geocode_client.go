// Package geocode resolves free-text place queries to coordinates through
// the Nominatim search API. Lookups are best-effort: any transport or parse
// failure yields a nil coordinate, never an error, so a failed lookup can
// never abort a parent request.
package geocode

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/letsgo-app/go-place-suggestions/app/observability/metrics"
	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

// Geocoder is the lookup contract consumed by the suggestion services.
type Geocoder interface {
	Geocode(ctx context.Context, query string) *types.Coordinate
}

// Client talks to Nominatim. A single token-bucket limiter gates every
// outbound lookup so the service as a whole stays under the 1 request per
// second usage policy, however many requests are in flight. The limiter is
// the only shared mutable state and is internally synchronized.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	cache      *gocache.Cache
	group      singleflight.Group
}

var _ Geocoder = (*Client)(nil)

// Options configures a Client. Zero values fall back to the Nominatim
// defaults used in production.
type Options struct {
	BaseURL     string
	UserAgent   string
	MinInterval time.Duration // spacing between outbound lookups
	CacheTTL    time.Duration
}

func NewClient(logger *slog.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://nominatim.openstreetmap.org/search"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "LetsGoApp/1.0"
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = 1100 * time.Millisecond
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 15 * time.Minute
	}
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		cache:      gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
	}
}

// nominatimResult is the subset of the Nominatim response we consume. The
// API returns coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves query to the highest-confidence coordinate, or nil when
// the query has no match or the lookup fails. Results are cached; duplicate
// concurrent lookups for the same query are collapsed into one upstream
// call.
func (c *Client) Geocode(ctx context.Context, query string) *types.Coordinate {
	ctx, span := otel.Tracer("GeocodeClient").Start(ctx, "Geocode")
	defer span.End()
	span.SetAttributes(attribute.String("geocode.query", query))

	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil
	}

	metrics.Get().GeocodeLookupsTotal.Add(ctx, 1)
	if cached, found := c.cache.Get(key); found {
		metrics.Get().GeocodeCacheHitsTotal.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("geocode.cache_hit", true))
		if coord, ok := cached.(*types.Coordinate); ok {
			return coord
		}
		return nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		coord, answered := c.lookup(ctx, query)
		// Only definitive answers go in the cache. Negative results are
		// cached too, since a query that resolves to nothing now will not
		// resolve in the next few minutes either, but a transport failure
		// or non-200 must not pin "no match" for the full TTL.
		if answered {
			c.cache.SetDefault(key, coord)
		}
		return coord, nil
	})
	if err != nil {
		return nil
	}
	coord, _ := result.(*types.Coordinate)
	return coord
}

// lookup performs one upstream call. answered reports whether the upstream
// gave a definitive result (match or genuine no-match); it is false on
// cancellation, transport failure or a non-200 status, which are transient
// and must not be cached.
func (c *Client) lookup(ctx context.Context, query string) (coord *types.Coordinate, answered bool) {
	l := c.logger.With(slog.String("query", query))

	if err := c.limiter.Wait(ctx); err != nil {
		l.WarnContext(ctx, "Geocode cancelled while waiting for rate limiter", slog.Any("error", err))
		return nil, false
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		l.WarnContext(ctx, "Failed to build geocode request", slog.Any("error", err))
		return nil, false
	}
	// Nominatim's usage policy requires a stable identifying agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.WarnContext(ctx, "Geocode request failed", slog.Any("error", err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.WarnContext(ctx, "Geocode request returned non-200", slog.Int("status", resp.StatusCode))
		return nil, false
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		l.WarnContext(ctx, "Failed to decode geocode response", slog.Any("error", err))
		return nil, false
	}
	if len(results) == 0 {
		l.DebugContext(ctx, "Geocode returned no results")
		return nil, true
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLng != nil {
		l.WarnContext(ctx, "Geocode returned unparsable coordinates",
			slog.String("lat", results[0].Lat), slog.String("lon", results[0].Lon))
		return nil, true
	}

	coord = &types.Coordinate{Lat: lat, Lng: lng}
	if !coord.Valid() {
		l.WarnContext(ctx, "Geocode returned out-of-range coordinates",
			slog.Float64("lat", lat), slog.Float64("lng", lng))
		return nil, true
	}
	return coord, true
}
