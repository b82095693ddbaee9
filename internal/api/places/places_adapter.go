// Package places fronts the external maps-data scraper. The Fetcher
// interface is the contract the suggestion services depend on; the concrete
// adapter spawns the scraper as a subprocess, but any implementation that
// honors the timeout/bounded-output/structured-failure contract can sit
// behind it.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/letsgo-app/go-place-suggestions/app/observability/metrics"
	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

// FetchRequest describes one scraper invocation.
type FetchRequest struct {
	Query        string
	City         string
	MaxResults   int
	SortBy       string // "distance" or "stars"
	UserLocation *types.Coordinate
}

// Fetcher retrieves raw place candidates for a query. Implementations must
// be all-or-nothing: on timeout, crash or unparsable output they return a
// *types.UpstreamError, never a partial list.
type Fetcher interface {
	FetchPlaces(ctx context.Context, req FetchRequest) ([]types.PlaceCandidate, error)
}

// Runner executes the scraper process and returns its stdout. Split out so
// adapter tests can substitute the process boundary.
type Runner interface {
	Run(ctx context.Context, args []string) (stdout []byte, stderr string, err error)
}

// ScraperAdapter shells out to the Playwright scraper script.
type ScraperAdapter struct {
	logger  *slog.Logger
	runner  Runner
	timeout time.Duration
}

var _ Fetcher = (*ScraperAdapter)(nil)

// Options configures the subprocess invocation.
type Options struct {
	Command        string // interpreter, e.g. "python3"
	Script         string // scraper script path
	Timeout        time.Duration
	MaxOutputBytes int64
}

func NewScraperAdapter(logger *slog.Logger, opts Options) *ScraperAdapter {
	if opts.Command == "" {
		opts.Command = "python3"
	}
	if opts.Script == "" {
		opts.Script = "scraper.py"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.MaxOutputBytes <= 0 {
		opts.MaxOutputBytes = 1 << 20
	}
	return &ScraperAdapter{
		logger:  logger,
		runner:  &execRunner{command: opts.Command, script: opts.Script, maxOutput: opts.MaxOutputBytes},
		timeout: opts.Timeout,
	}
}

// NewScraperAdapterWithRunner builds an adapter over a custom Runner.
func NewScraperAdapterWithRunner(logger *slog.Logger, runner Runner, timeout time.Duration) *ScraperAdapter {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &ScraperAdapter{logger: logger, runner: runner, timeout: timeout}
}

// scraperOutput is the single JSON object the scraper must emit.
type scraperOutput struct {
	Suggestions []types.PlaceCandidate `json:"suggestions"`
}

// FetchPlaces invokes the scraper with a bounded deadline and parses its
// output. Failures carry the scraper's stderr as diagnostic detail.
func (a *ScraperAdapter) FetchPlaces(ctx context.Context, req FetchRequest) ([]types.PlaceCandidate, error) {
	ctx, span := otel.Tracer("ScraperAdapter").Start(ctx, "FetchPlaces")
	defer span.End()
	span.SetAttributes(
		attribute.String("scraper.query", req.Query),
		attribute.String("scraper.city", req.City),
		attribute.Int("scraper.max_results", req.MaxResults),
	)

	l := a.logger.With(slog.String("query", req.Query), slog.String("city", req.City))

	if strings.TrimSpace(req.Query) == "" || strings.TrimSpace(req.City) == "" {
		return nil, types.NewValidationError("query", "city")
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = types.SortByDistance
	}

	args := []string{req.Query, req.City, "--max", strconv.Itoa(maxResults), "--sort", sortBy}
	if req.UserLocation != nil {
		args = append(args,
			"--lat", strconv.FormatFloat(req.UserLocation.Lat, 'f', -1, 64),
			"--lng", strconv.FormatFloat(req.UserLocation.Lng, 'f', -1, 64),
		)
	}

	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	metrics.Get().ScraperRunsTotal.Add(ctx, 1)
	stdout, stderr, err := a.runner.Run(runCtx, args)
	metrics.Get().ScraperDurationSeconds.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		metrics.Get().ScraperFailuresTotal.Add(ctx, 1)
		detail := strings.TrimSpace(stderr)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			detail = fmt.Sprintf("scraper exceeded %s timeout; stderr: %s", a.timeout, detail)
		}
		l.ErrorContext(ctx, "Scraper invocation failed", slog.Any("error", err), slog.String("stderr", detail))
		span.RecordError(err)
		span.SetStatus(codes.Error, "scraper invocation failed")
		return nil, &types.UpstreamError{Op: "scraper", Detail: detail, Err: err}
	}

	out, err := parseScraperOutput(stdout)
	if err != nil {
		metrics.Get().ScraperFailuresTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to parse scraper output", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "scraper output unparsable")
		return nil, &types.UpstreamError{Op: "scraper", Detail: snippet(stdout), Err: err}
	}

	l.InfoContext(ctx, "Scraper returned places", slog.Int("count", len(out.Suggestions)))
	span.SetAttributes(attribute.Int("scraper.result_count", len(out.Suggestions)))
	return out.Suggestions, nil
}

func parseScraperOutput(stdout []byte) (*scraperOutput, error) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return nil, errors.New("scraper produced no output")
	}
	var out scraperOutput
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("failed to parse scraper output: %w", err)
	}
	return &out, nil
}

// snippet bounds diagnostic text attached to errors.
func snippet(b []byte) string {
	const max = 512
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
