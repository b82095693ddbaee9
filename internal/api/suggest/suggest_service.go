package suggest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/letsgo-app/go-place-suggestions/app/observability/metrics"
	"github.com/letsgo-app/go-place-suggestions/internal/api/geo"
	generativeAI "github.com/letsgo-app/go-place-suggestions/internal/api/generative_ai"
	"github.com/letsgo-app/go-place-suggestions/internal/api/geocode"
	"github.com/letsgo-app/go-place-suggestions/internal/api/places"
	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

const (
	// resultLimit is the page size both modes return.
	resultLimit = 5
	// baseScrapeCount is inflated by the exclude-set size so dedup and
	// quality filtering still leave a full page.
	baseScrapeCount = 10
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for suggestion operations.
type Service interface {
	AISuggest(ctx context.Context, req types.AISuggestRequest) ([]types.RankedSuggestion, error)
	SmartSuggest(ctx context.Context, req types.SmartSuggestRequest) ([]types.RankedSuggestion, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	fetcher     places.Fetcher
	geocoder    geocode.Geocoder
	ai          generativeAI.Client
	temperature float32
}

func NewServiceImpl(fetcher places.Fetcher, geocoder geocode.Geocoder, ai generativeAI.Client, temperature float32, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		fetcher:     fetcher,
		geocoder:    geocoder,
		ai:          ai,
		temperature: temperature,
	}
}

// AISuggest asks the language model for exactly five in-city places, then
// geocodes each one serially. The geocoder client enforces the inter-call
// spacing; a single failed lookup degrades that item to null coordinates
// and the batch continues.
func (s *ServiceImpl) AISuggest(ctx context.Context, req types.AISuggestRequest) ([]types.RankedSuggestion, error) {
	ctx, span := otel.Tracer("SuggestService").Start(ctx, "AISuggest")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.Get().SuggestDurationSeconds.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("mode", "ai")))
	}()
	metrics.Get().SuggestRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", "ai")))

	searchID := uuid.New()
	l := s.logger.With(
		slog.String("searchID", searchID.String()),
		slog.String("city", req.City),
		slog.String("category", req.Category),
	)
	span.SetAttributes(attribute.String("search.id", searchID.String()), attribute.String("search.city", req.City))

	if missing := missingFields(map[string]string{
		"city": req.City, "category": req.Category, "mood": req.Mood,
	}, "city", "category", "mood"); len(missing) > 0 {
		return nil, types.NewValidationError(missing...)
	}

	userLocation := types.UserLocation(req.UserLat, req.UserLng)
	prompt := getPlaceSuggestionsPrompt(req.City, req.Category, req.Mood, userLocation)

	metrics.Get().LLMGenerationsTotal.Add(ctx, 1)
	reply, err := s.ai.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(s.temperature),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	})
	if err != nil {
		l.ErrorContext(ctx, "Language model call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "language model call failed")
		return nil, &types.UpstreamError{Op: "llm", Detail: err.Error(), Err: err}
	}

	items, err := parsePlaceSuggestions(reply)
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse language model reply", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "language model reply unparsable")
		return nil, &types.UpstreamError{Op: "llm", Detail: truncateDetail(reply), Err: err}
	}

	if len(items) > resultLimit {
		items = items[:resultLimit]
	}

	suggestions := make([]types.RankedSuggestion, 0, len(items))
	for _, item := range items {
		rs := types.RankedSuggestion{
			Name:    item.Name,
			Address: item.Address,
			Source:  types.SourceAI,
		}
		// Serial lookups; the geocoder's token bucket provides the
		// required inter-call spacing.
		if coord := s.geocoder.Geocode(ctx, item.Name+", "+req.City); coord != nil {
			rs.Lat = types.Float64Ptr(coord.Lat)
			rs.Lng = types.Float64Ptr(coord.Lng)
			if userLocation != nil {
				rs.DistanceKm = types.Float64Ptr(geo.RoundKm1(geo.DistanceKm(*userLocation, *coord)))
			}
		} else {
			l.WarnContext(ctx, "Geocode miss for suggested place", slog.String("place", item.Name))
		}
		suggestions = append(suggestions, rs)
	}

	l.InfoContext(ctx, "AI suggestions ready", slog.Int("count", len(suggestions)))
	span.SetAttributes(attribute.Int("suggestions.count", len(suggestions)))
	span.SetStatus(codes.Ok, "AI suggestions generated")
	return suggestions, nil
}

// SmartSuggest scrapes the places source and runs the ranking pipeline.
// The scrape size is inflated by the exclude-set size so exclusion and
// filtering losses still leave a full page.
func (s *ServiceImpl) SmartSuggest(ctx context.Context, req types.SmartSuggestRequest) ([]types.RankedSuggestion, error) {
	ctx, span := otel.Tracer("SuggestService").Start(ctx, "SmartSuggest")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.Get().SuggestDurationSeconds.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("mode", "smart")))
	}()
	metrics.Get().SuggestRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", "smart")))

	searchID := uuid.New()
	l := s.logger.With(
		slog.String("searchID", searchID.String()),
		slog.String("city", req.City),
		slog.String("category", req.Category),
		slog.String("sortBy", req.SortBy),
	)
	span.SetAttributes(
		attribute.String("search.id", searchID.String()),
		attribute.String("search.city", req.City),
		attribute.String("search.sort_by", req.SortBy),
	)

	if missing := missingFields(map[string]string{
		"city": req.City, "category": req.Category, "sortBy": req.SortBy,
	}, "city", "category", "sortBy"); len(missing) > 0 {
		return nil, types.NewValidationError(missing...)
	}
	if !types.ValidSortBy(req.SortBy) {
		return nil, &types.ValidationError{
			Fields:  []string{"sortBy"},
			Message: `sortBy must be "distance" or "stars"`,
		}
	}

	userLocation := types.UserLocation(req.UserLat, req.UserLng)
	maxToScrape := baseScrapeCount + len(req.Exclude)

	l.DebugContext(ctx, "Scraping places source", slog.Int("maxResults", maxToScrape), slog.Int("excluded", len(req.Exclude)))
	candidates, err := s.fetcher.FetchPlaces(ctx, places.FetchRequest{
		Query:        req.Category,
		City:         req.City,
		MaxResults:   maxToScrape,
		SortBy:       req.SortBy,
		UserLocation: userLocation,
	})
	if err != nil {
		l.ErrorContext(ctx, "Places source failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "places source failed")
		return nil, err
	}

	suggestions := Rank(candidates, req.Exclude, userLocation, req.SortBy, resultLimit)

	l.InfoContext(ctx, "Smart suggestions ready",
		slog.Int("scraped", len(candidates)),
		slog.Int("returned", len(suggestions)))
	span.SetAttributes(attribute.Int("suggestions.count", len(suggestions)))
	span.SetStatus(codes.Ok, "Smart suggestions generated")
	return suggestions, nil
}

// missingFields returns the names of required fields that are empty, in the
// given order.
func missingFields(values map[string]string, order ...string) []string {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func truncateDetail(s string) string {
	const max = 512
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
