package places

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/letsgo-app/go-place-suggestions/internal/api"
	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

type Handler struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewHandler(fetcher Fetcher, logger *slog.Logger) *Handler {
	return &Handler{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Scrape is the raw adapter passthrough: it runs the scraper for the given
// city/category and returns the candidates unranked.
func (h *Handler) Scrape(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "Scrape", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/suggestions/scrape"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Scrape"))
	l.DebugContext(ctx, "Scrape handler invoked")

	var req types.ScrapeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Category) == "" {
		l.ErrorContext(ctx, "City and category are required")
		api.ErrorResponse(w, r, http.StatusBadRequest, "city and category are required")
		return
	}

	query := req.Category
	if req.Mood != "" {
		query = req.Mood + " " + req.Category
	}

	candidates, err := h.fetcher.FetchPlaces(ctx, FetchRequest{
		Query:        query,
		City:         req.City,
		MaxResults:   5,
		SortBy:       types.SortByDistance,
		UserLocation: types.UserLocation(req.UserLat, req.UserLng),
	})
	if err != nil {
		l.ErrorContext(ctx, "Scrape failed", slog.Any("error", err))
		api.HandleServiceError(w, r, err, "Scraping failed")
		return
	}

	if candidates == nil {
		candidates = []types.PlaceCandidate{}
	}
	l.InfoContext(ctx, "Scrape completed", slog.Int("count", len(candidates)))
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"suggestions": candidates})
}
