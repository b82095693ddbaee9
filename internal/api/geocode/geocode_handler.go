package geocode

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
	geocoder Geocoder
	logger   *slog.Logger
}

func NewHandler(geocoder Geocoder, logger *slog.Logger) *Handler {
	return &Handler{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Geocode resolves a free-text query to coordinates. The lookup is
// best-effort: misses and upstream failures both produce null coordinates,
// not an error status.
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GeocodeHandler").Start(r.Context(), "Geocode", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/geocode"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Geocode"))
	l.DebugContext(ctx, "Geocode handler invoked")

	var req types.GeocodeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		l.ErrorContext(ctx, "Query is required")
		api.ErrorResponse(w, r, http.StatusBadRequest, "query is required")
		return
	}

	resp := types.GeocodeResponse{}
	if coord := h.geocoder.Geocode(ctx, req.Query); coord != nil {
		resp.Lat = types.Float64Ptr(coord.Lat)
		resp.Lng = types.Float64Ptr(coord.Lng)
	}

	l.InfoContext(ctx, "Geocode lookup completed", slog.Bool("resolved", resp.Lat != nil))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
