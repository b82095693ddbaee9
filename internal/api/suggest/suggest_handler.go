package suggest

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/letsgo-app/go-place-suggestions/internal/api"
	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

type Handler struct {
	suggestService Service
	logger         *slog.Logger
}

func NewHandler(suggestService Service, logger *slog.Logger) *Handler {
	return &Handler{
		suggestService: suggestService,
		logger:         logger,
	}
}

// AISuggest serves the language-model suggestion mode.
func (h *Handler) AISuggest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SuggestHandler").Start(r.Context(), "AISuggest", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/suggestions/ai"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "AISuggest"))
	l.DebugContext(ctx, "AI suggest handler invoked")

	var req types.AISuggestRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	suggestions, err := h.suggestService.AISuggest(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "AI suggestion failed", slog.Any("error", err))
		api.HandleServiceError(w, r, err, "AI suggestion failed")
		return
	}

	l.InfoContext(ctx, "AI suggestion completed", slog.Int("count", len(suggestions)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.SuggestionsResponse{Suggestions: suggestions})
}

// SmartSuggest serves the deterministic scrape-and-rank mode.
func (h *Handler) SmartSuggest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SuggestHandler").Start(r.Context(), "SmartSuggest", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/suggestions/smart"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SmartSuggest"))
	l.DebugContext(ctx, "Smart suggest handler invoked")

	var req types.SmartSuggestRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	suggestions, err := h.suggestService.SmartSuggest(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Smart suggestion failed", slog.Any("error", err))
		api.HandleServiceError(w, r, err, "Smart suggestion failed")
		return
	}

	l.InfoContext(ctx, "Smart suggestion completed", slog.Int("count", len(suggestions)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.SuggestionsResponse{Suggestions: suggestions})
}
