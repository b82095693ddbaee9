package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

// stubGeocoder returns a fixed coordinate, or nil when unset.
type stubGeocoder struct {
	coord *types.Coordinate
}

func (s *stubGeocoder) Geocode(ctx context.Context, query string) *types.Coordinate {
	return s.coord
}

func TestGeocodeHandler_Resolved(t *testing.T) {
	handler := NewHandler(&stubGeocoder{coord: &types.Coordinate{Lat: 24.66, Lng: 46.73}}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/geocode", strings.NewReader(`{"query": "Najd Village, Riyadh"}`))
	rec := httptest.NewRecorder()

	handler.Geocode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.GeocodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Lat)
	assert.Equal(t, 24.66, *resp.Lat)
	assert.Equal(t, 46.73, *resp.Lng)
}

func TestGeocodeHandler_MissReturnsNulls(t *testing.T) {
	handler := NewHandler(&stubGeocoder{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/geocode", strings.NewReader(`{"query": "nowhere at all"}`))
	rec := httptest.NewRecorder()

	handler.Geocode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"lat": null, "lng": null}`, rec.Body.String())
}

func TestGeocodeHandler_MissingQuery(t *testing.T) {
	handler := NewHandler(&stubGeocoder{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/geocode", strings.NewReader(`{"query": ""}`))
	rec := httptest.NewRecorder()

	handler.Geocode(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "query is required", resp["error"])
}
