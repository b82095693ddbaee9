package suggest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/letsgo-app/go-place-suggestions/internal/api/places"
	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

// MockFetcher is a mock implementation of places.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchPlaces(ctx context.Context, req places.FetchRequest) ([]types.PlaceCandidate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PlaceCandidate), args.Error(1)
}

// MockGeocoder is a mock implementation of geocode.Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, query string) *types.Coordinate {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*types.Coordinate)
}

// MockAIClient is a mock implementation of generativeAI.Client
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

// Helper to setup service with mocked upstreams
func setupSuggestServiceTest() (*ServiceImpl, *MockFetcher, *MockGeocoder, *MockAIClient) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := new(MockFetcher)
	geocoder := new(MockGeocoder)
	ai := new(MockAIClient)
	service := NewServiceImpl(fetcher, geocoder, ai, 0.4, logger)
	return service, fetcher, geocoder, ai
}

func TestSmartSuggest_MissingFields(t *testing.T) {
	service, _, _, _ := setupSuggestServiceTest()

	_, err := service.SmartSuggest(context.Background(), types.SmartSuggestRequest{City: "Riyadh"})

	var valErr *types.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"category", "sortBy"}, valErr.Fields)
}

func TestSmartSuggest_InvalidSortBy(t *testing.T) {
	service, _, _, _ := setupSuggestServiceTest()

	_, err := service.SmartSuggest(context.Background(), types.SmartSuggestRequest{
		City: "Riyadh", Category: "coffee", SortBy: "price",
	})

	var valErr *types.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestSmartSuggest_InflatesScrapeCountByExcludeSize(t *testing.T) {
	service, fetcher, _, _ := setupSuggestServiceTest()

	fetcher.On("FetchPlaces", mock.Anything, mock.MatchedBy(func(req places.FetchRequest) bool {
		return req.MaxResults == 13 && req.Query == "coffee" && req.City == "Riyadh"
	})).Return([]types.PlaceCandidate{}, nil)

	_, err := service.SmartSuggest(context.Background(), types.SmartSuggestRequest{
		City:     "Riyadh",
		Category: "coffee",
		SortBy:   types.SortByStars,
		Exclude:  []string{"Cafe A", "Cafe B", "Cafe C"},
	})

	require.NoError(t, err)
	fetcher.AssertExpectations(t)
}

func TestSmartSuggest_RanksAndExcludes(t *testing.T) {
	service, fetcher, _, _ := setupSuggestServiceTest()

	scraped := []types.PlaceCandidate{
		candidate("Seen Before", 4.9, 500),
		candidate("Fresh Pick", 4.5, 120),
		candidate("Another", 4.2, 80),
		candidate("Third", 4.1, 40),
		candidate("Fourth", 4.0, 30),
		candidate("Fifth", 4.0, 15),
	}
	fetcher.On("FetchPlaces", mock.Anything, mock.Anything).Return(scraped, nil)

	got, err := service.SmartSuggest(context.Background(), types.SmartSuggestRequest{
		City:     "Riyadh",
		Category: "coffee",
		SortBy:   types.SortByStars,
		Exclude:  []string{"seen before"},
	})

	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "Fresh Pick", got[0].Name)
	for _, s := range got {
		assert.NotEqual(t, "Seen Before", s.Name)
		assert.Equal(t, types.SourceMaps, s.Source)
	}
}

func TestSmartSuggest_UpstreamFailurePropagates(t *testing.T) {
	service, fetcher, _, _ := setupSuggestServiceTest()

	upErr := &types.UpstreamError{Op: "scraper", Detail: "timed out", Err: errors.New("signal: killed")}
	fetcher.On("FetchPlaces", mock.Anything, mock.Anything).Return(nil, upErr)

	_, err := service.SmartSuggest(context.Background(), types.SmartSuggestRequest{
		City: "Riyadh", Category: "coffee", SortBy: types.SortByDistance,
	})

	var got *types.UpstreamError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "timed out", got.Detail)
}

func TestAISuggest_MissingFields(t *testing.T) {
	service, _, _, _ := setupSuggestServiceTest()

	_, err := service.AISuggest(context.Background(), types.AISuggestRequest{City: "Riyadh", Category: "coffee"})

	var valErr *types.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"mood"}, valErr.Fields)
}

func TestAISuggest_GeocodesEachPlace(t *testing.T) {
	service, _, geocoder, ai := setupSuggestServiceTest()

	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("```json\n[{\"name\": \"Cafe Aroma\", \"address\": \"Olaya\"}, {\"name\": \"Najd Village\", \"address\": \"Al Malaz\"}]\n```", nil)
	geocoder.On("Geocode", mock.Anything, "Cafe Aroma, Riyadh").
		Return(&types.Coordinate{Lat: 24.71, Lng: 46.61})
	geocoder.On("Geocode", mock.Anything, "Najd Village, Riyadh").
		Return(nil)

	got, err := service.AISuggest(context.Background(), types.AISuggestRequest{
		City:     "Riyadh",
		Category: "coffee",
		Mood:     "cozy",
		UserLat:  types.Float64Ptr(24.7),
		UserLng:  types.Float64Ptr(46.6),
	})

	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, types.SourceAI, got[0].Source)
	require.NotNil(t, got[0].Lat)
	assert.Equal(t, 24.71, *got[0].Lat)
	require.NotNil(t, got[0].DistanceKm)
	assert.InDelta(t, 1.5, *got[0].DistanceKm, 0.001)

	// Failed geocode degrades the item, it does not fail the batch.
	assert.Nil(t, got[1].Lat)
	assert.Nil(t, got[1].DistanceKm)
	geocoder.AssertExpectations(t)
}

func TestAISuggest_CapsAtFivePlaces(t *testing.T) {
	service, _, geocoder, ai := setupSuggestServiceTest()

	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`[{"name":"A"},{"name":"B"},{"name":"C"},{"name":"D"},{"name":"E"},{"name":"F"},{"name":"G"}]`, nil)
	geocoder.On("Geocode", mock.Anything, mock.Anything).Return(nil)

	got, err := service.AISuggest(context.Background(), types.AISuggestRequest{
		City: "Riyadh", Category: "coffee", Mood: "cozy",
	})

	require.NoError(t, err)
	assert.Len(t, got, 5)
	geocoder.AssertNumberOfCalls(t, "Geocode", 5)
}

func TestAISuggest_ModelFailure(t *testing.T) {
	service, _, _, ai := setupSuggestServiceTest()

	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("quota exceeded"))

	_, err := service.AISuggest(context.Background(), types.AISuggestRequest{
		City: "Riyadh", Category: "coffee", Mood: "cozy",
	})

	var upErr *types.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "llm", upErr.Op)
}

func TestAISuggest_UnparsableReply(t *testing.T) {
	service, _, _, ai := setupSuggestServiceTest()

	ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("Sorry, I can't help with that.", nil)

	_, err := service.AISuggest(context.Background(), types.AISuggestRequest{
		City: "Riyadh", Category: "coffee", Mood: "cozy",
	})

	var upErr *types.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Contains(t, upErr.Detail, "Sorry")
}
