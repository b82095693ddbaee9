package types

// Coordinate is a WGS84 latitude/longitude pair. Valid latitudes are in
// [-90, 90] and longitudes in [-180, 180]. Values are never mutated after
// creation.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is inside the WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// PlaceCandidate is a raw place record as emitted by the places source.
// Pointer fields model data the source could not obtain; the JSON tags match
// the scraper wire format.
type PlaceCandidate struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Rating     *float64 `json:"rating"`
	Reviews    *int     `json:"reviews"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	DistanceKm *float64 `json:"distanceKm"`
}

// Coordinate returns the candidate's position, or nil when the source did
// not provide one.
func (p PlaceCandidate) Coordinate() *Coordinate {
	if p.Lat == nil || p.Lng == nil {
		return nil
	}
	return &Coordinate{Lat: *p.Lat, Lng: *p.Lng}
}

// Suggestion sources.
const (
	SourceMaps = "maps"
	SourceAI   = "ai"
)

// RankedSuggestion is a place record after the ranking pipeline, ready for
// display. Absent numeric fields serialize as JSON null.
type RankedSuggestion struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Rating     *float64 `json:"rating"`
	Reviews    *int     `json:"reviews"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	DistanceKm *float64 `json:"distanceKm"`
	Source     string   `json:"source"`
}

// Sort policies accepted by the ranking engine and the smart-suggest mode.
const (
	SortByDistance = "distance"
	SortByStars    = "stars"
)

// ValidSortBy reports whether s names a supported sort policy.
func ValidSortBy(s string) bool {
	return s == SortByDistance || s == SortByStars
}

// AISuggestRequest is the body of the LLM-backed suggestion endpoint.
type AISuggestRequest struct {
	City     string   `json:"city"`
	Category string   `json:"category"`
	Mood     string   `json:"mood"`
	UserLat  *float64 `json:"userLat"`
	UserLng  *float64 `json:"userLng"`
}

// SmartSuggestRequest is the body of the deterministic suggestion endpoint.
type SmartSuggestRequest struct {
	City     string   `json:"city"`
	Category string   `json:"category"`
	SortBy   string   `json:"sortBy"`
	Exclude  []string `json:"exclude"`
	UserLat  *float64 `json:"userLat"`
	UserLng  *float64 `json:"userLng"`
}

// ScrapeRequest is the body of the raw adapter passthrough endpoint.
type ScrapeRequest struct {
	City     string   `json:"city"`
	Category string   `json:"category"`
	Mood     string   `json:"mood"`
	UserLat  *float64 `json:"userLat"`
	UserLng  *float64 `json:"userLng"`
}

// GeocodeRequest is the body of the geocode endpoint.
type GeocodeRequest struct {
	Query string `json:"query"`
}

// GeocodeResponse carries the resolved coordinates, or nulls when the query
// could not be resolved.
type GeocodeResponse struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// SuggestionsResponse is the common success envelope of the suggestion
// endpoints.
type SuggestionsResponse struct {
	Suggestions []RankedSuggestion `json:"suggestions"`
}

// UserLocation builds a Coordinate from optional request fields, returning
// nil when either is missing.
func UserLocation(lat, lng *float64) *Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &Coordinate{Lat: *lat, Lng: *lng}
}

// Float64Ptr returns a pointer to v. Convenience for literals in tests and
// response shaping.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
