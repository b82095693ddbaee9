package suggest

import (
	"sort"
	"strings"

	"github.com/letsgo-app/go-place-suggestions/internal/api/geo"
	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

// Quality tiers applied in sequence: strict, then relaxed when the strict
// tier yields fewer than minQualityResults, then unfiltered when the
// relaxed tier yields fewer than minRelaxedResults.
const (
	strictMinRating  = 4.0
	strictMinReviews = 10
	relaxedMinRating = 3.5

	minQualityResults = 5
	minRelaxedResults = 3
)

// Rank runs the deterministic ranking pipeline: exclusion filter, distance
// backfill, tiered quality filter, stable sort, truncation, shaping.
// Identical inputs always produce identical output order. Empty input and
// limit <= 0 both yield an empty (non-nil) result.
func Rank(candidates []types.PlaceCandidate, exclude []string, userLocation *types.Coordinate, sortBy string, limit int) []types.RankedSuggestion {
	if limit <= 0 {
		return []types.RankedSuggestion{}
	}

	excludeSet := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excludeSet[strings.ToLower(name)] = struct{}{}
	}

	// Exclusion filter + distance backfill. Candidates are copied so the
	// caller's slice is never mutated.
	kept := make([]types.PlaceCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, excluded := excludeSet[strings.ToLower(c.Name)]; excluded {
			continue
		}
		if c.DistanceKm == nil && userLocation != nil {
			if coord := c.Coordinate(); coord != nil {
				c.DistanceKm = types.Float64Ptr(geo.RoundKm1(geo.DistanceKm(*userLocation, *coord)))
			}
		}
		kept = append(kept, c)
	}

	filtered := applyQualityTiers(kept)
	sortCandidates(filtered, sortBy)

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	out := make([]types.RankedSuggestion, 0, len(filtered))
	for _, c := range filtered {
		out = append(out, types.RankedSuggestion{
			Name:       c.Name,
			Address:    c.Address,
			Rating:     c.Rating,
			Reviews:    c.Reviews,
			Lat:        c.Lat,
			Lng:        c.Lng,
			DistanceKm: c.DistanceKm,
			Source:     types.SourceMaps,
		})
	}
	return out
}

// applyQualityTiers keeps highly-rated, well-reviewed places when enough of
// them exist, and progressively relaxes the bar so a city with few reviewed
// venues still gets a usable page. Each relaxation recomputes from the full
// post-exclusion set.
func applyQualityTiers(candidates []types.PlaceCandidate) []types.PlaceCandidate {
	strict := make([]types.PlaceCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Rating != nil && *c.Rating >= strictMinRating && c.Reviews != nil && *c.Reviews >= strictMinReviews {
			strict = append(strict, c)
		}
	}
	if len(strict) >= minQualityResults {
		return strict
	}

	relaxed := make([]types.PlaceCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Rating != nil && *c.Rating >= relaxedMinRating {
			relaxed = append(relaxed, c)
		}
	}
	if len(relaxed) >= minRelaxedResults {
		return relaxed
	}

	return candidates
}

func sortCandidates(candidates []types.PlaceCandidate, sortBy string) {
	switch sortBy {
	case types.SortByDistance:
		// Unknown distance sorts after every known distance; equal
		// distances keep their original order.
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i].DistanceKm, candidates[j].DistanceKm
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})
	case types.SortByStars:
		sort.SliceStable(candidates, func(i, j int) bool {
			ra, rb := ratingOrZero(candidates[i]), ratingOrZero(candidates[j])
			if ra != rb {
				return ra > rb
			}
			return reviewsOrZero(candidates[i]) > reviewsOrZero(candidates[j])
		})
	}
}

func ratingOrZero(c types.PlaceCandidate) float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

func reviewsOrZero(c types.PlaceCandidate) int {
	if c.Reviews == nil {
		return 0
	}
	return *c.Reviews
}
