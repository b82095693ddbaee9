package suggest

import (
	"fmt"

	"github.com/letsgo-app/go-place-suggestions/internal/types"
)

// systemPrompt pins the model to in-city, JSON-only answers. Markdown and
// prose replies are rejected downstream, so the instruction is explicit.
const systemPrompt = `You are a local expert. You ONLY suggest places that are physically located inside the city or area the user specifies. Never suggest places in other cities, countries, or regions. Always respond with valid JSON only — no markdown, no explanation, just the JSON array.`

func getPlaceSuggestionsPrompt(city, category, mood string, userLocation *types.Coordinate) string {
	locationClause := ""
	if userLocation != nil {
		locationClause = fmt.Sprintf(" at coordinates (%f, %f)", userLocation.Lat, userLocation.Lng)
	}
	return fmt.Sprintf(`I am in %q%s. Suggest exactly 5 real places INSIDE %q for %q matching this vibe: %q.

CRITICAL RULES:
- Every single place MUST be physically located inside %q and close to the user's area.
- Use real, existing place names that locals would know.
- No generic chains unless they are popular local favorites.
- Prioritize places that are nearby the user's location.
- Each place must be different.

Respond with ONLY this JSON array (no other text):
[{"name": "Place Name", "address": "Neighborhood or area in %s"}, ...]`,
		city, locationClause, city, category, mood, city, city)
}
