package suggest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// aiPlace is one item of the model's reply.
type aiPlace struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// cleanJSONResponse strips the incidental formatting models add around
// JSON: code fences first, then any prose surrounding the array itself.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	// Remove markdown code block markers
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}

	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}

	response = strings.TrimSpace(response)

	// Extract the first [...] span in case the model wrapped the array in
	// explanatory text.
	firstBracket := strings.Index(response, "[")
	if firstBracket == -1 {
		return response
	}
	lastBracket := strings.LastIndex(response, "]")
	if lastBracket == -1 || lastBracket <= firstBracket {
		return response
	}
	return strings.TrimSpace(response[firstBracket : lastBracket+1])
}

// parsePlaceSuggestions parses the model reply into place items. A reply
// holding a single object instead of an array is accepted and wrapped.
func parsePlaceSuggestions(response string) ([]aiPlace, error) {
	cleaned := cleanJSONResponse(response)

	var items []aiPlace
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		return items, nil
	}

	var single aiPlace
	if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
		return nil, fmt.Errorf("failed to parse model reply as place suggestions: %w", err)
	}
	return []aiPlace{single}, nil
}
