package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlaceSuggestions_PlainArray(t *testing.T) {
	reply := `[{"name": "Cafe Aroma", "address": "Olaya"}, {"name": "Najd Village", "address": "Al Malaz"}]`

	items, err := parsePlaceSuggestions(reply)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Cafe Aroma", items[0].Name)
	assert.Equal(t, "Al Malaz", items[1].Address)
}

func TestParsePlaceSuggestions_MarkdownFenced(t *testing.T) {
	reply := "```json\n[{\"name\": \"Cafe Aroma\", \"address\": \"Olaya\"}]\n```"

	items, err := parsePlaceSuggestions(reply)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cafe Aroma", items[0].Name)
}

func TestParsePlaceSuggestions_BareFence(t *testing.T) {
	reply := "```\n[{\"name\": \"Cafe Aroma\", \"address\": \"Olaya\"}]\n```"

	items, err := parsePlaceSuggestions(reply)

	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestParsePlaceSuggestions_SurroundingProse(t *testing.T) {
	reply := `Here are my picks: [{"name": "Cafe Aroma", "address": "Olaya"}] Enjoy!`

	items, err := parsePlaceSuggestions(reply)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cafe Aroma", items[0].Name)
}

func TestParsePlaceSuggestions_SingleObject(t *testing.T) {
	reply := `{"name": "Cafe Aroma", "address": "Olaya"}`

	items, err := parsePlaceSuggestions(reply)

	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestParsePlaceSuggestions_Garbage(t *testing.T) {
	_, err := parsePlaceSuggestions("I don't know any places, sorry!")
	assert.Error(t, err)
}
