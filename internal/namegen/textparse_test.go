package namegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStructuredTextSkipsHeaderEntries(t *testing.T) {
	text := "Suggested Baby Names for you!\n1. **Arjun** — 'bright' (Language: Sanskrit, Gender: Boy)\n2. Recommendation Note: pick what feels right."

	got := parseStructuredText(text)

	assert.Equal(t, []Suggestion{
		{Name: "Arjun", Meaning: "bright", Origin: "Sanskrit", Gender: "Boy"},
	}, got)
}

func TestParseStructuredTextStripsEmoji(t *testing.T) {
	text := "1. 👶 **Meera** — 'prosperous' ✨ (Language: Sanskrit, Gender: Girl)"

	got := parseStructuredText(text)

	assert.Equal(t, []Suggestion{
		{Name: "Meera", Meaning: "prosperous", Origin: "Sanskrit", Gender: "Girl"},
	}, got)
}

func TestParseStructuredTextPlainMeaningFallback(t *testing.T) {
	text := "1. **Kabir** - great mystic poet (Language: Hindi)"

	got := parseStructuredText(text)

	assert.Len(t, got, 1)
	assert.Equal(t, "Kabir", got[0].Name)
	assert.Equal(t, "great mystic poet", got[0].Meaning)
	assert.Equal(t, "Hindi", got[0].Origin)
}

func TestParseStructuredTextGenderInference(t *testing.T) {
	text := "1. **Aarav** — 'peaceful', a popular boy name\n2. **Anaya** — 'caring', a lovely girl name"

	got := parseStructuredText(text)

	assert.Len(t, got, 2)
	assert.Equal(t, "Boy", got[0].Gender)
	assert.Equal(t, "Girl", got[1].Gender)
}

func TestParseStructuredTextNoListStructure(t *testing.T) {
	assert.Empty(t, parseStructuredText("Nothing here resembles a list of names."))
}
