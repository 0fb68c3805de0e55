package locale_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/locale"
)

func requiredKeys() []string {
	keys := []string{
		config.TKeyAvailableNow,
		config.TKeyConnectivity,
		config.TKeyDescYear,
		config.TKeyDescMonth,
		config.TKeyDescDay,
		config.TKeyDescHour,
		config.TKeyEssenceLine1,
		config.TKeyEssenceLine2,
		config.TKeyEssenceLine3,
		config.TKeyStateNone,
		config.TKeyStateActive,
		config.TKeyStateExpired,
		config.TKeyStateOffline,
		config.TKeyEvtSummary,
		config.TKeyEvtReset,
		config.TKeyEvtResetDesc,
	}
	for i := range config.FallbackFortunes {
		keys = append(keys, config.TKeyFallbackPref+strconv.Itoa(i))
	}
	for _, a := range astro.Animals() {
		keys = append(keys, config.TKeyAnimalPref+string(a))
	}
	for _, e := range astro.Elements() {
		keys = append(keys, config.TKeyElementPref+string(e))
	}
	return keys
}

// TestI18nIntegrity ensures that every translation key used by the code
// exists in every locale JSON file.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool)
	for _, k := range requiredKeys() {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
			require.NoError(t, err, "Must load active.%s.json", lang)

			var jsonMap map[string]any
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key := range defined {
				v, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' is missing in active.%s.json", key, lang)
				assert.NotEmptyf(t, v, "Key '%s' is empty in active.%s.json", key, lang)
			}

			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				if !defined[jsonKey] {
					t.Logf("Warning: Key '%s' exists in JSON but is not checked in the test suite (might be unused)", jsonKey)
				}
			}
		})
	}
}

func TestNew_DetectsLanguages(t *testing.T) {
	c := locale.New("fr")
	assert.Equal(t, "fr", c.Lang())
	assert.ElementsMatch(t, config.SupportedLanguages, c.Languages())
}

func TestNew_UnknownLanguageFallsBack(t *testing.T) {
	c := locale.New("tlh")
	assert.Equal(t, config.DefaultLanguage, c.Lang())
	assert.Equal(t, "Available now", c.Msg(config.TKeyAvailableNow, nil))
}

func TestMsg_Templates(t *testing.T) {
	en := locale.New("en")
	got := en.Msg(config.TKeyEssenceLine1, map[string]any{"Element": "Metal", "Animal": "Horse"})
	assert.Equal(t, "Born under the Metal Horse, you carry a rare balance of strength and grace.", got)

	fr := locale.New("fr")
	assert.Equal(t, "Disponible maintenant", fr.Msg(config.TKeyAvailableNow, nil))
	assert.Equal(t, "Cheval", fr.Animal(string(astro.Horse)))
	assert.Equal(t, "Métal", fr.Element(string(astro.Metal)))
}

func TestMsg_MissingKeyReturnsID(t *testing.T) {
	c := locale.New("en")
	assert.Equal(t, "no.such.key", c.Msg("no.such.key", nil))
}
