package engine

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/locale"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nicknameAdjectives = []string{
	"Radiant", "Serene", "Mystic", "Golden", "Silent", "Noble", "Wandering", "Celestial",
	"Gentle", "Fearless", "Luminous", "Ancient", "Swift", "Jade", "Crimson", "Moonlit",
}

// titleCase returns s with each word capitalized. A Caser is stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// FallbackNickname picks a stable two-word nickname for a zodiac.
// The same inputs always produce the same nickname.
func FallbackNickname(animalIdx, elementIdx, year int) string {
	animals := astro.Animals()
	adj := nicknameAdjectives[mod(animalIdx*7+elementIdx*3+year, len(nicknameAdjectives))]
	animal := animals[mod(animalIdx, len(animals))]
	return adj + " " + titleCase(string(animal))
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

// normalizeNickname accepts a generated nickname only if it is exactly two words.
func normalizeNickname(s string) (string, bool) {
	words := strings.Fields(strings.Trim(strings.TrimSpace(s), `"'.!`))
	if len(words) != config.NicknameWordCount {
		return "", false
	}
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " "), true
}

// splitLines returns the non-empty lines of s with list markers removed.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 {
			if _, err := strconv.Atoi(line[:i]); err == nil {
				line = line[i+1:]
			}
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func fallbackDescriptions(cat *locale.Catalog, p astro.FourPillars) PillarDescriptions {
	keys := [4]string{config.TKeyDescYear, config.TKeyDescMonth, config.TKeyDescDay, config.TKeyDescHour}
	var out [4]string
	for i, pl := range p.All() {
		out[i] = cat.Msg(keys[i], map[string]any{
			"Stem":    pl.Stem.String(),
			"Branch":  pl.Branch.String(),
			"Element": cat.Element(string(pl.Element)),
		})
	}
	return PillarDescriptions{Year: out[0], Month: out[1], Day: out[2], Hour: out[3]}
}

func fallbackEssence(cat *locale.Catalog, z astro.ChineseZodiac) string {
	data := map[string]any{
		"Element": cat.Element(string(z.Element)),
		"Animal":  cat.Animal(string(z.Animal)),
	}
	return strings.Join([]string{
		cat.Msg(config.TKeyEssenceLine1, data),
		cat.Msg(config.TKeyEssenceLine2, data),
		cat.Msg(config.TKeyEssenceLine3, data),
	}, "\n")
}

// fallbackFortune picks a catalogue fortune from the day of year and the animal,
// skipping messages still in the previous-fortunes ring.
func fallbackFortune(cat *locale.Catalog, p *Profile, now time.Time, previous []string) string {
	data := map[string]any{
		"Element": cat.Element(string(p.Zodiac.Element)),
		"Animal":  cat.Animal(string(p.Zodiac.Animal)),
	}
	start := now.YearDay() + p.Zodiac.Animal.Index()

	var msg string
	for i := range config.FallbackFortunes {
		id := config.TKeyFallbackPref + strconv.Itoa(mod(start+i, config.FallbackFortunes))
		msg = cat.Msg(id, data)
		if !contains(previous, msg) {
			break
		}
	}
	return msg
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// truncateMessage caps a fortune at config.MaxFortuneLength characters.
func truncateMessage(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= config.MaxFortuneLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:config.MaxFortuneLength-1])) + "…"
}
