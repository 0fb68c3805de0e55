package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/locale"
	"github.com/tartampluch/go-fortune/internal/oracle"
)

// Assembler builds astrological profiles from birth details.
type Assembler struct {
	Clock     Clock
	Generator oracle.Generator // May be nil: every generated text then uses its fallback.
	Catalog   *locale.Catalog
}

// NewAssembler returns an Assembler using the given collaborators.
func NewAssembler(clock Clock, gen oracle.Generator, cat *locale.Catalog) *Assembler {
	return &Assembler{Clock: clock, Generator: gen, Catalog: cat}
}

// CreateProfile runs the five profile steps in order.
// Only the zodiac and pillar calculations can fail; text generation failures
// are replaced by deterministic fallback content.
func (a *Assembler) CreateProfile(ctx context.Context, bd astro.BirthDetails) (*Profile, error) {
	log := slog.With(config.LogKeyComponent, config.CompProfile)

	// 1. Zodiac
	zodiac, err := astro.CalculateChineseZodiac(bd.Date)
	if err != nil {
		return nil, &ProfileError{Step: StepZodiac, Err: err}
	}

	// 2. Pillars
	pillars, err := astro.CalculateFourPillars(bd)
	if err != nil {
		return nil, &ProfileError{Step: StepPillars, Err: err}
	}

	tag := a.Catalog.Tag()

	// 3. Nickname
	nickname, ok := "", false
	if text, err := a.generate(ctx, nicknamePrompt(zodiac, tag), config.NicknameMaxTokens, config.NicknameTemperature); err == nil {
		nickname, ok = normalizeNickname(text)
	} else {
		log.WarnContext(ctx, config.MsgProfileStep, config.LogKeyStep, "nickname", config.LogKeyError, err)
	}
	if !ok {
		nickname = FallbackNickname(zodiac.Animal.Index(), zodiac.Element.Index(), zodiac.Year)
	}

	// 4. Pillar descriptions
	var descriptions PillarDescriptions
	text, err := a.generate(ctx, descriptionsPrompt(pillars, tag), config.DescriptionMaxTokens, config.DescriptionTemp)
	if lines := splitLines(text); err == nil && len(lines) == config.PillarCount {
		descriptions = PillarDescriptions{Year: lines[0], Month: lines[1], Day: lines[2], Hour: lines[3]}
	} else {
		log.WarnContext(ctx, config.MsgProfileStep, config.LogKeyStep, "descriptions", config.LogKeyError, err)
		descriptions = fallbackDescriptions(a.Catalog, pillars)
	}

	// 5. Essence summary
	var essence string
	text, err = a.generate(ctx, essencePrompt(zodiac, pillars, tag), config.EssenceMaxTokens, config.EssenceTemperature)
	if lines := splitLines(text); err == nil && len(lines) == config.EssenceLineCount {
		essence = strings.Join(lines, "\n")
	} else {
		log.WarnContext(ctx, config.MsgProfileStep, config.LogKeyStep, "essence", config.LogKeyError, err)
		essence = fallbackEssence(a.Catalog, zodiac)
	}

	p := &Profile{
		BirthDetails:       bd,
		Zodiac:             zodiac,
		Pillars:            pillars,
		MysticalNickname:   nickname,
		PillarDescriptions: descriptions,
		EssenceSummary:     essence,
		CreatedAt:          a.Clock.Now().UTC(),
	}

	log.InfoContext(ctx, config.MsgProfileCreated,
		config.LogKeyAnimal, zodiac.Animal,
		config.LogKeyElement, zodiac.Element,
		config.LogKeyYear, zodiac.Year,
	)
	return p, nil
}

func (a *Assembler) generate(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	if a.Generator == nil {
		return "", oracle.ErrNoAPIKey
	}
	return a.Generator.GenerateText(ctx, systemPrompt, prompt, oracle.Options{
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
}
