package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/config"
)

// Profile steps, used to tag a ProfileError.
const (
	StepZodiac  = "zodiac_calculation"
	StepPillars = "pillars_calculation"
)

// PillarDescriptions holds one poetic sentence per pillar.
type PillarDescriptions struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
	Hour  string `json:"hour"`
}

// All returns the descriptions in year, month, day, hour order.
func (d PillarDescriptions) All() [4]string {
	return [4]string{d.Year, d.Month, d.Day, d.Hour}
}

// Profile is the astrological profile created during onboarding.
// It is replaced wholesale, never edited in place.
type Profile struct {
	BirthDetails       astro.BirthDetails  `json:"birthDetails"`
	Zodiac             astro.ChineseZodiac `json:"zodiac"`
	Pillars            astro.FourPillars   `json:"pillars"`
	MysticalNickname   string              `json:"mysticalNickname"`
	PillarDescriptions PillarDescriptions  `json:"pillarDescriptions"`
	EssenceSummary     string              `json:"essenceSummary"`
	CreatedAt          time.Time           `json:"createdAt"`
}

// Validate checks the structural invariants every stored profile must satisfy,
// whether its texts were generated or came from the fallbacks.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New(config.ErrProfileMissing)
	}
	if p.BirthDetails.Date.IsZero() {
		return invalid("birth date is missing")
	}
	if !p.Zodiac.Animal.Valid() || !p.Zodiac.Element.Valid() {
		return invalid("unknown zodiac animal or element")
	}
	for i, pl := range p.Pillars.All() {
		if !pl.Stem.Valid() || !pl.Branch.Valid() {
			return invalid(fmt.Sprintf("pillar %d has an unknown stem or branch", i))
		}
		if (int(pl.Stem)-int(pl.Branch))%2 != 0 {
			return invalid(fmt.Sprintf("pillar %d breaks stem/branch parity", i))
		}
		if pl.Element != pl.Stem.Element() {
			return invalid(fmt.Sprintf("pillar %d element does not match its stem", i))
		}
	}
	if len(strings.Fields(p.MysticalNickname)) != config.NicknameWordCount {
		return invalid("nickname must be two words")
	}
	for i, d := range p.PillarDescriptions.All() {
		if strings.TrimSpace(d) == "" {
			return invalid(fmt.Sprintf("pillar description %d is empty", i))
		}
	}
	lines := strings.Split(p.EssenceSummary, "\n")
	if len(lines) != config.EssenceLineCount {
		return invalid("essence summary must have three lines")
	}
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			return invalid("essence summary has an empty line")
		}
	}
	return nil
}

func invalid(reason string) error {
	return fmt.Errorf("%s: %s", config.ErrProfileInvalid, reason)
}

// ProfileError is returned when a fatal profile step fails.
type ProfileError struct {
	Step string
	Err  error
}

func (e *ProfileError) Error() string {
	msg := e.Step
	switch e.Step {
	case StepZodiac:
		msg = config.ErrZodiacStep
	case StepPillars:
		msg = config.ErrPillarsStep
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProfileError) Unwrap() error { return e.Err }
