package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/engine"
	"github.com/tartampluch/go-fortune/internal/oracle"
)

func newYorkBirth(t *testing.T, timeOfDay string) astro.BirthDetails {
	t.Helper()
	bd, err := astro.NewBirthDetails(utc(1990, time.May, 15, 0, 0), timeOfDay, astro.Location{
		Latitude: 40.7128, Longitude: -74.006, Timezone: "America/New_York",
	})
	require.NoError(t, err)
	return bd
}

func promptContains(s string) any {
	return mock.MatchedBy(func(p string) bool { return strings.Contains(p, s) })
}

func TestCreateProfile_AllFallbacks(t *testing.T) {
	clock := &MockClock{CurrentTime: utc(2024, time.February, 1, 12, 0)}
	p, err := engine.NewAssembler(clock, nil, en).CreateProfile(context.Background(), newYorkBirth(t, ""))
	require.NoError(t, err)

	assert.Equal(t, astro.Horse, p.Zodiac.Animal)
	assert.Equal(t, astro.Metal, p.Zodiac.Element)
	assert.Equal(t, 1990, p.Zodiac.Year)
	assert.Equal(t, "午", p.Pillars.Hour.Branch.String(), "unknown time defaults to noon")

	assert.Equal(t, "Fearless Horse", p.MysticalNickname)
	assert.Equal(t, engine.FallbackNickname(astro.Horse.Index(), astro.Metal.Index(), 1990), p.MysticalNickname)
	assert.Contains(t, p.PillarDescriptions.Year, "destiny")
	assert.Contains(t, p.PillarDescriptions.Hour, "inner heart")
	assert.Contains(t, p.PillarDescriptions.Year, p.Pillars.Year.Stem.String()+p.Pillars.Year.Branch.String())
	assert.Len(t, strings.Split(p.EssenceSummary, "\n"), config.EssenceLineCount)
	assert.Contains(t, p.EssenceSummary, "Metal Horse")
	assert.Equal(t, clock.Now(), p.CreatedAt)

	assert.NoError(t, p.Validate())
}

func TestCreateProfile_Generated(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything, promptContains("mystical nickname"), mock.Anything).
		Return(`"silver horse."`, nil)
	gen.On("GenerateText", mock.Anything, mock.Anything, promptContains("Four Pillars"), mock.Anything).
		Return("1. Line for the year.\n2. Line for the month.\n\n3. Line for the day.\n4. Line for the hour.", nil)
	gen.On("GenerateText", mock.Anything, mock.Anything, promptContains("essence"), mock.Anything).
		Return("- Bold\n- Bright\n- Free", nil)

	p, err := engine.NewAssembler(&MockClock{CurrentTime: utc(2024, 2, 1, 12, 0)}, gen, en).
		CreateProfile(context.Background(), newYorkBirth(t, "14:30"))
	require.NoError(t, err)

	assert.Equal(t, "Silver Horse", p.MysticalNickname)
	assert.Equal(t, engine.PillarDescriptions{
		Year: "Line for the year.", Month: "Line for the month.", Day: "Line for the day.", Hour: "Line for the hour.",
	}, p.PillarDescriptions)
	assert.Equal(t, "Bold\nBright\nFree", p.EssenceSummary)
	assert.Equal(t, "未", p.Pillars.Hour.Branch.String())
	assert.NoError(t, p.Validate())

	gen.AssertNumberOfCalls(t, "GenerateText", 3)
	gen.AssertCalled(t, "GenerateText", mock.Anything, mock.Anything, mock.Anything,
		oracle.Options{MaxTokens: config.NicknameMaxTokens, Temperature: config.NicknameTemperature})
}

func TestCreateProfile_EveryGeneratorFailureFallsBack(t *testing.T) {
	failures := []error{oracle.ErrNoAPIKey, oracle.ErrNetwork, oracle.ErrRateLimit, oracle.ErrTimeout, oracle.ErrInvalidResponse}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", failure)

			p, err := engine.NewAssembler(&MockClock{CurrentTime: utc(2024, 2, 1, 12, 0)}, gen, en).
				CreateProfile(context.Background(), newYorkBirth(t, ""))
			require.NoError(t, err, "text generation errors never escape profile creation")

			assert.Equal(t, "Fearless Horse", p.MysticalNickname)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestCreateProfile_MalformedGeneratedText(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything, promptContains("mystical nickname"), mock.Anything).
		Return("The Most Radiant Horse", nil)
	gen.On("GenerateText", mock.Anything, mock.Anything, promptContains("Four Pillars"), mock.Anything).
		Return("Only one line.", nil)
	gen.On("GenerateText", mock.Anything, mock.Anything, promptContains("essence"), mock.Anything).
		Return("One\nTwo\nThree\nFour", nil)

	p, err := engine.NewAssembler(&MockClock{CurrentTime: utc(2024, 2, 1, 12, 0)}, gen, en).
		CreateProfile(context.Background(), newYorkBirth(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "Fearless Horse", p.MysticalNickname)
	assert.Contains(t, p.PillarDescriptions.Month, "environment")
	assert.Contains(t, p.EssenceSummary, "Metal Horse")
	assert.NoError(t, p.Validate())
}

func TestCreateProfile_FallbacksAreTranslated(t *testing.T) {
	p, err := engine.NewAssembler(&MockClock{CurrentTime: utc(2024, 2, 1, 12, 0)}, nil, localeFR).
		CreateProfile(context.Background(), newYorkBirth(t, ""))
	require.NoError(t, err)

	assert.Contains(t, p.EssenceSummary, "Cheval")
	assert.Contains(t, p.PillarDescriptions.Year, "destinée")
	assert.NoError(t, p.Validate())
}

func TestCreateProfile_FatalSteps(t *testing.T) {
	_, err := engine.NewAssembler(&MockClock{}, nil, en).CreateProfile(context.Background(), astro.BirthDetails{})
	require.Error(t, err)

	var perr *engine.ProfileError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, engine.StepZodiac, perr.Step)
	assert.Contains(t, err.Error(), "failed to calculate zodiac")
	assert.ErrorIs(t, err, astro.ErrInvalidDate)

	pillarErr := &engine.ProfileError{Step: engine.StepPillars, Err: astro.ErrInvalidDate}
	assert.Contains(t, pillarErr.Error(), "failed to calculate four pillars")
}

func TestFallbackNickname_Deterministic(t *testing.T) {
	tests := []struct {
		animal, element, year int
		want                  string
	}{
		{6, 3, 1990, "Fearless Horse"},
		{0, 0, 0, "Radiant Rat"},
		{4, 4, 2024, "Radiant Dragon"},
		{11, 1, 1983, "Moonlit Pig"},
		{1, 2, -7, "Wandering Ox"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			first := engine.FallbackNickname(tt.animal, tt.element, tt.year)
			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, engine.FallbackNickname(tt.animal, tt.element, tt.year))
			assert.Len(t, strings.Fields(first), 2)
		})
	}
}

func TestProfile_Validate(t *testing.T) {
	base := testProfile(t)
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(p *engine.Profile)
	}{
		{"NoDate", func(p *engine.Profile) { p.BirthDetails.Date = time.Time{} }},
		{"UnknownAnimal", func(p *engine.Profile) { p.Zodiac.Animal = "unicorn" }},
		{"BrokenParity", func(p *engine.Profile) { p.Pillars.Day.Branch = (p.Pillars.Day.Branch + 1) % 12 }},
		{"WrongPillarElement", func(p *engine.Profile) { p.Pillars.Year.Element = astro.Water; p.Pillars.Year.Stem = 0 }},
		{"ThreeWordNickname", func(p *engine.Profile) { p.MysticalNickname = "Very Radiant Horse" }},
		{"EmptyDescription", func(p *engine.Profile) { p.PillarDescriptions.Day = "  " }},
		{"TwoLineEssence", func(p *engine.Profile) { p.EssenceSummary = "one\ntwo" }},
		{"BlankEssenceLine", func(p *engine.Profile) { p.EssenceSummary = "one\n \nthree" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := *base
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), config.ErrProfileInvalid)
		})
	}

	var nilProfile *engine.Profile
	assert.Error(t, nilProfile.Validate())
}
