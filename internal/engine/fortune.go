package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/config"
)

// Source records where a fortune message came from.
type Source string

const (
	SourceAI                Source = "ai"
	SourceFallback          Source = "fallback"
	SourceConnectivityError Source = "connectivity_error"
)

// Decorations are the ornaments printed around a fortune message.
type Decorations struct {
	Ideogram  string `json:"ideogram"`
	Signature string `json:"signature"`
}

// Fortune is one opened fortune cookie.
type Fortune struct {
	ID                 string      `json:"id"`
	Message            string      `json:"message"`
	GeneratedAt        time.Time   `json:"generatedAt"`
	ExpiresAt          time.Time   `json:"expiresAt"`
	Source             Source      `json:"source"`
	DecorativeElements Decorations `json:"decorativeElements"`
}

// Expired reports whether the fortune is past its expiration at now.
func (f *Fortune) Expired(now time.Time) bool {
	return !now.Before(f.ExpiresAt)
}

// animalIdeograms follows the zodiac cycle order.
var animalIdeograms = map[astro.Animal]string{
	astro.Rat:     "鼠",
	astro.Ox:      "牛",
	astro.Tiger:   "虎",
	astro.Rabbit:  "兔",
	astro.Dragon:  "龍",
	astro.Snake:   "蛇",
	astro.Horse:   "馬",
	astro.Goat:    "羊",
	astro.Monkey:  "猴",
	astro.Rooster: "雞",
	astro.Dog:     "狗",
	astro.Pig:     "豬",
}

// AnimalIdeogram returns the Chinese character of a zodiac animal.
func AnimalIdeogram(a astro.Animal) string {
	return animalIdeograms[a]
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// FortuneErrorCode discriminates the caller-actionable failures of fortune generation.
type FortuneErrorCode string

const (
	CodeNoProfile      FortuneErrorCode = "NO_PROFILE"
	CodeCooldownActive FortuneErrorCode = "COOLDOWN_ACTIVE"
	CodeStorageError   FortuneErrorCode = "STORAGE_ERROR"
	CodeCacheError     FortuneErrorCode = "CACHE_ERROR"
)

// FortuneError is returned by GenerateFortune and ForceRefreshFortune.
type FortuneError struct {
	Code FortuneErrorCode
	Err  error
}

func (e *FortuneError) Error() string {
	msg := fortuneErrorMessages[e.Code]
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", msg, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (%s)", msg, e.Code)
}

func (e *FortuneError) Unwrap() error { return e.Err }

// Is matches any *FortuneError with the same code.
func (e *FortuneError) Is(target error) bool {
	t, ok := target.(*FortuneError)
	return ok && t.Code == e.Code
}

var fortuneErrorMessages = map[FortuneErrorCode]string{
	CodeNoProfile:      config.ErrNoProfile,
	CodeCooldownActive: config.ErrCooldownActive,
	CodeStorageError:   config.ErrFortuneStorage,
	CodeCacheError:     config.ErrFortuneCache,
}

// Sentinels for errors.Is.
var (
	ErrNoProfile      = &FortuneError{Code: CodeNoProfile}
	ErrCooldownActive = &FortuneError{Code: CodeCooldownActive}
	ErrStorage        = &FortuneError{Code: CodeStorageError}
	ErrCache          = &FortuneError{Code: CodeCacheError}
)

// FortuneCode extracts the code of a *FortuneError in err's chain, or "".
func FortuneCode(err error) FortuneErrorCode {
	var fe *FortuneError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
