package astro

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Timezone identifiers must resolve on hosts without a zoneinfo database.

	"github.com/tartampluch/go-fortune/internal/config"
)

// Location is the place of birth.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// BirthDetails is the onboarding input. Build it with NewBirthDetails; it is never mutated.
type BirthDetails struct {
	// Date carries the calendar day of birth; its clock fields are ignored.
	Date time.Time `json:"date"`
	// Time is the local time of day as "HH:MM", or nil when unknown.
	Time     *string  `json:"time"`
	Location Location `json:"location"`
}

// NewBirthDetails validates and assembles birth details.
// An empty timeOfDay means "unknown". Malformed times are kept as given and
// resolve to noon when the pillars are calculated.
func NewBirthDetails(date time.Time, timeOfDay string, loc Location) (BirthDetails, error) {
	if date.IsZero() {
		return BirthDetails{}, ErrInvalidDate
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return BirthDetails{}, errors.New(config.ErrInvalidLatitude)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return BirthDetails{}, errors.New(config.ErrInvalidLongitude)
	}
	if _, err := time.LoadLocation(loc.Timezone); err != nil {
		return BirthDetails{}, fmt.Errorf("%s %q: %w", config.ErrInvalidTimezone, loc.Timezone, err)
	}

	bd := BirthDetails{
		Date:     civilDate(date),
		Location: loc,
	}
	if tod := strings.TrimSpace(timeOfDay); tod != "" {
		bd.Time = &tod
	}
	return bd, nil
}

// ParseTimeOfDay parses "HH:MM" (24-hour). ok is false for anything out of range or malformed.
func ParseTimeOfDay(s string) (hour, minute int, ok bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || hs == "" || len(hs) > 2 || len(ms) != 2 || !digits(hs) || !digits(ms) {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolvedTime returns the hour and minute used for the hour pillar.
// Unknown or malformed times resolve to noon.
func (b BirthDetails) ResolvedTime() (hour, minute int) {
	if b.Time == nil {
		return 12, 0
	}
	h, m, ok := ParseTimeOfDay(*b.Time)
	if !ok {
		return 12, 0
	}
	return h, m
}
