package astro

import "time"

// epochYear is the zodiac year of a rat, the start of the animal cycle.
const epochYear = 1900

// ChineseZodiac is the animal and element of a zodiac year.
type ChineseZodiac struct {
	Animal  Animal  `json:"animal"`
	Element Element `json:"element"`
	// Year is the zodiac year, one less than the Gregorian year for dates before the lunar New Year.
	Year int `json:"year"`
}

// CalculateChineseZodiac maps a Gregorian date to its zodiac year, animal and element.
// Only the calendar fields of date are used; its location is not converted.
func CalculateChineseZodiac(date time.Time) (ChineseZodiac, error) {
	if date.IsZero() {
		return ChineseZodiac{}, ErrInvalidDate
	}
	year := ZodiacYear(date)
	return ChineseZodiac{
		Animal:  AnimalForYear(year),
		Element: ElementForYear(year),
		Year:    year,
	}, nil
}

// ZodiacYear resolves the zodiac year of date against the lunar New Year table.
func ZodiacYear(date time.Time) int {
	day := civilDate(date)
	newYear, _ := LunarNewYear(day.Year())
	if day.Before(newYear) {
		return day.Year() - 1
	}
	return day.Year()
}

// AnimalForYear returns the animal of a zodiac year (period 12, 1900 is a rat year).
func AnimalForYear(zodiacYear int) Animal {
	return zodiacAnimals[mod(zodiacYear-epochYear, 12)]
}

// ElementForYear returns the element of a zodiac year (period 10, two years per element).
func ElementForYear(zodiacYear int) Element {
	switch mod(zodiacYear, 10) {
	case 0, 1:
		return Metal
	case 2, 3:
		return Water
	case 4, 5:
		return Wood
	case 6, 7:
		return Fire
	default:
		return Earth
	}
}

// civilDate strips the clock and location, keeping the calendar day as written.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
