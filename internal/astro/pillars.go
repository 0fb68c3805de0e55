package astro

import "time"

// Pillar is one stem/branch pair of the Four Pillars.
type Pillar struct {
	Stem    Stem    `json:"stem"`
	Branch  Branch  `json:"branch"`
	Element Element `json:"element"`
}

// FourPillars is the year, month, day and hour pillar of a birth.
type FourPillars struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

// All returns the pillars in year, month, day, hour order.
func (f FourPillars) All() [4]Pillar {
	return [4]Pillar{f.Year, f.Month, f.Day, f.Hour}
}

const secondsPerDay = 24 * 60 * 60

// dayAnchor is a 甲子 day (sexagenary index 0).
var dayAnchor = time.Date(2000, time.January, 7, 0, 0, 0, 0, time.UTC)

// solarMonthStarts gives the approximate Gregorian start of each solar month (節),
// indexed by Gregorian month. The branch of the solar month beginning that day follows.
var solarMonthStarts = [13]struct {
	day    int
	branch Branch
}{
	time.January:   {6, 1},  // 小寒 丑
	time.February:  {4, 2},  // 立春 寅
	time.March:     {6, 3},  // 驚蟄 卯
	time.April:     {5, 4},  // 清明 辰
	time.May:       {6, 5},  // 立夏 巳
	time.June:      {6, 6},  // 芒種 午
	time.July:      {7, 7},  // 小暑 未
	time.August:    {8, 8},  // 立秋 申
	time.September: {8, 9},  // 白露 酉
	time.October:   {8, 10}, // 寒露 戌
	time.November:  {7, 11}, // 立冬 亥
	time.December:  {7, 0},  // 大雪 子
}

// CalculateFourPillars derives the four pillars from birth details.
// The calendar day of the birth date is used as written; the timezone only
// qualifies the local time of day.
func CalculateFourPillars(bd BirthDetails) (FourPillars, error) {
	if bd.Date.IsZero() {
		return FourPillars{}, ErrInvalidDate
	}
	day := civilDate(bd.Date)

	year := YearPillar(ZodiacYear(day))
	month := MonthPillar(day)
	dayP := DayPillar(day)
	hour, _ := bd.ResolvedTime()

	return FourPillars{
		Year:  year,
		Month: month,
		Day:   dayP,
		Hour:  HourPillar(dayP.Stem, hour),
	}, nil
}

// YearPillar returns the sexagenary pillar of a zodiac year (1984 is 甲子).
func YearPillar(zodiacYear int) Pillar {
	return fromCycle(mod(zodiacYear-4, 60))
}

// MonthPillar returns the pillar of the solar month containing date.
// The stem is seeded by the stem of the solar year, which begins at 立春.
func MonthPillar(date time.Time) Pillar {
	day := civilDate(date)
	start := solarMonthStarts[day.Month()]

	branch := start.branch
	if day.Day() < start.day {
		branch = Branch(mod(int(branch)-1, 12))
	}

	solarYear := day.Year()
	if day.Month() < time.February || (day.Month() == time.February && day.Day() < solarMonthStarts[time.February].day) {
		solarYear--
	}
	yearStem := YearPillar(solarYear).Stem

	// Months are counted from 寅; the 寅 month stem is 2*(yearStem mod 5)+2.
	offset := mod(int(branch)-2, 12)
	stem := Stem(mod(2*(int(yearStem)%5)+2+offset, 10))
	return Pillar{Stem: stem, Branch: branch, Element: stem.Element()}
}

// DayPillar returns the pillar of a calendar day. It repeats every 60 days.
func DayPillar(date time.Time) Pillar {
	days := (civilDate(date).Unix() - dayAnchor.Unix()) / secondsPerDay
	return fromCycle(mod(int(days), 60))
}

// HourPillar returns the pillar of a local hour, seeded by the day stem.
// Two-hour windows are centred on each branch: 23:00–00:59 is 子, 11:00–12:59 is 午.
func HourPillar(dayStem Stem, hour int) Pillar {
	branch := HourBranch(hour)
	stem := Stem(mod(2*(int(dayStem)%5)+int(branch), 10))
	return Pillar{Stem: stem, Branch: branch, Element: stem.Element()}
}

// HourBranch maps an hour (0-23) to its branch.
func HourBranch(hour int) Branch {
	return Branch(mod((hour+1)/2, 12))
}

func fromCycle(n int) Pillar {
	stem := Stem(n % 10)
	return Pillar{Stem: stem, Branch: Branch(n % 12), Element: stem.Element()}
}
