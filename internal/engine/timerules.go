package engine

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-fortune/internal/config"
)

// dailyReset fires at 08:00 in the location of the time handed to Next.
var dailyReset = mustSchedule(config.DailyResetSchedule)

func mustSchedule(spec string) cron.Schedule {
	s, err := cron.ParseStandard(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// CalculateFortuneExpiration returns 08:00:00.000 UTC on the UTC calendar day after generatedAt.
// It is anchored to UTC whatever the user's timezone; see NextDailyReset for the local rule.
func CalculateFortuneExpiration(generatedAt time.Time) time.Time {
	y, m, d := generatedAt.UTC().Date()
	return time.Date(y, m, d+1, config.DailyResetHour, 0, 0, 0, time.UTC)
}

// NextDailyReset returns the first 08:00 local time strictly after t, in t's location.
func NextDailyReset(t time.Time) time.Time {
	return dailyReset.Next(t)
}

// CanGenerateFortuneToday reports whether the daily cooldown started by lastGenerated
// has been lifted at now. The boundary is the next 08:00 local after lastGenerated,
// not a sliding 24 hour window.
func CanGenerateFortuneToday(now, lastGenerated time.Time) bool {
	if lastGenerated.IsZero() {
		return true
	}
	return !now.Before(NextDailyReset(lastGenerated.In(now.Location())))
}
