package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The Manager reads it for every cooldown, expiration and countdown decision;
// the location of the returned time is the user's local time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
