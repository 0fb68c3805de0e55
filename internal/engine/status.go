package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tartampluch/go-fortune/internal/config"
)

// Status summarizes the Manager at one instant, as printed by the CLI and published over HTTP.
type Status struct {
	State         State      `json:"state"`
	Fortune       *Fortune   `json:"fortune,omitempty"`
	CanGenerate   bool       `json:"canGenerate"`
	NextFortuneAt *time.Time `json:"nextFortuneAt,omitempty"`
	TimeUntilNext string     `json:"timeUntilNext"`
	LastFortuneAt *time.Time `json:"lastFortuneAt,omitempty"`
}

// Status captures the current lifecycle position.
func (m *Manager) Status() Status {
	now := m.clock.Now()
	s := Status{
		State:         m.State(),
		Fortune:       m.GetCachedFortune(),
		CanGenerate:   m.CanGenerateNewFortune(),
		TimeUntilNext: m.GetFormattedTimeUntilNext(),
	}
	if d := m.GetTimeUntilNextFortune(); d > 0 {
		next := now.Add(d).UTC()
		s.NextFortuneAt = &next
	}
	if last, ok := m.LastFortuneDate(); ok {
		last = last.UTC()
		s.LastFortuneAt = &last
	}
	return s
}

// Publish renders the status as JSON and as an iCalendar feed.
func (m *Manager) Publish() (status, feed []byte, err error) {
	s := m.Status()

	status, err = json.Marshal(s)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", config.ErrStatusEncode, err)
	}

	var next time.Time
	if s.NextFortuneAt != nil {
		next = *s.NextFortuneAt
	}
	feed, err = FortuneFeed(s.Fortune, next, m.catalog, m.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	return status, feed, nil
}
