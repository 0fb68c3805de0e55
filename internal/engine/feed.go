package engine

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/locale"
)

// FortuneFeed renders the current fortune and the next daily reset as an iCalendar document.
// f may be nil; nextReset may be zero when a fortune is available now.
func FortuneFeed(f *Fortune, nextReset time.Time, cat *locale.Catalog, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	if f != nil {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, f.ID, config.ICalDomain))
		event.Props.SetText(config.PropSummary, cat.Msg(config.TKeyEvtSummary, map[string]any{
			"Ideogram": f.DecorativeElements.Ideogram,
		}))
		event.Props.SetText(config.PropDescription, f.Message+"\n\n- "+f.DecorativeElements.Signature)
		event.Props.SetText(config.PropCategories, string(f.Source))
		event.Props.SetDateTime(config.PropDTStart, f.GeneratedAt.UTC())
		event.Props.SetDateTime(config.PropDTEnd, f.ExpiresAt.UTC())
		event.Props.Set(dtStamp)
		cal.Children = append(cal.Children, event.Component)
	}

	if !nextReset.IsZero() {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatResetUID, nextReset.UTC().Format(config.DateFormatBasicTZ), config.ICalDomain))
		event.Props.SetText(config.PropSummary, cat.Msg(config.TKeyEvtReset, nil))
		event.Props.SetText(config.PropDescription, cat.Msg(config.TKeyEvtResetDesc, nil))
		event.Props.SetDateTime(config.PropDTStart, nextReset.UTC())
		event.Props.SetDateTime(config.PropDTEnd, nextReset.UTC())
		event.Props.Set(dtStamp)
		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}
