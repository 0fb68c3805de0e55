package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/config"
)

// BirthDetailsFromVCard reads the first card carrying a full BDAY and turns it into birth details.
// A BDAY with a time of day sets the birth time; GEO and TZ fill the location
// (0,0 and UTC when absent).
func BirthDetailsFromVCard(r io.Reader) (astro.BirthDetails, error) {
	dec := vcard.NewDecoder(r)
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return astro.BirthDetails{}, errors.New(config.ErrVCardNoBirthday)
		}
		if err != nil {
			return astro.BirthDetails{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}
		date, timeOfDay, ok := parseBirthday(bday.Value)
		if !ok {
			slog.Debug(config.MsgVCardSkipped,
				config.LogKeyComponent, config.CompProfile,
				config.LogKeyValue, bday.Value)
			continue
		}

		loc := astro.Location{Timezone: config.DefaultTimezone}
		if geo := card.Get(config.VCardGEO); geo != nil && geo.Value != "" {
			lat, lon, err := parseGeo(geo.Value)
			if err != nil {
				return astro.BirthDetails{}, err
			}
			loc.Latitude, loc.Longitude = lat, lon
		}
		if tz := card.Get(config.VCardTZ); tz != nil && tz.Value != "" {
			if _, err := time.LoadLocation(tz.Value); err == nil {
				loc.Timezone = tz.Value
			} else {
				slog.Warn(config.MsgVCardTZ,
					config.LogKeyComponent, config.CompProfile,
					config.LogKeyValue, tz.Value)
			}
		}

		return astro.NewBirthDetails(date, timeOfDay, loc)
	}
}

// parseBirthday accepts the vCard 3 and 4 date and date-time forms that carry a year.
// Truncated dates ("--0515") cannot place a zodiac year and are rejected.
func parseBirthday(value string) (date time.Time, timeOfDay string, ok bool) {
	for _, f := range []string{config.DateFormatFullDash, config.DateFormatFullBasic} {
		if t, err := time.Parse(f, value); err == nil {
			return t, "", true
		}
	}
	for _, f := range []string{config.DateFormatRFC3339, config.DateFormatFullT, config.DateFormatBasicT, config.DateFormatBasicTZ} {
		if t, err := time.Parse(f, value); err == nil {
			return t, fmt.Sprintf(config.FormatTimeOfDay, t.Hour(), t.Minute()), true
		}
	}
	return time.Time{}, "", false
}

// parseGeo reads "geo:lat,lon" (vCard 4) or "lat;lon" (vCard 3).
func parseGeo(value string) (lat, lon float64, err error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), config.GeoPrefix)
	sep := ","
	if !strings.Contains(v, sep) {
		sep = ";"
	}
	latS, lonS, found := strings.Cut(v, sep)
	if !found {
		return 0, 0, fmt.Errorf("%s: %q", config.ErrVCardGeo, value)
	}
	// Drop a trailing uncertainty parameter (";u=10").
	lonS, _, _ = strings.Cut(lonS, ";")

	lat, err1 := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(lonS), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%s: %q", config.ErrVCardGeo, value)
	}
	return lat, lon, nil
}
