package engine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/engine"
)

func card(lines ...string) string {
	return "BEGIN:VCARD\r\n" + strings.Join(lines, "\r\n") + "\r\nEND:VCARD\r\n"
}

func TestBirthDetailsFromVCard(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantDate string
		wantTime string
		wantLat  float64
		wantLon  float64
		wantTZ   string
	}{
		{
			name:     "Version4",
			input:    card("VERSION:4.0", "FN:Ada", "BDAY:19900515", "GEO:geo:40.7128,-74.006", "TZ:America/New_York"),
			wantDate: "1990-05-15", wantLat: 40.7128, wantLon: -74.006, wantTZ: "America/New_York",
		},
		{
			name:     "Version3",
			input:    card("VERSION:3.0", "FN:Ada", "BDAY:1990-05-15", "GEO:48.8566;2.3522"),
			wantDate: "1990-05-15", wantLat: 48.8566, wantLon: 2.3522, wantTZ: "UTC",
		},
		{
			name:     "GeoUncertainty",
			input:    card("VERSION:4.0", "FN:Ada", "BDAY:19900515", "GEO:geo:35.6762,139.6503;u=10"),
			wantDate: "1990-05-15", wantLat: 35.6762, wantLon: 139.6503, wantTZ: "UTC",
		},
		{
			name:     "DateTime",
			input:    card("VERSION:4.0", "FN:Ada", "BDAY:19900515T143000"),
			wantDate: "1990-05-15", wantTime: "14:30", wantTZ: "UTC",
		},
		{
			name:     "DateTimeExtended",
			input:    card("VERSION:3.0", "FN:Ada", "BDAY:1990-05-15T06:05:00Z"),
			wantDate: "1990-05-15", wantTime: "06:05", wantTZ: "UTC",
		},
		{
			name:     "OffsetTimezoneIgnored",
			input:    card("VERSION:4.0", "FN:Ada", "BDAY:19900515", "TZ:-0500"),
			wantDate: "1990-05-15", wantTZ: "UTC",
		},
		{
			name: "SkipsTruncatedBirthday",
			input: card("VERSION:4.0", "FN:Nobody", "BDAY:--0515") +
				card("VERSION:4.0", "FN:Ada", "BDAY:19840202"),
			wantDate: "1984-02-02", wantTZ: "UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd, err := engine.BirthDetailsFromVCard(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.wantDate, bd.Date.Format(config.DateFormatFullDash))
			if tt.wantTime == "" {
				assert.Nil(t, bd.Time)
			} else {
				require.NotNil(t, bd.Time)
				assert.Equal(t, tt.wantTime, *bd.Time)
			}
			assert.InDelta(t, tt.wantLat, bd.Location.Latitude, 1e-9)
			assert.InDelta(t, tt.wantLon, bd.Location.Longitude, 1e-9)
			assert.Equal(t, tt.wantTZ, bd.Location.Timezone)
		})
	}
}

func TestBirthDetailsFromVCard_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"NoBirthday", card("VERSION:4.0", "FN:Ada"), config.ErrVCardNoBirthday},
		{"OnlyTruncated", card("VERSION:4.0", "FN:Ada", "BDAY:--0515"), config.ErrVCardNoBirthday},
		{"Empty", "", config.ErrVCardNoBirthday},
		{"BadGeo", card("VERSION:4.0", "FN:Ada", "BDAY:19900515", "GEO:somewhere"), config.ErrVCardGeo},
		{"NonNumericGeo", card("VERSION:4.0", "FN:Ada", "BDAY:19900515", "GEO:geo:north,west"), config.ErrVCardGeo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.BirthDetailsFromVCard(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
