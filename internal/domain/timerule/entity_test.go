package timerule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{in: "08:15", want: ClockTime{Hour: 8, Minute: 15}},
		{in: "00:00", want: ClockTime{}},
		{in: "23:59", want: ClockTime{Hour: 23, Minute: 59}},
		{in: "24:00", wantErr: true},
		{in: "8:15", wantErr: true},
		{in: "08:60", wantErr: true},
		{in: "0815", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockTime(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClockTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestClockTime_OnKeepsDateAndLocation(t *testing.T) {
	loc := time.FixedZone("LKT", 5*3600+1800)
	event := time.Date(2026, 3, 9, 23, 59, 30, 0, loc)

	got := MustParseClockTime("18:00").On(event)

	assert.Equal(t, time.Date(2026, 3, 9, 18, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestTimeRules_Validate(t *testing.T) {
	rules := Default()
	require.NoError(t, rules.Validate())
	assert.Equal(t, 150, rules.OvertimeWindowMinutes())

	inverted := Default()
	inverted.OTEnd = MustParseClockTime("17:00")
	assert.ErrorIs(t, inverted.Validate(), ErrOvertimeWindowInverted)

	negative := Default()
	negative.OTRatePerHour = decimal.NewFromInt(-1)
	assert.ErrorIs(t, negative.Validate(), ErrNegativeRate)

	radius := Default()
	radius.GeofenceRadiusMeters = -5
	assert.ErrorIs(t, radius.Validate(), ErrNegativeRadius)
}
