package bars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeFrameString(t *testing.T) {
	assert.Equal(t, "1Day", Day.String())
	assert.Equal(t, "1Min", Minute.String())
	assert.Equal(t, "15Min", TimeFrame{Amount: 15, Unit: UnitMinute}.String())
	assert.Equal(t, "3Month", TimeFrame{Amount: 3, Unit: UnitMonth}.String())
}

func TestParseTimeFrame(t *testing.T) {
	tests := []struct {
		in   string
		want TimeFrame
	}{
		{"1Day", Day},
		{"day", Day},
		{"Day", Day},
		{"15Min", TimeFrame{Amount: 15, Unit: UnitMinute}},
		{"minute", Minute},
		{"4hour", TimeFrame{Amount: 4, Unit: UnitHour}},
		{" 1Week ", Week},
		{"6Month", TimeFrame{Amount: 6, Unit: UnitMonth}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeFrame(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeFrame_Invalid(t *testing.T) {
	for _, in := range []string{"", "1Fortnight", "60Min", "24Hour", "2Day", "5Month", "0Day"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTimeFrame(in)
			assert.ErrorIs(t, err, ErrInvalidTimeFrame)
		})
	}
}

func TestRequestValidate(t *testing.T) {
	assert.NoError(t, Request{Tickers: nil, Years: 0, TimeFrame: Day}.Validate())
	assert.ErrorIs(t, Request{Years: -1, TimeFrame: Day}.Validate(), ErrInvalidYears)
	assert.ErrorIs(t, Request{Years: 1}.Validate(), ErrInvalidTimeFrame)
}
