package hours

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func TestIsOpenAt(t *testing.T) {
	week := []Day{
		{Weekday: 1, OpenTime: "09:00", CloseTime: "18:00"},
		{Weekday: 2, IsClosed: true},
		{Weekday: 3, OpenTime: "09:00"},
	}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{name: "one minute before close", now: monday(17, 59), want: StatusOpen},
		{name: "at close is closed", now: monday(18, 0), want: StatusClosed},
		{name: "at open is open", now: monday(9, 0), want: StatusOpen},
		{name: "before open", now: monday(8, 59), want: StatusClosed},
		{name: "closed day", now: monday(12, 0).AddDate(0, 0, 1), want: StatusClosed},
		{name: "missing close time", now: monday(12, 0).AddDate(0, 0, 2), want: StatusUnknown},
		{name: "no row for day", now: monday(12, 0).AddDate(0, 0, 3), want: StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusAt(week, tt.now, time.UTC))
			assert.Equal(t, tt.want == StatusOpen, IsOpenAt(week, tt.now, time.UTC))
		})
	}
}

func TestIsOpenAtUsesTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	week := []Day{{Weekday: 1, OpenTime: "09:00", CloseTime: "18:00"}}
	// 16:00 UTC on Monday is 10:00 in Chicago
	now := monday(16, 0)

	assert.True(t, IsOpenAt(week, now, loc))
	// 23:30 UTC is 17:30 in Chicago
	assert.True(t, IsOpenAt(week, monday(23, 30), loc))
	// 00:30 UTC Tuesday is 18:30 Monday in Chicago
	assert.False(t, IsOpenAt(week, monday(0, 30).AddDate(0, 0, 1), loc))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "09:00", want: 540, wantOK: true},
		{in: "18:30:00", want: 1110, wantOK: true},
		{in: "24:00", want: 1440, wantOK: true},
		{in: "25:00", wantOK: false},
		{in: "9", wantOK: false},
		{in: "", wantOK: false},
		{in: "ab:cd", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseClock(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	week := []Day{
		{Weekday: 0, IsClosed: true},
		{Weekday: 1, OpenTime: "09:00", CloseTime: "18:30"},
		{Weekday: 2, OpenTime: "00:00", CloseTime: "12:00"},
	}

	labels := Week(week)
	require.Len(t, labels, 7)
	assert.Equal(t, "Closed", labels[0])
	assert.Equal(t, "9:00 AM – 6:30 PM", labels[1])
	assert.Equal(t, "12:00 AM – 12:00 PM", labels[2])
	assert.Equal(t, CallForHours, labels[3])
	assert.Equal(t, "9:00 AM – 6:30 PM", TodayLabel(week, monday(10, 0), time.UTC))
}
