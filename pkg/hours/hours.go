// Package hours evaluates weekly store hours.
//
// A day without a row means the store has not published hours ("call for hours"),
// which is different from a row marked closed. Both evaluate to not-open.
package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is one weekday row. Weekday follows time.Weekday (0 = Sunday).
type Day struct {
	Weekday   int
	OpenTime  string // "HH:MM", 24h
	CloseTime string
	IsClosed  bool
}

type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusUnknown Status = "unknown"
)

const CallForHours = "Call for hours"

// ParseClock converts "HH:MM" (optionally "HH:MM:SS") to minutes after midnight.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	total := h*60 + m
	if total > 24*60 {
		return 0, false
	}
	return total, true
}

func find(days []Day, weekday int) (Day, bool) {
	for _, d := range days {
		if d.Weekday == weekday {
			return d, true
		}
	}
	return Day{}, false
}

// StatusAt reports whether the store is open at now, evaluated in loc.
// StatusUnknown is returned when the day has no row or a time is missing or unparsable.
func StatusAt(days []Day, now time.Time, loc *time.Location) Status {
	if loc != nil {
		now = now.In(loc)
	}
	day, ok := find(days, int(now.Weekday()))
	if !ok {
		return StatusUnknown
	}
	if day.IsClosed {
		return StatusClosed
	}
	open, okOpen := ParseClock(day.OpenTime)
	closeAt, okClose := ParseClock(day.CloseTime)
	if !okOpen || !okClose {
		return StatusUnknown
	}

	minutes := now.Hour()*60 + now.Minute()
	if open <= minutes && minutes < closeAt {
		return StatusOpen
	}
	return StatusClosed
}

// IsOpenAt treats an indeterminate status as closed.
func IsOpenAt(days []Day, now time.Time, loc *time.Location) bool {
	return StatusAt(days, now, loc) == StatusOpen
}

// FormatClock renders "18:30" as "6:30 PM".
func FormatClock(s string) string {
	mins, ok := ParseClock(s)
	if !ok {
		return s
	}
	h, m := (mins/60)%24, mins%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// Label renders the hours line for a single weekday.
func Label(days []Day, weekday int) string {
	day, ok := find(days, weekday)
	if !ok {
		return CallForHours
	}
	if day.IsClosed {
		return "Closed"
	}
	if day.OpenTime == "" || day.CloseTime == "" {
		return CallForHours
	}
	return fmt.Sprintf("%s – %s", FormatClock(day.OpenTime), FormatClock(day.CloseTime))
}

// TodayLabel renders today's hours line in loc.
func TodayLabel(days []Day, now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return Label(days, int(now.Weekday()))
}

// Week returns the seven labels Sunday through Saturday.
func Week(days []Day) []string {
	out := make([]string, 7)
	for i := range out {
		out[i] = Label(days, i)
	}
	return out
}
