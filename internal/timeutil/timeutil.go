// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const minutesInAnHour = 60

type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period180Days   Period = "180days"
	Period365Days   Period = "365days"
)

var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period180Days:   -179,
	Period365Days:   -364,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
	Period180Days,
	Period365Days,
}

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// SecsToMinsAndSecs decomposes a seconds value into whole minutes and
// leftover seconds.
func SecsToMinsAndSecs(secs float64) (mins, seconds int) {
	total := int(math.Floor(secs))
	mins = total / minutesInAnHour
	seconds = total % minutesInAnHour

	return
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// FormatTime renders a minutes/seconds pair as a zero-padded clock value.
func FormatTime(mins, secs int) string {
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// FormatDuration expresses a total minutes value in hours and minutes for
// display (e.g. "1h 5m").
func FormatDuration(totalMinutes int) string {
	if totalMinutes < minutesInAnHour {
		return fmt.Sprintf("%dm", totalMinutes)
	}

	hrs, mins := MinsToHoursAndMins(totalMinutes)

	if mins == 0 {
		return fmt.Sprintf("%dh", hrs)
	}

	return fmt.Sprintf("%dh %dm", hrs, mins)
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// FromStr parses a natural-language date expression (e.g. "yesterday",
// "2 weeks ago") into a concrete time.
func FromStr(str string) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime: time.Now(),
	}

	d, err := dateparser.Parse(cfg, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date expression %q: %w", str, err)
	}

	return d.Time, nil
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}
