package timeutil_test

import (
	"testing"
	"time"

	"github.com/ayoisaiah/roulette/internal/timeutil"
)

func TestSecsToMinsAndSecs(t *testing.T) {
	cases := []struct {
		secs float64
		mins int
		rem  int
	}{
		{0, 0, 0},
		{59, 0, 59},
		{60, 1, 0},
		{150, 2, 30},
		{150.9, 2, 30},
		{3599, 59, 59},
	}

	for _, tc := range cases {
		mins, secs := timeutil.SecsToMinsAndSecs(tc.secs)
		if mins != tc.mins || secs != tc.rem {
			t.Errorf(
				"SecsToMinsAndSecs(%v) = %d, %d; want %d, %d",
				tc.secs, mins, secs, tc.mins, tc.rem,
			)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := timeutil.FormatTime(2, 5); got != "02:05" {
		t.Errorf("FormatTime(2, 5) = %q; want 02:05", got)
	}

	if got := timeutil.FormatTime(0, 0); got != "00:00" {
		t.Errorf("FormatTime(0, 0) = %q; want 00:00", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		mins int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{65, "1h 5m"},
		{125, "2h 5m"},
	}

	for _, tc := range cases {
		if got := timeutil.FormatDuration(tc.mins); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q; want %q", tc.mins, got, tc.want)
		}
	}
}

func TestRoundToStartAndEnd(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 14, 32, 11, 500, time.UTC)

	start := timeutil.RoundToStart(ref)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("RoundToStart(%v) = %v; want midnight", ref, start)
	}

	if start.Day() != ref.Day() {
		t.Errorf("RoundToStart changed the day: %v", start)
	}

	end := timeutil.RoundToEnd(ref)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("RoundToEnd(%v) = %v; want end of day", ref, end)
	}
}

func TestToKeyOrdering(t *testing.T) {
	earlier := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	later := earlier.Add(2 * time.Hour)

	if string(timeutil.ToKey(earlier)) >= string(timeutil.ToKey(later)) {
		t.Error("expected bolt keys to sort chronologically")
	}
}

func TestFromStr(t *testing.T) {
	got, err := timeutil.FromStr("2024-03-15")
	if err != nil {
		t.Fatalf("FromStr returned error: %v", err)
	}

	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 15 {
		t.Errorf("FromStr(2024-03-15) = %v", got)
	}

	if _, err := timeutil.FromStr("not a date at all %%"); err == nil {
		t.Error("expected an error for an unparseable expression")
	}
}
