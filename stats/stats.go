// Package stats aggregates finished sessions into the numbers shown by
// the stats command and the stats endpoint.
package stats

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/ayoisaiah/roulette/internal/models"
	"github.com/ayoisaiah/roulette/internal/timeutil"
	"github.com/ayoisaiah/roulette/internal/ui"
)

const recentLimit = 10

// Stats is the aggregate view of a set of session records.
type Stats struct {
	Recent             []models.SessionRecord `json:"recent_sessions"`
	TotalMinutes       int                    `json:"total_minutes"`
	TotalSessions      int                    `json:"total_sessions"`
	SuccessfulSessions int                    `json:"successful_sessions"`
	StreakDays         int                    `json:"streak_days"`
}

func dayOf(t time.Time) time.Time {
	return timeutil.RoundToStart(t)
}

// streak counts consecutive calendar days with at least one finished
// session, ending today or yesterday relative to now.
func streak(records []models.SessionRecord, now time.Time) int {
	days := make(map[time.Time]struct{}, len(records))

	for _, rec := range records {
		days[dayOf(rec.FinishedAt.In(now.Location()))] = struct{}{}
	}

	day := dayOf(now)

	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)

		if _, ok := days[day]; !ok {
			return 0
		}
	}

	count := 0

	for {
		if _, ok := days[day]; !ok {
			break
		}

		count++

		day = day.AddDate(0, 0, -1)
	}

	return count
}

// Compute aggregates the given records. The records need not be sorted.
func Compute(records []models.SessionRecord, now time.Time) Stats {
	s := Stats{
		TotalSessions: len(records),
		StreakDays:    streak(records, now),
	}

	sorted := append([]models.SessionRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})

	for _, rec := range sorted {
		if rec.Success {
			s.TotalMinutes += rec.Minutes
			s.SuccessfulSessions++
		}
	}

	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}

	s.Recent = sorted

	return s
}

// Show renders the stats as terminal tables.
func Show(s Stats, w io.Writer) {
	summary := [][]string{
		{"Focused", "Sessions", "Completed", "Streak"},
		{
			ui.Green(timeutil.FormatDuration(s.TotalMinutes)),
			strconv.Itoa(s.TotalSessions),
			strconv.Itoa(s.SuccessfulSessions),
			ui.Cyan(strconv.Itoa(s.StreakDays) + " days"),
		},
	}

	ui.PrintTable(summary, w)

	if len(s.Recent) == 0 {
		return
	}

	recent := [][]string{{"Task", "Date", "Minutes", "Outcome"}}

	for _, rec := range s.Recent {
		outcome := ui.Red("abandoned")
		if rec.Success {
			outcome = ui.Green("completed")
		}

		recent = append(recent, []string{
			rec.Title,
			rec.StartedAt.Format("Jan 02 15:04"),
			strconv.Itoa(rec.Minutes),
			outcome,
		})
	}

	ui.PrintTable(recent, w)
}
