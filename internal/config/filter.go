package config

import (
	"slices"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/roulette/internal/timeutil"
)

// FilterConfig is the resolved time range for a stats query.
type FilterConfig struct {
	StartTime time.Time
	EndTime   time.Time
	Period    timeutil.Period
}

// Filter resolves the stats time range from CLI flags. --since takes a
// natural-language date expression and overrides --period; with neither,
// the range covers all time.
func Filter(ctx *cli.Context) (*FilterConfig, error) {
	f := &FilterConfig{
		Period:  timeutil.PeriodAllTime,
		EndTime: time.Now(),
	}

	if since := ctx.String("since"); since != "" {
		start, err := timeutil.FromStr(since)
		if err != nil {
			return nil, err
		}

		f.StartTime = timeutil.RoundToStart(start)

		if f.EndTime.Before(f.StartTime) {
			return nil, errInvalidDateRange
		}

		return f, nil
	}

	if period := ctx.String("period"); period != "" {
		p := timeutil.Period(period)

		if !slices.Contains(timeutil.PeriodCollection, p) {
			return nil, errInvalidPeriod
		}

		f.Period = p

		if p != timeutil.PeriodAllTime {
			now := time.Now()

			f.StartTime = timeutil.RoundToStart(
				now.AddDate(0, 0, timeutil.Range[p]),
			)

			if p == timeutil.PeriodYesterday {
				f.EndTime = timeutil.RoundToEnd(now.AddDate(0, 0, -1))
			}
		}
	}

	return f, nil
}
