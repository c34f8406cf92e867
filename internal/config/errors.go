package config

import "errors"

var (
	errInvalidDefaultMinutes = errors.New(
		"default task duration must be between 1 and 480 minutes",
	)

	errInvalidPort = errors.New("server port must be between 1 and 65535")

	errInvalidPeriod = errors.New("invalid time period")

	errInvalidDateRange = errors.New(
		"the end of the time range must be after the start",
	)
)
