package app

import "github.com/urfave/cli/v2"

var (
	instantFlag = &cli.BoolFlag{
		Name:    "instant",
		Aliases: []string{"i"},
		Usage:   "Skip the spin animation and pick a task immediately",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	sampleFlag = &cli.StringFlag{
		Name:  "sample",
		Usage: "Add one of the built-in sample task lists (morning-routine, work-focus, personal-care, learning-growth)",
	}

	inferMinutesFlag = &cli.BoolFlag{
		Name:  "infer-minutes",
		Usage: "Read durations like '15 min' out of task titles",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	allFlag = &cli.BoolFlag{
		Name:    "all",
		Aliases: []string{"a"},
		Usage:   "Include done and abandoned tasks",
	}

	addSuggestionsFlag = &cli.BoolFlag{
		Name:  "add",
		Usage: "Add the suggestions to the task list",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Limit stats to a period: today, yesterday, 7days, 14days, 30days, 90days, 180days, 365days, all-time",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Limit stats to sessions since a date expression (e.g. '2 weeks ago')",
	}

	portFlag = &cli.UintFlag{
		Name:  "port",
		Usage: "Port to bind the HTTP server to",
	}
)
