// Package app assembles the roulette command-line application.
package app

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/roulette/internal/config"
)

const (
	envNoColor         = "NO_COLOR"
	envRouletteNoColor = "ROULETTE_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// initLogger routes the default slog output to a rotated log file so that
// debug output never corrupts the terminal UI.
func initLogger() {
	logger := slog.New(slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   config.LogFilePath(),
		MaxSize:    5,
		MaxBackups: 2,
	}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	slog.SetDefault(logger)
}

// Get retrieves the roulette app instance.
func Get() *cli.App {
	rouletteApp := &cli.App{
		Name: "roulette",
		Usage: `
		Roulette picks your next task for you. Dump your task list in, spin the
		wheel, and focus on whatever comes up until the timer runs out.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Normalize free-form lines into tasks and add them to the list",
				UsageText: "roulette add [OPTIONS] [LINES...]",
				Action:    addAction,
				Flags:     []cli.Flag{sampleFlag, inferMinutesFlag},
			},
			{
				Name:   "list",
				Usage:  "List all tasks",
				Action: listAction,
				Flags:  []cli.Flag{jsonFlag, allFlag},
			},
			{
				Name:      "select",
				Usage:     "Put tasks on the wheel",
				UsageText: "roulette select TASK_ID...",
				Action:    selectAction,
			},
			{
				Name:      "deselect",
				Usage:     "Take tasks off the wheel",
				UsageText: "roulette deselect TASK_ID...",
				Action:    deselectAction,
			},
			{
				Name:   "suggest",
				Usage:  "Suggest a few tasks for this time of day",
				Action: suggestAction,
				Flags:  []cli.Flag{addSuggestionsFlag},
			},
			{
				Name:   "stats",
				Usage:  "Report completed sessions and streaks",
				Action: statsAction,
				Flags:  []cli.Flag{periodFlag, sinceFlag, jsonFlag},
			},
			{
				Name:   "serve",
				Usage:  "Serve the web pages and sync API",
				Action: serveAction,
				Flags:  []cli.Flag{portFlag},
			},
			{
				Name:   "status",
				Usage:  "Print the status of the running timer",
				Action: statusAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			instantFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return rouletteApp
}

func beforeAction(ctx *cli.Context) error {
	config.InitializePaths()
	initLogger()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if ROULETTE_NO_COLOR is set
	if _, exists := os.LookupEnv(envRouletteNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting roulette")

	return nil
}
