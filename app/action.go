package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/maruel/natural"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/roulette/internal/config"
	"github.com/ayoisaiah/roulette/internal/models"
	"github.com/ayoisaiah/roulette/internal/normalize"
	"github.com/ayoisaiah/roulette/internal/state"
	"github.com/ayoisaiah/roulette/internal/suggest"
	"github.com/ayoisaiah/roulette/internal/ui"
	"github.com/ayoisaiah/roulette/internal/voice"
	"github.com/ayoisaiah/roulette/internal/wheel"
	"github.com/ayoisaiah/roulette/server"
	"github.com/ayoisaiah/roulette/stats"
	"github.com/ayoisaiah/roulette/store"
	"github.com/ayoisaiah/roulette/timer"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// load initializes the config, the store, and the application state. The
// returned state is already persisted on a first run.
func load(_ *cli.Context) (*config.Config, *store.Client, state.State, error) {
	cfg, err := config.New(config.WithViperConfig(config.ConfigFilePath()))
	if err != nil {
		return nil, nil, state.State{}, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return nil, nil, state.State{}, err
	}

	blob, ok, err := db.GetState()
	if err != nil {
		return nil, nil, state.State{}, err
	}

	var st state.State

	if ok {
		st = state.FromBlob(blob)
	} else {
		st = state.New(time.Now())

		if err := db.SaveState(st.Blob()); err != nil {
			return nil, nil, state.State{}, err
		}
	}

	return cfg, db, st, nil
}

// spinWheel draws a winner from the candidates, with a short reveal
// animation unless instant mode is requested.
func spinWheel(tasks []models.Task, instant bool) models.Task {
	if instant {
		return tasks[wheel.Pick(len(tasks))]
	}

	rotation := wheel.Spin()
	winner := tasks[wheel.SelectIndex(rotation, len(tasks))]

	spinner, _ := pterm.DefaultSpinner.Start("Spinning the wheel...")

	for i := range len(tasks) * 2 {
		spinner.UpdateText(tasks[i%len(tasks)].Title)
		time.Sleep(120 * time.Millisecond)
	}

	spinner.Success(winner.Title)

	return winner
}

// defaultAction spins the wheel over the selected open tasks and runs the
// countdown timer for the winner.
func defaultAction(ctx *cli.Context) error {
	cfg, db, st, err := load(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	tasks := st.SelectedOpenTasks()
	if len(tasks) == 0 {
		pterm.Info.Println(
			"Nothing on the wheel. Add tasks with",
			ui.Cyan("roulette add"),
		)

		return nil
	}

	instant := ctx.Bool("instant") || cfg.Settings.InstantSpin
	chosen := spinWheel(tasks, instant)

	pterm.Println()
	pterm.Println(
		"The wheel chose:",
		ui.Green(chosen.Title),
		ui.Highlight(fmt.Sprintf("(%dm, %s energy)", chosen.EstMinutes, chosen.Energy)),
	)

	var start bool

	err = huh.NewConfirm().
		Title("Start the timer?").
		Affirmative("Let's go").
		Negative("Not now").
		Value(&start).
		Run()
	if err != nil || !start {
		return err
	}

	narrator := voice.NewNarrator(cfg.Voice.APIKey, slog.Default())

	_, err = timer.New(db, cfg, st, narrator).Run(chosen.ID)

	return err
}

// applyEstimates swaps the normalizer's stock duration for the configured
// default, then lets explicit durations in task titles override both when
// inference is requested.
func applyEstimates(tasks []normalize.Task, defaultMinutes int, infer bool) []normalize.Task {
	for i, task := range tasks {
		if defaultMinutes > 0 {
			tasks[i].EstMinutes = defaultMinutes
		}

		if infer {
			if mins, ok := normalize.ExtractMinutes(task.Title); ok {
				tasks[i].EstMinutes = mins
			}
		}
	}

	return tasks
}

// readTaskLines collects raw task text from flags, args, or stdin.
func readTaskLines(ctx *cli.Context) (string, error) {
	if name := ctx.String("sample"); name != "" {
		sample, ok := normalize.Samples[name]
		if !ok {
			return "", fmt.Errorf(
				"unknown sample %q: available samples are %s",
				name,
				strings.Join(normalize.SampleNames(), ", "),
			)
		}

		return sample, nil
	}

	if ctx.Args().Len() > 0 {
		return strings.Join(ctx.Args().Slice(), "\n"), nil
	}

	b, err := io.ReadAll(bufio.NewReader(config.Stdin))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// addAction normalizes raw lines into tasks and merges them into the list.
func addAction(ctx *cli.Context) error {
	raw, err := readTaskLines(ctx)
	if err != nil {
		return err
	}

	result := normalize.Text(raw)

	if !result.Quality.Actionable {
		pterm.Warning.Println(
			"Some of these tasks look vague. Short, concrete titles spin better.",
		)
	}

	if !result.Quality.SizeOK {
		pterm.Warning.Println(
			"That's a big batch. Ten tasks or fewer keeps the wheel honest.",
		)
	}

	if !result.Quality.Safe {
		pterm.Warning.Println(
			"Some tasks mention destructive actions. Double-check before spinning.",
		)
	}

	if len(result.Tasks) == 0 {
		pterm.Info.Println("No usable tasks found in the input.")
		return nil
	}

	cfg, db, st, err := load(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	result.Tasks = applyEstimates(
		result.Tasks,
		cfg.Settings.DefaultMinutes,
		ctx.Bool("infer-minutes"),
	)

	st, added := st.AddTasks(result.Tasks, time.Now())

	if err := db.SaveState(st.Blob()); err != nil {
		return err
	}

	if len(added) == 0 {
		pterm.Info.Println("All of those tasks are already on the list.")
		return nil
	}

	data := [][]string{{"ID", "Task", "Energy", "Est"}}

	for _, task := range added {
		data = append(data, []string{
			task.ID,
			task.Title,
			string(task.Energy),
			fmt.Sprintf("%dm", task.EstMinutes),
		})
	}

	ui.PrintTable(data, config.Stdout)

	pterm.Success.Printfln("Added %d task(s) to the wheel", len(added))

	return nil
}

// listAction prints the task list.
func listAction(ctx *cli.Context) error {
	_, db, st, err := load(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	tasks := st.OpenTasks()
	if ctx.Bool("all") {
		tasks = st.Tasks
	}

	sort.Slice(tasks, func(i, j int) bool {
		return natural.Less(tasks[i].Title, tasks[j].Title)
	})

	if ctx.Bool("json") {
		b, err := json.Marshal(tasks)
		if err != nil {
			return err
		}

		pterm.Println(string(b))

		return nil
	}

	if len(tasks) == 0 {
		pterm.Info.Println("No tasks yet. Add some with", ui.Cyan("roulette add"))
		return nil
	}

	data := [][]string{{"ID", "Task", "Energy", "Est", "Status", "Wheel"}}

	for _, task := range tasks {
		onWheel := ""
		if st.IsSelected(task.ID) && task.Status == models.StatusOpen {
			onWheel = ui.Green("yes")
		}

		status := string(task.Status)

		switch task.Status {
		case models.StatusDone:
			status = ui.Green(status)
		case models.StatusAbandoned:
			status = ui.Red(status)
		}

		data = append(data, []string{
			task.ID,
			task.Title,
			string(task.Energy),
			fmt.Sprintf("%dm", task.EstMinutes),
			status,
			onWheel,
		})
	}

	ui.PrintTable(data, config.Stdout)

	return nil
}

func toggleSelection(ctx *cli.Context, selecting bool) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("provide at least one task id")
	}

	_, db, st, err := load(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	for _, id := range ctx.Args().Slice() {
		if _, ok := st.TaskByID(id); !ok {
			pterm.Warning.Printfln("no task with id %s", id)
			continue
		}

		if selecting {
			st = st.Select(id)
		} else {
			st = st.Deselect(id)
		}
	}

	if err := db.SaveState(st.Blob()); err != nil {
		return err
	}

	pterm.Success.Printfln(
		"%d task(s) now on the wheel",
		len(st.SelectedOpenTasks()),
	)

	return nil
}

func selectAction(ctx *cli.Context) error {
	return toggleSelection(ctx, true)
}

func deselectAction(ctx *cli.Context) error {
	return toggleSelection(ctx, false)
}

// suggestAction prints task ideas for the current time of day.
func suggestAction(ctx *cli.Context) error {
	cfg, db, st, err := load(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	apiKey := cfg.Suggest.APIKey
	if !cfg.Suggest.Enabled {
		apiKey = ""
	}

	svc := suggest.NewService(
		apiKey,
		slog.Default(),
		suggest.WithModel(cfg.Suggest.Model),
	)

	var completed []string

	for _, task := range st.Tasks {
		if task.Status == models.StatusDone {
			completed = append(completed, task.Title)
		}
	}

	timeOfDay := suggest.TimeOfDay(time.Now())
	titles := svc.Suggest(ctx.Context, completed, timeOfDay)

	pterm.Printfln("A few ideas for this %s:", timeOfDay)

	for i, title := range titles {
		pterm.Println(ui.Cyan(strconv.Itoa(i+1)+"."), title)
	}

	if !ctx.Bool("add") {
		return nil
	}

	result := normalize.Text(strings.Join(titles, "\n"))

	st, added := st.AddTasks(result.Tasks, time.Now())

	if err := db.SaveState(st.Blob()); err != nil {
		return err
	}

	pterm.Success.Printfln("Added %d suggestion(s) to the wheel", len(added))

	return nil
}

// statsAction computes the stats for the specified time period.
func statsAction(ctx *cli.Context) error {
	filter, err := config.Filter(ctx)
	if err != nil {
		return err
	}

	_, db, _, err := load(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	records, err := db.GetSessionRecords(filter.StartTime, filter.EndTime)
	if err != nil {
		return err
	}

	s := stats.Compute(records, time.Now())

	if ctx.Bool("json") {
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}

		fmt.Println(string(b))

		return nil
	}

	stats.Show(s, config.Stdout)

	return nil
}

// serveAction runs the HTTP surface until interrupted.
func serveAction(ctx *cli.Context) error {
	cfg, db, _, err := load(ctx)
	if err != nil {
		return err
	}

	defer db.Close()

	port := int(ctx.Uint("port"))
	if port == 0 {
		port = cfg.System.ServerPort
	}

	srv, err := server.New(db, slog.Default())
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(
		ctx.Context,
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	pterm.Info.Printfln("Serving on http://localhost:%d", port)

	return srv.ListenAndServe(runCtx, port)
}

// statusAction prints the status of the currently running timer.
func statusAction(_ *cli.Context) error {
	return timer.ReportStatus()
}

// editConfigAction opens the config file in the user's default editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	// Make sure the config file exists before opening it.
	if _, err := config.New(config.WithViperConfig(config.ConfigFilePath())); err != nil {
		return err
	}

	cmd := exec.Command(editor, config.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}
