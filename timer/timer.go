// Package timer runs the countdown program for a selected task and settles
// the session outcome into the store.
package timer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	btimer "github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/roulette/internal/config"
	"github.com/ayoisaiah/roulette/internal/state"
	"github.com/ayoisaiah/roulette/internal/timeutil"
	"github.com/ayoisaiah/roulette/internal/voice"
	"github.com/ayoisaiah/roulette/store"
)

var errNoTask = errors.New("no task to time: spin the wheel first")

// Timer drives one countdown session.
type Timer struct {
	db       store.DB
	Opts     *config.Config
	narrator *voice.Narrator
	state    state.State

	clock     btimer.Model
	progress  progress.Model
	help      help.Model
	voiceForm *huh.Form

	showVoiceForm bool
	settled       bool
	timedOut      bool
	lastTaskTitle string
	outcome       *bool
}

// Status is the snapshot written to the status file for the status
// command.
type Status struct {
	EndTime time.Time `json:"end_date"`
	Title   string    `json:"title"`
	Phase   string    `json:"phase"`
}

// New returns a timer over the given application state.
func New(
	db store.DB,
	cfg *config.Config,
	st state.State,
	narrator *voice.Narrator,
) *Timer {
	return &Timer{
		db:       db,
		Opts:     cfg,
		narrator: narrator,
		state:    st,
		progress: progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
	}
}

// Run starts a session for the task and blocks until it settles. The
// final state is persisted before returning.
func (t *Timer) Run(taskID string) (state.State, error) {
	now := time.Now()

	next := t.state.StartTimer(taskID, now)
	if !next.Session.Active() {
		return t.state, errNoTask
	}

	t.state = next
	t.clock = btimer.New(
		time.Duration(t.state.Session.Remaining(now)) * time.Second,
	)

	_ = t.writeStatusFile()

	if t.Opts.Voice.Enabled {
		task, _ := t.state.SessionTask()

		go t.narrator.Announce(
			context.Background(),
			voice.EventTaskStart,
			task.Title,
		)
	}

	_, err := tea.NewProgram(t).Run()

	_ = os.Remove(config.StatusFilePath())

	if err != nil {
		return t.state, err
	}

	if t.settled {
		t.postSession()
	}

	return t.state, nil
}

func (t *Timer) Init() tea.Cmd {
	return t.clock.Init()
}

// settle finishes the session with the given outcome, persisting the
// state blob and the history record.
func (t *Timer) settle(success bool) {
	now := time.Now()

	if task, ok := t.state.SessionTask(); ok {
		t.lastTaskTitle = task.Title
	}

	next, rec := t.state.CompleteTimer(success, now)
	if rec == nil {
		return
	}

	t.state = next
	t.settled = true
	t.outcome = &success

	if err := t.db.SaveState(t.state.Blob()); err != nil {
		pterm.Error.Printfln("unable to save state: %v", err)
	}

	if err := t.db.SaveSessionRecord(*rec); err != nil {
		pterm.Error.Printfln("unable to save session record: %v", err)
	}
}

// postSession handles narration, notification, and the session command
// after the program exits so audio never fights the terminal UI.
func (t *Timer) postSession() {
	success := t.outcome != nil && *t.outcome

	event := voice.EventTaskAbandon
	title := "Task abandoned"
	msg := fmt.Sprintf("%q can wait for another spin.", t.lastTitle())

	if success {
		event = voice.EventTaskComplete
		title = "Task complete"
		msg = fmt.Sprintf("Nice work on %q!", t.lastTitle())
	}

	if t.timedOut {
		event = voice.EventTimeExpired
		title = "Time's up"
	}

	if t.Opts.Voice.Enabled {
		t.narrator.Announce(context.Background(), event, t.lastTitle())
	}

	if t.Opts.Notification.Enabled {
		if err := beeep.Notify(title, msg, ""); err != nil {
			pterm.Error.Printfln("unable to display notification: %v", err)
		}
	}

	if err := t.runSessionCmd(t.Opts.Settings.SessionCmd); err != nil {
		pterm.Error.Printfln("session command failed: %v", err)
	}
}

func (t *Timer) lastTitle() string {
	if t.lastTaskTitle != "" {
		return t.lastTaskTitle
	}

	task, _ := t.state.SessionTask()

	return task.Title
}

// runSessionCmd executes the specified command.
func (t *Timer) runSessionCmd(sessionCmd string) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return fmt.Errorf("unable to parse session_cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)

	return cmd.Run()
}

func (t *Timer) writeStatusFile() (err error) {
	now := time.Now()

	task, _ := t.state.SessionTask()

	s := Status{
		Title: task.Title,
		Phase: string(t.state.Session.Phase),
		EndTime: now.Add(
			time.Duration(t.state.Session.Remaining(now)) * time.Second,
		),
	}

	statusFile, err := os.Create(config.StatusFilePath())
	if err != nil {
		return err
	}

	defer func() {
		ferr := statusFile.Close()
		if ferr != nil {
			err = ferr
		}
	}()

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(statusFile)

	if _, err = writer.Write(b); err != nil {
		return err
	}

	return writer.Flush()
}

// ReportStatus reports the status of the currently running timer.
func ReportStatus() error {
	_, err := bolt.Open(config.DBFilePath(), 0o600, &bolt.Options{
		Timeout: 100 * time.Millisecond,
	})
	// Roulette is not running, so there is no status to report
	if err == nil {
		return nil
	}

	if !errors.Is(err, bolt.ErrTimeout) {
		return err
	}

	fileBytes, err := os.ReadFile(config.StatusFilePath())
	if err != nil {
		// missing file should not return an error
		return nil
	}

	var s Status

	if err = json.Unmarshal(fileBytes, &s); err != nil {
		return err
	}

	secs := time.Until(s.EndTime).Seconds()
	if secs < 0 {
		return nil
	}

	mins, remSecs := timeutil.SecsToMinsAndSecs(secs)

	pterm.Printfln("[%s]: %s", s.Title, timeutil.FormatTime(mins, remSecs))

	return nil
}
