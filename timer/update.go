package timer

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	btimer "github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/roulette/internal/session"
	"github.com/ayoisaiah/roulette/internal/voice"
)

const (
	padding  = 2
	maxWidth = 80
)

// handleTimerTick processes timer tick events. The session is the source
// of truth: the clock is re-synced to it every second so pause rounding
// and minute nudges show up immediately.
func (t *Timer) handleTimerTick(msg btimer.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	t.clock, cmd = t.clock.Update(msg)

	now := time.Now()

	t.clock.Timeout = time.Duration(t.state.Session.Remaining(now)) * time.Second

	if t.state.Session.Expired(now) {
		t.timedOut = true

		t.settle(true)

		return t, tea.Batch(tea.ClearScreen, tea.Quit)
	}

	_ = t.writeStatusFile()

	return t, cmd
}

func (t *Timer) handleTimeout() (tea.Model, tea.Cmd) {
	t.timedOut = true

	t.settle(true)

	return t, tea.Batch(tea.ClearScreen, tea.Quit)
}

func (t *Timer) handleVoiceForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, defaultKeymap.esc):
			t.showVoiceForm = false
			t.voiceForm = nil

			return t, nil
		case key.Matches(keyMsg, defaultKeymap.quit):
			return t, tea.Batch(tea.ClearScreen, tea.Quit)
		}
	}

	slog.Debug(spew.Sdump(msg))

	form, cmd := t.voiceForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.voiceForm = f

		if t.voiceForm.State == huh.StateCompleted {
			voiceID := t.voiceForm.GetString("voice")
			for _, event := range []voice.Event{
				voice.EventTaskStart,
				voice.EventTaskComplete,
				voice.EventTimeExpired,
				voice.EventTaskAbandon,
			} {
				t.narrator.SetVoice(event, voiceID)
			}

			t.showVoiceForm = false
			t.voiceForm = nil
		}
	}

	return t, cmd
}

func (t *Timer) openVoiceForm() {
	options := make([]huh.Option[string], 0, len(voice.Voices))
	for _, v := range voice.Voices {
		options = append(options, huh.NewOption(v.Name, v.ID))
	}

	t.voiceForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("voice").
				Title("Narration voice").
				Options(options...),
		),
	)

	t.showVoiceForm = true
}

func (t *Timer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if t.showVoiceForm && t.voiceForm != nil {
		if _, isTick := msg.(btimer.TickMsg); !isTick {
			return t.handleVoiceForm(msg)
		}
	}

	switch msg := msg.(type) {
	case btimer.TickMsg:
		return t.handleTimerTick(msg)

	case btimer.StartStopMsg:
		var cmd tea.Cmd
		t.clock, cmd = t.clock.Update(msg)

		return t, cmd

	case btimer.TimeoutMsg:
		return t.handleTimeout()

	case tea.KeyMsg:
		return t.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		t.progress.Width = msg.Width - padding*2 - 4
		if t.progress.Width > maxWidth {
			t.progress.Width = maxWidth
		}

		return t, nil

		// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		var cmd tea.Cmd

		progressModel, cmd := t.progress.Update(msg)
		t.progress, _ = progressModel.(progress.Model)

		return t, cmd
	}

	return t, nil
}

func (t *Timer) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()

	switch {
	case key.Matches(msg, defaultKeymap.togglePlay):
		if t.state.Session.Phase == session.PhaseRunning {
			t.state = t.state.PauseTimer(now)

			return t, t.clock.Stop()
		}

		t.state = t.state.ResumeTimer(now)
		t.clock.Timeout = time.Duration(
			t.state.Session.Remaining(now),
		) * time.Second

		return t, t.clock.Start()

	case key.Matches(msg, defaultKeymap.addMinute):
		t.state = t.state.AdjustTimer(t.state.Session.TaskID, 1, now)
		return t, nil

	case key.Matches(msg, defaultKeymap.subMinute):
		t.state = t.state.AdjustTimer(t.state.Session.TaskID, -1, now)
		return t, nil

	case key.Matches(msg, defaultKeymap.complete):
		t.settle(true)

		return t, tea.Batch(tea.ClearScreen, tea.Quit)

	case key.Matches(msg, defaultKeymap.abandon):
		t.settle(false)

		return t, tea.Batch(tea.ClearScreen, tea.Quit)

	case key.Matches(msg, defaultKeymap.voiceMenu):
		t.openVoiceForm()

		return t, t.voiceForm.Init()

	case key.Matches(msg, defaultKeymap.quit):
		return t, tea.Batch(tea.ClearScreen, tea.Quit)
	}

	return t, nil
}
