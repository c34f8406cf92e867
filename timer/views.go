package timer

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/roulette/internal/session"
	"github.com/ayoisaiah/roulette/internal/timeutil"
)

var (
	baseStyle = lipgloss.NewStyle().Padding(1, padding)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#fafafa"})

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B0DB43"))

	hintStyle = lipgloss.NewStyle().
			Faint(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5AD52"))
)

// formatTimeRemaining returns the remaining time formatted as "MM:SS".
func (t *Timer) formatTimeRemaining(now time.Time) string {
	mins, secs := timeutil.SecsToMinsAndSecs(
		float64(t.state.Session.Remaining(now)),
	)

	return timeutil.FormatTime(mins, secs)
}

func (t *Timer) timerView() string {
	var s strings.Builder

	now := time.Now()

	task, _ := t.state.SessionTask()

	s.WriteString(titleStyle.Render(task.Title))
	s.WriteString("\n")

	if t.state.Session.Phase == session.PhasePaused {
		s.WriteString(pausedStyle.Render("[Paused]"))
	} else {
		timeFormat := "03:04 PM"
		if t.Opts.Display.TwentyFourHour {
			timeFormat = "15:04"
		}

		endsAt := now.Add(
			time.Duration(t.state.Session.Remaining(now)) * time.Second,
		)

		s.WriteString(hintStyle.Render("until " + endsAt.Format(timeFormat)))
	}

	s.WriteString("\n\n")
	s.WriteString(clockStyle.Render(t.formatTimeRemaining(now)))
	s.WriteString("\n\n")
	s.WriteString(
		t.progress.ViewAs(float64(t.state.Session.Progress(now)) / 100),
	)
	s.WriteString(t.sessionHelpView())

	return s.String()
}

func (t *Timer) sessionHelpView() string {
	return "\n\n" + t.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.addMinute,
		defaultKeymap.subMinute,
		defaultKeymap.complete,
		defaultKeymap.abandon,
		defaultKeymap.voiceMenu,
		defaultKeymap.quit,
	})
}

func (t *Timer) View() string {
	if !t.state.Session.Active() {
		return ""
	}

	view := t.timerView()

	if t.showVoiceForm && t.voiceForm != nil {
		view += "\n\n" + t.voiceForm.View()
	}

	return baseStyle.Render(view)
}
