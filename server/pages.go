package server

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayoisaiah/roulette/internal/state"
	"github.com/ayoisaiah/roulette/internal/timeutil"
)

func slogErr(err error) slog.Attr {
	return slog.Any("error", err)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>Roulette — {{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

type page struct {
	Title string
	Body  template.HTML
}

func (s *Server) renderPage(w http.ResponseWriter, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := pageTmpl.Execute(w, p); err != nil {
		s.logger.Error("rendering page failed", slogErr(err))
	}
}

func (s *Server) handleAddTasksPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, page{
		Title: "Add tasks",
		Body: template.HTML(
			`<p>Paste your task list into <code>POST /api/normalize</code>, ` +
				`then sync it with <code>POST /api/tasks/bulk_upsert</code>.</p>`,
		),
	})
}

func (s *Server) handleSpinPage(w http.ResponseWriter, r *http.Request) {
	st := s.snapshot()

	open := st.SelectedOpenTasks()
	if len(open) == 0 {
		http.Redirect(w, r, "/add-tasks", http.StatusSeeOther)
		return
	}

	var b strings.Builder

	b.WriteString("<ul>")

	for _, task := range open {
		fmt.Fprintf(
			&b,
			"<li>%s (%dm, %s)</li>",
			template.HTMLEscapeString(task.Title),
			task.EstMinutes,
			task.Energy,
		)
	}

	b.WriteString("</ul>")
	b.WriteString(`<p>Spin with <code>POST /timer</code> and a task id.</p>`)

	s.renderPage(w, page{Title: "Spin the wheel", Body: template.HTML(b.String())})
}

func (s *Server) handleTimerPage(w http.ResponseWriter, r *http.Request) {
	st := s.snapshot()

	if !st.Session.Active() {
		http.Redirect(w, r, "/add-tasks", http.StatusSeeOther)
		return
	}

	now := s.now()
	mins, secs := timeutil.SecsToMinsAndSecs(float64(st.Session.Remaining(now)))
	task, _ := st.SessionTask()

	body := fmt.Sprintf(
		"<p>%s</p><p><strong>%s</strong> remaining (%d%%)</p>",
		template.HTMLEscapeString(task.Title),
		timeutil.FormatTime(mins, secs),
		st.Session.Progress(now),
	)

	s.renderPage(w, page{Title: "Timer", Body: template.HTML(body)})
}

// handleTimerStart accepts a task id from a form post or JSON body and
// starts a session before sending the client to the timer page.
func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	taskID := r.FormValue("task_id")

	if taskID == "" &&
		strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req sessionStartRequest

		if !decode(w, r, &req) {
			return
		}

		taskID = req.TaskID
	}

	if taskID == "" {
		http.Redirect(w, r, "/add-tasks", http.StatusSeeOther)
		return
	}

	now := s.now()

	err := s.mutate(func(st state.State) (state.State, bool, error) {
		return st.StartTimer(taskID, now), true, nil
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "starting session failed", slogErr(err))
		writeError(w, http.StatusInternalServerError, "could not start session")

		return
	}

	http.Redirect(w, r, "/timer", http.StatusSeeOther)
}
