// Package normalize turns free-form multi-line text into structured task
// candidates. It never fails: unusable input yields an empty batch.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ayoisaiah/roulette/internal/models"
)

// defaultMinutes is assigned to every candidate. Durations are not
// inferred from the text itself.
const defaultMinutes = 10

const (
	minTitleLength        = 3
	maxBatchSize          = 10
	actionableTitleLength = 5
)

var (
	// markerRegex strips leading bullet and numbering characters.
	markerRegex = regexp.MustCompile(`^[\]\-*•\d.)}\s]+`)
	dashRegex   = regexp.MustCompile(`^\s*-\s*`)
)

var lowEnergyWords = []string{
	"read", "review", "check", "browse", "look", "watch", "listen",
	"scan", "skim", "observe", "monitor", "track", "update", "edit",
	"organize", "sort", "file", "archive", "backup", "sync",
}

var highEnergyWords = []string{
	"create", "build", "write", "design", "implement", "develop",
	"code", "program", "exercise", "workout", "run", "gym",
	"meeting", "present", "pitch", "negotiate", "debate",
	"brainstorm", "innovate", "solve", "fix", "troubleshoot",
	"research", "analyze", "study", "learn", "practice",
}

var vagueWords = []string{"maybe", "consider", "think about"}

var unsafeWords = []string{"delete", "remove", "destroy", "kill", "harm", "break"}

// Task is a structured task candidate prior to being assigned an id and
// status by the caller.
type Task struct {
	Title      string        `json:"title"`
	Energy     models.Energy `json:"energy"`
	EstMinutes int           `json:"est_minutes"`
}

// Quality is an aggregate assessment of a normalized batch, used only to
// gate feedback to the user.
type Quality struct {
	Actionable bool `json:"actionable"`
	SizeOK     bool `json:"size_ok"`
	Safe       bool `json:"safe"`
}

// Result is the outcome of normalizing a block of raw text.
type Result struct {
	Tasks   []Task  `json:"tasks"`
	Quality Quality `json:"quality"`
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}

	return false
}

// classifyEnergy derives an energy level from keywords in the cleaned
// line. Low-energy keywords win on overlap with high-energy ones, then
// quick/brief clamps the result toward low before deep/thorough clamps it
// toward high.
func classifyEnergy(line string) models.Energy {
	energy := models.EnergyMedium

	if containsAny(line, lowEnergyWords) {
		energy = models.EnergyLow
	} else if containsAny(line, highEnergyWords) {
		energy = models.EnergyHigh
	}

	if strings.Contains(line, "quick") || strings.Contains(line, "brief") {
		if energy == models.EnergyHigh {
			energy = models.EnergyMedium
		} else {
			energy = models.EnergyLow
		}
	}

	if strings.Contains(line, "deep") || strings.Contains(line, "thorough") {
		if energy == models.EnergyLow {
			energy = models.EnergyMedium
		} else {
			energy = models.EnergyHigh
		}
	}

	return energy
}

// assessQuality computes the aggregate quality flags for a batch.
func assessQuality(tasks []Task) Quality {
	q := Quality{
		Actionable: len(tasks) > 0,
		SizeOK:     len(tasks) > 0 && len(tasks) <= maxBatchSize,
		Safe:       true,
	}

	for _, t := range tasks {
		title := strings.ToLower(t.Title)

		if utf8.RuneCountInString(t.Title) <= actionableTitleLength ||
			containsAny(title, vagueWords) {
			q.Actionable = false
		}

		if containsAny(title, unsafeWords) {
			q.Safe = false
		}
	}

	return q
}

// Text parses a raw block of text into an ordered batch of task candidates
// and an aggregate quality assessment.
func Text(raw string) Result {
	var tasks []Task

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < minTitleLength {
			continue
		}

		clean := markerRegex.ReplaceAllString(line, "")
		clean = dashRegex.ReplaceAllString(clean, "")
		clean = strings.TrimSpace(clean)

		if utf8.RuneCountInString(clean) < minTitleLength {
			continue
		}

		tasks = append(tasks, Task{
			Title:      clean,
			EstMinutes: defaultMinutes,
			Energy:     classifyEnergy(strings.ToLower(clean)),
		})
	}

	return Result{
		Tasks:   tasks,
		Quality: assessQuality(tasks),
	}
}
