package normalize

import (
	"regexp"
	"sort"
	"strconv"
)

// Samples are ready-made task lists for trying the app out without typing
// anything. Keys are the names accepted by `add --sample`.
var Samples = map[string]string{
	"morning-routine": `Check emails
Review today's calendar
Water plants
Make bed
10 minute meditation
Plan lunch`,
	"work-focus": `Review project requirements
Update task board
Write documentation
Code review for PR #123
Team standup meeting
Respond to Slack messages`,
	"personal-care": `Take vitamins
Drink water
Stretch for 5 minutes
Skincare routine
Brush teeth
Quick tidy up room`,
	"learning-growth": `Read 10 pages of current book
Practice Spanish for 15 minutes
Watch tutorial video
Take notes on new concept
Review flashcards
Research weekend workshop`,
}

// SampleNames returns the available sample list names in sorted order.
func SampleNames() []string {
	names := make([]string, 0, len(Samples))
	for name := range Samples {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

var (
	minutesRegex = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes|minute|mins|min)\b`)
	hoursRegex   = regexp.MustCompile(`(?i)(\d+)\s*(?:hours|hour|hrs|hr)\b`)
)

// ExtractMinutes scans a title for an explicit duration mention such as
// "30 min" or "1 hour" and reports it in minutes.
func ExtractMinutes(title string) (int, bool) {
	if m := minutesRegex.FindStringSubmatch(title); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil && v > 0 {
			return v, true
		}
	}

	if m := hoursRegex.FindStringSubmatch(title); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil && v > 0 {
			return v * 60, true
		}
	}

	return 0, false
}
