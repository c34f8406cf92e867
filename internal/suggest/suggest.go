// Package suggest produces short task suggestions for the current time of
// day, preferring an OpenAI-compatible chat completion API and degrading
// to fixed local lists when the API is unavailable.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	maxSuggestions = 5
)

var errEmptyResponse = errors.New("empty completion response")

// TimeOfDay buckets a wall-clock hour into morning, afternoon or evening.
func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// Fallbacks are the deterministic suggestion lists used when no API key is
// configured or the request fails.
var Fallbacks = map[string][]string{
	"morning": {
		"Review today's priorities",
		"Quick email triage",
		"Plan the most important task",
		"Drink a glass of water",
		"Stretch for five minutes",
	},
	"afternoon": {
		"Take a short walk",
		"Review progress on today's goals",
		"Clear one small pending task",
		"Tidy up the workspace",
		"Check in with a teammate",
	},
	"evening": {
		"Reflect on today's wins",
		"Prepare tomorrow's task list",
		"Read a few pages",
		"Light tidying of the desk",
		"Unplug for ten minutes",
	},
}

// Fallback returns the fixed suggestion list for a time of day.
func Fallback(timeOfDay string) []string {
	if list, ok := Fallbacks[timeOfDay]; ok {
		return append([]string(nil), list...)
	}

	return append([]string(nil), Fallbacks["evening"]...)
}

// Service requests suggestions from the completion API. A Service with an
// empty API key is valid and always serves the fallback lists.
type Service struct {
	client  *http.Client
	logger  *slog.Logger
	apiKey  string
	baseURL string
	model   string
}

type Option func(*Service)

// WithBaseURL points the service at a different API host, used in tests.
func WithBaseURL(url string) Option {
	return func(s *Service) {
		s.baseURL = strings.TrimSuffix(url, "/")
	}
}

func WithModel(model string) Option {
	return func(s *Service) {
		s.model = model
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

func NewService(apiKey string, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		apiKey:  apiKey,
		logger:  logger,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Suggest returns up to five short task titles for the given time of day,
// steering around recently completed tasks. It never fails: any API
// problem falls back to the local lists.
func (s *Service) Suggest(
	ctx context.Context,
	completedTasks []string,
	timeOfDay string,
) []string {
	if s.apiKey == "" {
		return Fallback(timeOfDay)
	}

	titles, err := s.complete(ctx, completedTasks, timeOfDay)
	if err != nil {
		s.logger.DebugContext(ctx, "suggestion request failed, using fallback",
			slog.String("time_of_day", timeOfDay),
			slog.Any("error", err),
		)

		return Fallback(timeOfDay)
	}

	return titles
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *Service) complete(
	ctx context.Context,
	completedTasks []string,
	timeOfDay string,
) ([]string, error) {
	prompt := fmt.Sprintf(
		"Suggest %d short, actionable tasks for the %s. Each on its own line, no explanations.",
		maxSuggestions,
		timeOfDay,
	)

	if len(completedTasks) > 0 {
		prompt += fmt.Sprintf(
			" Already completed today: %s. Suggest different ones.",
			strings.Join(completedTasks, "; "),
		)
	}

	payload, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You suggest tiny productivity tasks that take 5-25 minutes."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, fmt.Errorf(
			"completion API returned %d: %s",
			resp.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	var parsed chatResponse

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return nil, errEmptyResponse
	}

	titles := parseTitles(parsed.Choices[0].Message.Content)
	if len(titles) == 0 {
		return nil, errEmptyResponse
	}

	return titles, nil
}

var listMarker = regexp.MustCompile(`^[\d]+[.)]\s*|^[-*•]\s*`)

// parseTitles extracts up to five plain titles from a completion, removing
// list numbering and bullets.
func parseTitles(content string) []string {
	var titles []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}

		titles = append(titles, line)

		if len(titles) == maxSuggestions {
			break
		}
	}

	return titles
}
