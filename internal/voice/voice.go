// Package voice narrates timer events through the ElevenLabs text-to-speech
// API. Narration is strictly best-effort: failures degrade to a desktop
// notification and then to silence, never touching timer state.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultModel   = "eleven_turbo_v2"
)

// Event is a timer moment worth narrating.
type Event string

const (
	EventTaskStart    Event = "task_start"
	EventTaskComplete Event = "task_complete"
	EventTimeExpired  Event = "time_expired"
	EventTaskAbandon  Event = "task_abandon"
)

// Voice is a selectable narration voice.
type Voice struct {
	ID   string
	Name string
}

// Voices lists the available narration voices.
var Voices = []Voice{
	{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel"},
	{ID: "pNInz6obpgDQGcFmaJgB", Name: "Adam"},
	{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella"},
	{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni"},
	{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh"},
}

// defaultAssignments maps each event to its out-of-the-box voice.
var defaultAssignments = map[Event]string{
	EventTaskStart:    "21m00Tcm4TlvDq8ikWAM",
	EventTaskComplete: "pNInz6obpgDQGcFmaJgB",
	EventTimeExpired:  "EXAVITQu4vr4xnSDxMaL",
	EventTaskAbandon:  "ErXwobaYiN019PkySvjV",
}

func phrase(event Event, taskTitle string) string {
	switch event {
	case EventTaskStart:
		return fmt.Sprintf("Time to focus on %s. You've got this.", taskTitle)
	case EventTaskComplete:
		return fmt.Sprintf("Great job finishing %s.", taskTitle)
	case EventTimeExpired:
		return fmt.Sprintf("Time's up for %s. Well done.", taskTitle)
	case EventTaskAbandon:
		return fmt.Sprintf("No worries. %s can wait for another spin.", taskTitle)
	default:
		return taskTitle
	}
}

// Narrator synthesizes and plays event phrases. A Narrator with an empty
// API key skips synthesis and goes straight to the notification fallback.
type Narrator struct {
	client  *http.Client
	logger  *slog.Logger
	play    func(io.Reader) error
	notify  func(title, body string) error
	voices  map[Event]string
	apiKey  string
	baseURL string
	mu      sync.Mutex
}

type Option func(*Narrator)

// WithBaseURL points the narrator at a different API host, used in tests.
func WithBaseURL(url string) Option {
	return func(n *Narrator) {
		n.baseURL = strings.TrimSuffix(url, "/")
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(n *Narrator) {
		n.client = c
	}
}

// WithPlayer replaces audio playback, used in tests.
func WithPlayer(play func(io.Reader) error) Option {
	return func(n *Narrator) {
		n.play = play
	}
}

// WithNotifier replaces the desktop notification fallback, used in tests.
func WithNotifier(notify func(title, body string) error) Option {
	return func(n *Narrator) {
		n.notify = notify
	}
}

func NewNarrator(apiKey string, logger *slog.Logger, opts ...Option) *Narrator {
	n := &Narrator{
		apiKey:  apiKey,
		logger:  logger,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 20 * time.Second},
		play:    playMP3,
		voices:  make(map[Event]string, len(defaultAssignments)),
	}

	for event, id := range defaultAssignments {
		n.voices[event] = id
	}

	n.notify = func(title, body string) error {
		return beeep.Notify(title, body, "")
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.logger == nil {
		n.logger = slog.Default()
	}

	return n
}

// SetVoice overrides the voice for one event for the rest of the process
// lifetime. Overrides are not persisted.
func (n *Narrator) SetVoice(event Event, voiceID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.voices[event] = voiceID
}

func (n *Narrator) voiceFor(event Event) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.voices[event]
}

// Announce narrates an event. It blocks until playback ends, so callers
// that must not wait should run it in a goroutine. All failures are
// swallowed after a debug log.
func (n *Narrator) Announce(ctx context.Context, event Event, taskTitle string) {
	text := phrase(event, taskTitle)

	if n.apiKey != "" {
		audio, err := n.synthesize(ctx, n.voiceFor(event), text)
		if err == nil {
			defer audio.Close()

			if err = n.play(audio); err == nil {
				return
			}
		}

		n.logger.DebugContext(ctx, "narration failed, falling back to notification",
			slog.String("event", string(event)),
			slog.Any("error", err),
		)
	}

	if err := n.notify("Roulette", text); err != nil {
		n.logger.DebugContext(ctx, "notification fallback failed",
			slog.String("event", string(event)),
			slog.Any("error", err),
		)
	}
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

func (n *Narrator) synthesize(
	ctx context.Context,
	voiceID, text string,
) (io.ReadCloser, error) {
	payload, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: defaultModel,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/text-to-speech/%s", n.baseURL, voiceID),
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, fmt.Errorf("speech API returned %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// playMP3 decodes and plays an mp3 stream to completion.
func playMP3(r io.Reader) error {
	streamer, format, err := mp3.Decode(io.NopCloser(r))
	if err != nil {
		return err
	}

	defer streamer.Close()

	err = speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond))
	if err != nil {
		return err
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	<-done

	return nil
}
