package voice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnnounce_PlaysSynthesizedAudio(t *testing.T) {
	var requestedPath string

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.Path

			assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))

			_, _ = w.Write([]byte("mp3-bytes"))
		}),
	)
	defer srv.Close()

	var played []byte

	notified := false

	n := NewNarrator("test-key", discardLogger(),
		WithBaseURL(srv.URL),
		WithPlayer(func(r io.Reader) error {
			played, _ = io.ReadAll(r)
			return nil
		}),
		WithNotifier(func(_, _ string) error {
			notified = true
			return nil
		}),
	)

	n.Announce(context.Background(), EventTaskComplete, "Review the metrics")

	assert.Equal(t, "/text-to-speech/"+defaultAssignments[EventTaskComplete], requestedPath)
	assert.Equal(t, "mp3-bytes", string(played))
	assert.False(t, notified)
}

func TestAnnounce_FallsBackToNotification(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}),
	)
	defer srv.Close()

	var body string

	n := NewNarrator("test-key", discardLogger(),
		WithBaseURL(srv.URL),
		WithNotifier(func(_, b string) error {
			body = b
			return nil
		}),
	)

	n.Announce(context.Background(), EventTimeExpired, "Review the metrics")

	assert.Contains(t, body, "Review the metrics")
}

func TestAnnounce_WithoutKeySkipsSynthesis(t *testing.T) {
	notified := false

	n := NewNarrator("", discardLogger(),
		WithPlayer(func(io.Reader) error {
			t.Fatal("playback must not run without an API key")
			return nil
		}),
		WithNotifier(func(_, _ string) error {
			notified = true
			return nil
		}),
	)

	n.Announce(context.Background(), EventTaskStart, "Review the metrics")

	assert.True(t, notified)
}

func TestAnnounce_SilentWhenEverythingFails(t *testing.T) {
	n := NewNarrator("", discardLogger(),
		WithNotifier(func(_, _ string) error {
			return errors.New("no notification daemon")
		}),
	)

	// Must not panic or error out.
	n.Announce(context.Background(), EventTaskAbandon, "Review the metrics")
}

func TestSetVoice(t *testing.T) {
	n := NewNarrator("", discardLogger())

	n.SetVoice(EventTaskStart, "TxGEqnHWrfWFTfGW9XjX")

	assert.Equal(t, "TxGEqnHWrfWFTfGW9XjX", n.voiceFor(EventTaskStart))
}
