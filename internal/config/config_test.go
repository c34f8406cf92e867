package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/roulette/internal/timeutil"
)

func TestWithViperConfig_WritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := New(WithViperConfig(path))

	assert.NoError(t, err)
	assert.Equal(t, 10, cfg.Settings.DefaultMinutes)
	assert.True(t, cfg.Notification.Enabled)
	assert.True(t, cfg.Display.DarkTheme)
	assert.Equal(t, 8080, cfg.System.ServerPort)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestWithViperConfig_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	contents := []byte(`settings:
  default_minutes: 25
  instant_spin: true
server:
  port: 9090
`)

	assert.NoError(t, os.WriteFile(path, contents, 0o644))

	cfg, err := New(WithViperConfig(path))

	assert.NoError(t, err)
	assert.Equal(t, 25, cfg.Settings.DefaultMinutes)
	assert.True(t, cfg.Settings.InstantSpin)
	assert.Equal(t, 9090, cfg.System.ServerPort)
	// Untouched keys keep their defaults.
	assert.True(t, cfg.Notification.Enabled)
}

func TestValidate(t *testing.T) {
	bad := &Config{}
	bad.Settings.DefaultMinutes = 1000

	assert.ErrorIs(t, bad.Validate(), errInvalidDefaultMinutes)

	badPort := &Config{}
	badPort.System.ServerPort = 70000

	assert.ErrorIs(t, badPort.Validate(), errInvalidPort)
}

func filterContext(t *testing.T, flags map[string]string) *cli.Context {
	t.Helper()

	f := flag.NewFlagSet("stats", flag.PanicOnError)

	for k, v := range flags {
		_ = f.String(k, "", "")

		if err := f.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}

	return cli.NewContext(&cli.App{}, f, nil)
}

func TestFilter_Period(t *testing.T) {
	cfg, err := Filter(filterContext(t, map[string]string{"period": "7days"}))

	assert.NoError(t, err)
	assert.Equal(t, timeutil.Period7Days, cfg.Period)

	wantStart := timeutil.RoundToStart(time.Now().AddDate(0, 0, -6))
	assert.Equal(t, wantStart, cfg.StartTime)
}

func TestFilter_InvalidPeriod(t *testing.T) {
	_, err := Filter(filterContext(t, map[string]string{"period": "fortnight"}))

	assert.ErrorIs(t, err, errInvalidPeriod)
}

func TestFilter_Default(t *testing.T) {
	cfg, err := Filter(filterContext(t, nil))

	assert.NoError(t, err)
	assert.Equal(t, timeutil.PeriodAllTime, cfg.Period)
	assert.True(t, cfg.StartTime.IsZero())
}
