package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

type (
	// Config holds all configuration settings
	Config struct {
		Settings     SettingsConfig
		Notification NotificationConfig
		Display      DisplayConfig
		Voice        VoiceConfig
		Suggest      SuggestConfig
		System       SystemConfig
	}

	// SettingsConfig holds wheel and timer behavior settings
	SettingsConfig struct {
		DefaultMinutes int
		InstantSpin    bool
		SessionCmd     string
	}

	// NotificationConfig holds notification settings
	NotificationConfig struct {
		Enabled bool
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme      bool
		TwentyFourHour bool
	}

	// VoiceConfig holds narration settings. The API key comes from the
	// ELEVENLABS_API_KEY environment variable, never the config file.
	VoiceConfig struct {
		Enabled bool
		APIKey  string
	}

	// SuggestConfig holds suggestion settings. The API key comes from the
	// OPENAI_API_KEY environment variable, never the config file.
	SuggestConfig struct {
		Enabled bool
		Model   string
		APIKey  string
	}

	// SystemConfig holds system-related settings
	SystemConfig struct {
		ConfigPath string
		DBPath     string
		StatusPath string
		ServerPort int
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.1.0"

var (
	configDir      = "roulette"
	configFileName = "config.yml"
	dbFileName     = "roulette.db"
	statusFileName = "status.json"
	logFileName    = "roulette.log"
	dbFilePath     string
	configFilePath string
	statusFilePath string
	logFilePath    string
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func StatusFilePath() string {
	return statusFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

func InitializePaths() {
	rouletteEnv := strings.TrimSpace(os.Getenv("ROULETTE_ENV"))
	if rouletteEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", rouletteEnv)
		dbFileName = fmt.Sprintf("roulette_%s.db", rouletteEnv)
		statusFileName = fmt.Sprintf("status_%s.json", rouletteEnv)
		logFileName = fmt.Sprintf("roulette_%s.log", rouletteEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	statusFilePath = filepath.Join(dataDir, statusFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

// New creates a new Config with default values and applies options
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("config option error: %w", err)
		}
	}

	cfg.Suggest.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.Voice.APIKey = strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}
