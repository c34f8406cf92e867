package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyDefaultMinutes       = "settings.default_minutes"
	keyInstantSpin          = "settings.instant_spin"
	keySessionCmd           = "settings.cmd"
	keyNotificationsEnabled = "notifications.enabled"
	keyDarkTheme            = "display.dark_theme"
	keyTwentyFourHour       = "display.24hr_clock"
	keyVoiceEnabled         = "voice.enabled"
	keySuggestEnabled       = "suggestions.enabled"
	keySuggestModel         = "suggestions.model"
	keyServerPort           = "server.port"
)

// WithViperConfig returns an Option that loads configuration from Viper,
// writing the defaults to disk when the config file does not exist yet.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("writing default config failed: %w", err)
		}

		return loadViperConfig(v, c)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyDefaultMinutes, 10)
	v.SetDefault(keyInstantSpin, false)
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyVoiceEnabled, true)
	v.SetDefault(keySuggestEnabled, true)
	v.SetDefault(keySuggestModel, "gpt-4o-mini")
	v.SetDefault(keyServerPort, 8080)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	c.Settings.DefaultMinutes = v.GetInt(keyDefaultMinutes)
	c.Settings.InstantSpin = v.GetBool(keyInstantSpin)
	c.Settings.SessionCmd = v.GetString(keySessionCmd)
	c.Notification.Enabled = v.GetBool(keyNotificationsEnabled)
	c.Display.DarkTheme = v.GetBool(keyDarkTheme)
	c.Display.TwentyFourHour = v.GetBool(keyTwentyFourHour)
	c.Voice.Enabled = v.GetBool(keyVoiceEnabled)
	c.Suggest.Enabled = v.GetBool(keySuggestEnabled)
	c.Suggest.Model = v.GetString(keySuggestModel)
	c.System.ConfigPath = v.ConfigFileUsed()
	c.System.DBPath = DBFilePath()
	c.System.StatusPath = StatusFilePath()
	c.System.ServerPort = v.GetInt(keyServerPort)

	return nil
}
