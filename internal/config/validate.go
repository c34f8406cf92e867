package config

// Validate checks loaded values for out-of-range settings.
func (c *Config) Validate() error {
	if c.Settings.DefaultMinutes != 0 &&
		(c.Settings.DefaultMinutes < 1 || c.Settings.DefaultMinutes > 480) {
		return errInvalidDefaultMinutes
	}

	if c.System.ServerPort != 0 &&
		(c.System.ServerPort < 1 || c.System.ServerPort > 65535) {
		return errInvalidPort
	}

	return nil
}
