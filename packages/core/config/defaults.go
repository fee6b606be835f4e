package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultEnvironment: "",
		Timeout:            30000, // 30 seconds
		FollowRedirects:    boolPtr(true),
		MaxRedirects:       10,
		ValidateSSL:        boolPtr(true),
		SingleFlight:       boolPtr(false),
		Bail:               boolPtr(false),
		NoColor:            boolPtr(false),
		LogLevel:           "warn",
		LogFormat:          "console",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.DefaultEnvironment == defaults.DefaultEnvironment &&
		c.Timeout == defaults.Timeout &&
		c.GetFollowRedirects() == defaults.GetFollowRedirects() &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.GetValidateSSL() == defaults.GetValidateSSL() &&
		c.Proxy == defaults.Proxy &&
		len(c.Headers) == 0 &&
		c.CacheTTL == nil &&
		c.GetSingleFlight() == defaults.GetSingleFlight() &&
		c.GetBail() == defaults.GetBail() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.LogLevel == defaults.LogLevel &&
		c.LogFormat == defaults.LogFormat &&
		len(c.Environments) == 0
}
