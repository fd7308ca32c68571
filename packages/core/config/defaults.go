package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Classifier:    "status",
		Marker:        "",
		Timeout:       30000, // 30 seconds
		Insecure:      BoolPtr(false),
		UserAgent:     "",
		Headers:       nil,
		ResetHandlers: BoolPtr(true),
		Multipart:     BoolPtr(false),
		RateLimit:     0,
		History:       "",
		Verbose:       BoolPtr(false),
		NoColor:       BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Destination == defaults.Destination &&
		c.Classifier == defaults.Classifier &&
		c.Marker == defaults.Marker &&
		c.Timeout == defaults.Timeout &&
		c.GetInsecure() == defaults.GetInsecure() &&
		c.UserAgent == defaults.UserAgent &&
		len(c.Headers) == 0 &&
		c.GetResetHandlers() == defaults.GetResetHandlers() &&
		c.GetMultipart() == defaults.GetMultipart() &&
		c.RateLimit == defaults.RateLimit &&
		c.History == defaults.History &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.User == "" && c.Token == "" && c.OAuth2.TokenURL == ""
}
