package config

// Config represents the complete configuration structure
type Config struct {
	Pihole  PiholeConfig  `mapstructure:"pihole"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PiholeConfig holds Pi-hole API connection details
type PiholeConfig struct {
	URL                string `mapstructure:"url"`
	Password           string `mapstructure:"password"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
