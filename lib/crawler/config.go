package crawler

import "time"

// Config defines Crawler configuration.
type Config struct {
	Sentinel SentinelConfig `yaml:"sentinel"`
}

// SentinelConfig defines the directory readiness check. When enabled, a
// directory listing is only accepted once it contains an entry whose name
// ends with Suffix, which upstream writers create when a directory is
// complete.
type SentinelConfig struct {
	Enable bool   `yaml:"enable"`
	Suffix string `yaml:"suffix"`

	// MaxAttempts bounds the number of listings of a single directory. Zero
	// or negative means unlimited, so an unset max_attempts waits until the
	// sentinel appears.
	MaxAttempts int `yaml:"max_attempts"`

	// Interval is the wait between listings of a directory which is not
	// ready yet.
	Interval time.Duration `yaml:"interval"`
}

func (c *Config) applyDefaults() {
	if c.Sentinel.Suffix == "" {
		c.Sentinel.Suffix = "end"
	}
	if c.Sentinel.Interval == 0 {
		c.Sentinel.Interval = 5 * time.Second
	}
}
