package reader

import (
	"time"

	"github.com/foghost/webhdfs-input/lib/crawler"
	"github.com/foghost/webhdfs-input/utils/bandwidth"
)

// Config defines Reader configuration.
type Config struct {
	// Root is the directory crawled before reading starts.
	Root string `yaml:"root" validate:"nonzero"`

	Crawler crawler.Config `yaml:"crawler"`

	Bandwidth bandwidth.Config `yaml:"bandwidth"`

	// RequeueDelay is how long the reader pauses after a failed file before
	// moving on. Zero means no pause.
	RequeueDelay time.Duration `yaml:"requeue_delay"`
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "/"
	}
}
