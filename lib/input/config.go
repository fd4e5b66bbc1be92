package input

import (
	"github.com/foghost/webhdfs-input/lib/codec"
	"github.com/foghost/webhdfs-input/lib/reader"
	"github.com/foghost/webhdfs-input/lib/webhdfs"
)

// Config defines Input configuration.
type Config struct {
	// ID identifies the input in logs and metrics. A random UUID is used if
	// empty.
	ID string `yaml:"id"`

	WebHDFS webhdfs.Config `yaml:"webhdfs"`
	Reader  reader.Config  `yaml:"reader"`
	Codec   codec.Config   `yaml:"codec"`
}
