package webhdfs

import (
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/foghost/webhdfs-input/utils/httputil"
)

// Config defines Client configuration.
type Config struct {
	// RootURL is the WebHDFS endpoint every path is appended to, e.g.
	// http://namenode:9870/webhdfs/v1.
	RootURL string `yaml:"root_url" validate:"nonzero"`

	// UserName is sent as the user.name query parameter (pseudo auth). It is
	// inserted into the URL unescaped, as are paths.
	UserName string `yaml:"username"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// ReadTimeout bounds how long any single read from the server may block.
	// It is not a limit on the total duration of a transfer.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// BufferSize is the size of the read buffer placed over opened files.
	BufferSize datasize.ByteSize `yaml:"buffer_size"`

	TLS httputil.TLSConfig `yaml:"tls"`
}

func (c *Config) applyDefaults() {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 300 * time.Second
	}
	if c.BufferSize == 0 {
		c.BufferSize = 64 * datasize.KB
	}
}
