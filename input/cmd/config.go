package cmd

import (
	"github.com/foghost/webhdfs-input/lib/input"
	"github.com/foghost/webhdfs-input/lib/tracing"
	"github.com/foghost/webhdfs-input/metrics"
	"github.com/foghost/webhdfs-input/utils/log"
)

// Config defines webhdfs-input configuration.
type Config struct {
	Logging log.Config     `yaml:"logging"`
	Metrics metrics.Config `yaml:"metrics"`
	Tracing tracing.Config `yaml:"tracing"`
	Input   input.Config   `yaml:"input"`
	Output  OutputConfig   `yaml:"output"`
}

// OutputConfig defines where decoded events are written, one JSON object per
// line.
type OutputConfig struct {
	// Path is the file events are appended to. Default: stdout.
	Path string `yaml:"path"`
}
