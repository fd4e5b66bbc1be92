package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines Logger configuration.
type Config struct {
	Disable bool   `yaml:"disable"`
	Level   string `yaml:"level"`

	// InputID is attached to every log line so several inputs can share a
	// collector.
	InputID  string `yaml:"input_id"`
	Path     string `yaml:"path"`
	Encoding string `yaml:"encoding"`
}

func (c Config) applyDefaults() Config {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Path == "" {
		c.Path = "stderr"
	}
	if c.Encoding == "" {
		c.Encoding = "console"
	}
	return c
}

// New creates a logger that is not default.
func New(c Config, fields map[string]interface{}) (*zap.Logger, error) {
	c = c.applyDefaults()
	if c.Disable {
		return zap.NewNop(), nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("parse level %q: %s", c.Level, err)
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}
	if c.InputID != "" {
		fields["input_id"] = c.InputID
	}

	return zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: c.Encoding,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "message",
			NameKey:        "logger_name",
			LevelKey:       "level",
			TimeKey:        "ts",
			CallerKey:      "caller",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{c.Path},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     fields,
	}.Build()
}
