// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log holds the process-wide sugared logger. Components that need a
// scoped logger call With and keep the result.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _default *zap.SugaredLogger

func init() {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = "console"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableStacktrace = true

	ConfigureLogger(zapConfig)
}

// ConfigureLogger builds zapConfig and installs it as the global logger.
func ConfigureLogger(zapConfig zap.Config) *zap.SugaredLogger {
	logger, err := zapConfig.Build()
	if err != nil {
		panic(err)
	}
	SetGlobalLogger(logger.Sugar())
	return _default
}

// SetGlobalLogger sets the global logger. The caller skip is adjusted so
// call sites, not this package, show up in log lines.
func SetGlobalLogger(l *zap.SugaredLogger) {
	_default = l.Desugar().WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Default returns the default global logger.
func Default() *zap.SugaredLogger {
	return _default
}

// Desugar returns the structured form of the global logger.
func Desugar() *zap.Logger {
	return _default.Desugar()
}

// Debugf uses fmt.Sprintf to log a templated message.
func Debugf(template string, args ...interface{}) {
	_default.Debugf(template, args...)
}

// Info uses fmt.Sprint to construct and log a message.
func Info(args ...interface{}) {
	_default.Info(args...)
}

// Infof uses fmt.Sprintf to log a templated message.
func Infof(template string, args ...interface{}) {
	_default.Infof(template, args...)
}

// Warn uses fmt.Sprint to construct and log a message.
func Warn(args ...interface{}) {
	_default.Warn(args...)
}

// Warnf uses fmt.Sprintf to log a templated message.
func Warnf(template string, args ...interface{}) {
	_default.Warnf(template, args...)
}

// Errorf uses fmt.Sprintf to log a templated message.
func Errorf(template string, args ...interface{}) {
	_default.Errorf(template, args...)
}

// Fatal uses fmt.Sprint to construct and log a message, then calls os.Exit.
func Fatal(args ...interface{}) {
	_default.Fatal(args...)
}

// Fatalf uses fmt.Sprintf to log a templated message, then calls os.Exit.
func Fatalf(template string, args ...interface{}) {
	_default.Fatalf(template, args...)
}

// With returns a logger carrying the given key-value pairs. Unlike the
// package-level helpers, the returned logger is not caller-skipped.
func With(args ...interface{}) *zap.SugaredLogger {
	return _default.Desugar().WithOptions(zap.AddCallerSkip(-1)).Sugar().With(args...)
}
