package closers

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/foghost/webhdfs-input/utils/log"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseNil(t *testing.T) {
	Close(nil)
}

func TestCloseCallsClose(t *testing.T) {
	var called bool
	Close(closerFunc(func() error {
		called = true
		return nil
	}))
	require.True(t, called)
}

func TestCloseLogsError(t *testing.T) {
	require := require.New(t)

	defaultLogger := log.Default()
	defer log.SetGlobalLogger(defaultLogger)

	var buf bytes.Buffer
	log.SetGlobalLogger(zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&buf),
			zapcore.ErrorLevel,
		),
	).Sugar())

	Close(closerFunc(func() error {
		return errors.New("connection reset")
	}), zap.String("path", "/logs/a.log"))

	require.Contains(buf.String(), "connection reset")
	require.Contains(buf.String(), "/logs/a.log")
}
