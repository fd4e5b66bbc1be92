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
package bandwidth

import (
	"context"
	"errors"
	"io"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/foghost/webhdfs-input/utils/log"
)

// Config defines Limiter configuration.
type Config struct {
	Enable bool `yaml:"enable"`

	IngressBytesPerSec datasize.ByteSize `yaml:"ingress_bytes_per_sec"`

	// TokenSize defines the granularity of a token in the bucket. It is used to
	// avoid integer overflow errors that would occur if we mapped each byte to a
	// token.
	TokenSize datasize.ByteSize `yaml:"token_size"`
}

func (c Config) applyDefaults() Config {
	if c.TokenSize == 0 {
		c.TokenSize = 64 * datasize.KB
	}
	return c
}

// Limiter limits the rate at which bytes are read from remote files.
type Limiter struct {
	config  Config
	ingress *rate.Limiter
	logger  *zap.SugaredLogger
}

// Option allows setting optional Limiter parameters.
type Option func(*Limiter)

// WithLogger configures a Limiter with a custom logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(l *Limiter) { l.logger = logger }
}

// NewLimiter creates a new Limiter.
func NewLimiter(config Config, opts ...Option) (*Limiter, error) {
	config = config.applyDefaults()

	l := &Limiter{
		config: config,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if !config.Enable {
		return l, nil
	}
	if config.IngressBytesPerSec == 0 {
		return nil, errors.New("invalid config: ingress_bytes_per_sec must be non-zero")
	}

	l.logger.Infof("Setting ingress bandwidth to %s/sec", config.IngressBytesPerSec.HumanReadable())

	tps := config.IngressBytesPerSec.Bytes() / config.TokenSize.Bytes()
	if tps == 0 {
		tps = 1
	}
	l.ingress = rate.NewLimiter(rate.Limit(tps), int(tps))

	return l, nil
}

// Enabled returns whether l throttles anything.
func (l *Limiter) Enabled() bool {
	return l.config.Enable
}

// WaitIngress blocks until nbytes of ingress bandwidth are available, or ctx
// is done.
func (l *Limiter) WaitIngress(ctx context.Context, nbytes int64) error {
	if !l.config.Enable || nbytes <= 0 {
		return nil
	}
	tokens := int((uint64(nbytes) + l.config.TokenSize.Bytes() - 1) / l.config.TokenSize.Bytes())
	burst := l.ingress.Burst()
	for tokens > 0 {
		n := tokens
		if n > burst {
			n = burst
		}
		if err := l.ingress.WaitN(ctx, n); err != nil {
			return err
		}
		tokens -= n
	}
	return nil
}

// Reader wraps r such that every read is charged against the ingress limit.
func (l *Limiter) Reader(ctx context.Context, r io.Reader) io.Reader {
	if !l.config.Enable {
		return r
	}
	return &throttledReader{ctx, l, r}
}

type throttledReader struct {
	ctx     context.Context
	limiter *Limiter
	r       io.Reader
}

func (t *throttledReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitIngress(t.ctx, int64(n)); werr != nil {
			return n, werr
		}
	}
	return n, err
}
