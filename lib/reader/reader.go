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

// Package reader crawls a webhdfs directory once and feeds every file it
// found to a handler, one at a time.
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/andres-erbsen/clock"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/foghost/webhdfs-input/lib/crawler"
	"github.com/foghost/webhdfs-input/lib/webhdfs"
	"github.com/foghost/webhdfs-input/lib/workqueue"
	"github.com/foghost/webhdfs-input/utils/bandwidth"
	"github.com/foghost/webhdfs-input/utils/closers"
	"github.com/foghost/webhdfs-input/utils/log"
)

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("reader already started")

// Handler consumes the contents of a single file. r is only valid until
// Handler returns. Returning an error puts the file back at the tail of the
// queue.
type Handler func(fs webhdfs.FileStatus, r io.Reader) error

// Reader drains a crawl of a single root directory into a Handler.
type Reader struct {
	config  Config
	client  webhdfs.Client
	queue   *workqueue.Queue
	crawler *crawler.Crawler
	limiter *bandwidth.Limiter
	clk     clock.Clock
	stats   tally.Scope

	started   *atomic.Bool
	closed    *atomic.Bool
	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
	delivered *atomic.Int64
}

// Option allows setting optional Reader parameters.
type Option func(*Reader)

// WithClock sets the clock used for timing crawls and requeue delays.
func WithClock(clk clock.Clock) Option {
	return func(r *Reader) { r.clk = clk }
}

// New creates a new Reader.
func New(config Config, client webhdfs.Client, stats tally.Scope, opts ...Option) (*Reader, error) {
	config.applyDefaults()

	stats = stats.Tagged(map[string]string{
		"module": "reader",
	})

	limiter, err := bandwidth.NewLimiter(config.Bandwidth)
	if err != nil {
		return nil, fmt.Errorf("bandwidth: %s", err)
	}

	q := workqueue.New()

	r := &Reader{
		config:    config,
		client:    client,
		queue:     q,
		crawler:   crawler.New(config.Crawler, client, q, stats),
		limiter:   limiter,
		clk:       clock.New(),
		stats:     stats,
		started:   atomic.NewBool(false),
		closed:    atomic.NewBool(false),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
		delivered: atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run crawls the root directory, then hands each discovered file to h until
// every file has been delivered or the Reader is closed. Crawl failures are
// returned before any file is opened. Failures reading a single file are
// logged and the file is retried after everything else in the queue.
//
// Run may only be called once.
func (r *Reader) Run(ctx context.Context, h Handler) error {
	if !r.started.CAS(false, true) {
		return ErrAlreadyStarted
	}
	defer close(r.done)

	if r.closed.Load() {
		return nil
	}

	start := r.clk.Now()
	if err := r.crawler.Crawl(ctx, r.config.Root); err != nil {
		if err == crawler.ErrStopped {
			return nil
		}
		r.stats.Counter("crawl_errors").Inc(1)
		return fmt.Errorf("crawl %s: %w", r.config.Root, err)
	}
	r.stats.Timer("crawl").Record(r.clk.Now().Sub(start))
	log.With("root", r.config.Root, "files", r.queue.Len()).Info("Crawl complete")

	for !r.closed.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fs, ok := r.queue.Pop()
		if !ok {
			return nil
		}
		if err := r.deliver(ctx, fs, h); err != nil {
			log.With("path", fs.PathSuffix).Errorf("Error reading file, requeuing: %s", err)
			r.stats.Counter("requeues").Inc(1)
			r.queue.Push(fs)
			r.pause(ctx)
			continue
		}
		r.delivered.Inc()
		r.stats.Counter("delivered").Inc(1)
	}
	return nil
}

func (r *Reader) deliver(ctx context.Context, fs webhdfs.FileStatus, h Handler) error {
	stream, err := r.client.Open(ctx, fs.PathSuffix)
	if err != nil {
		return err
	}
	defer closers.Close(stream, zap.String("path", fs.PathSuffix))

	return h(fs, r.limiter.Reader(ctx, stream))
}

func (r *Reader) pause(ctx context.Context) {
	if r.config.RequeueDelay <= 0 {
		return
	}
	t := r.clk.Timer(r.config.RequeueDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-r.closeCh:
	case <-ctx.Done():
	}
}

// Close stops Run after the file currently being handled, or interrupts the
// crawl if it is still running. Safe to call multiple times and before Run.
func (r *Reader) Close() {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		close(r.closeCh)
		r.crawler.Stop()
	})
}

// Closed returns true if Close has been called.
func (r *Reader) Closed() bool {
	return r.closed.Load()
}

// Wait blocks until Run returns. Returns immediately if Run was never called
// and the Reader is closed.
func (r *Reader) Wait() {
	if !r.started.Load() && r.closed.Load() {
		return
	}
	<-r.done
}

// Delivered returns the number of files successfully handled.
func (r *Reader) Delivered() int64 {
	return r.delivered.Load()
}

// Pending returns the number of files still queued.
func (r *Reader) Pending() int {
	return r.queue.Len()
}
