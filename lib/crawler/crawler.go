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

// Package crawler walks a webhdfs directory tree and queues every readable
// file it finds.
package crawler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/uber-go/tally"

	"github.com/foghost/webhdfs-input/lib/webhdfs"
	"github.com/foghost/webhdfs-input/lib/workqueue"
	"github.com/foghost/webhdfs-input/utils/log"
)

var errNotReady = errors.New("sentinel not found")

// ErrStopped is returned by Crawl when Stop is called before the walk
// completes.
var ErrStopped = errors.New("crawler stopped")

// Crawler discovers files under a root directory.
type Crawler struct {
	config Config
	client webhdfs.Client
	queue  *workqueue.Queue
	stats  tally.Scope

	stopOnce sync.Once
	stopc    chan struct{}
}

// New creates a new Crawler which pushes discovered files onto queue.
func New(
	config Config, client webhdfs.Client, queue *workqueue.Queue, stats tally.Scope) *Crawler {

	config.applyDefaults()

	stats = stats.Tagged(map[string]string{
		"module": "crawler",
	})

	return &Crawler{
		config: config,
		client: client,
		queue:  queue,
		stats:  stats,
		stopc:  make(chan struct{}),
	}
}

// Stop interrupts any in-progress or future Crawl, including a wait for a
// sentinel. Safe to call multiple times.
func (c *Crawler) Stop() {
	c.stopOnce.Do(func() { close(c.stopc) })
}

func (c *Crawler) stopped() bool {
	select {
	case <-c.stopc:
		return true
	default:
		return false
	}
}

// Crawl walks the tree under root depth first. Within each directory, files
// are queued in listing order before any subdirectory is entered, and
// subdirectories are entered in listing order. Empty files are skipped.
//
// Any listing failure or entry of unknown type aborts the crawl. Files queued
// before the failure stay queued. Returns ErrStopped if Stop is called first.
func (c *Crawler) Crawl(ctx context.Context, root string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.stopc:
			cancel()
		case <-ctx.Done():
		}
	}()

	pending := []string{root}
	for len(pending) > 0 {
		if c.stopped() {
			return ErrStopped
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := c.list(ctx, dir)
		if err != nil {
			if c.stopped() {
				return ErrStopped
			}
			return err
		}
		c.stats.Counter("directories_listed").Inc(1)

		var subdirs []string
		for _, fs := range entries {
			p := JoinPath(dir, fs.PathSuffix)
			switch {
			case fs.IsFile():
				fs.PathSuffix = p
				if fs.Length <= 0 {
					c.stats.Counter("empty_files_skipped").Inc(1)
					continue
				}
				c.queue.Push(fs)
				c.stats.Counter("files_queued").Inc(1)
			case fs.IsDirectory():
				subdirs = append(subdirs, p)
			default:
				return webhdfs.UnknownEntryTypeError{Path: p, Type: fs.Type}
			}
		}
		// Reversed so the first subdirectory is popped next.
		for i := len(subdirs) - 1; i >= 0; i-- {
			pending = append(pending, subdirs[i])
		}
	}
	return nil
}

func (c *Crawler) list(ctx context.Context, dir string) ([]webhdfs.FileStatus, error) {
	if !c.config.Sentinel.Enable {
		return c.client.ListStatus(ctx, dir)
	}

	var result []webhdfs.FileStatus
	var fatal error
	var attempts int
	err := backoff.RetryNotify(func() error {
		attempts++
		entries, err := c.client.ListStatus(ctx, dir)
		if err != nil {
			if webhdfs.IsMalformedResponse(err) {
				fatal = err
				return nil
			}
			return err
		}
		if !hasSentinel(entries, c.config.Sentinel.Suffix) {
			return errNotReady
		}
		result = entries
		return nil
	}, c.sentinelBackOff(ctx), func(err error, d time.Duration) {
		log.With("path", dir, "attempt", attempts).Infof("Directory not ready, listing again in %s: %s", d, err)
	})
	if fatal != nil {
		return nil, fatal
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.With("path", dir, "attempts", attempts).Errorf("Giving up on directory, treating it as empty: %s", err)
		c.stats.Counter("sentinel_timeouts").Inc(1)
		return nil, nil
	}
	return result, nil
}

func (c *Crawler) sentinelBackOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = backoff.NewConstantBackOff(c.config.Sentinel.Interval)
	if n := c.config.Sentinel.MaxAttempts; n > 0 {
		b = backoff.WithMaxRetries(b, uint64(n-1))
	}
	return backoff.WithContext(b, ctx)
}

func hasSentinel(entries []webhdfs.FileStatus, suffix string) bool {
	for _, fs := range entries {
		if strings.HasSuffix(fs.PathSuffix, suffix) {
			return true
		}
	}
	return false
}

// JoinPath joins a directory path and a child name with exactly one slash.
func JoinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
