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

// Package input reads every file under a webhdfs directory, decodes it into
// events and hands the events to a consumer.
package input

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/satori/go.uuid"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/foghost/webhdfs-input/lib/codec"
	"github.com/foghost/webhdfs-input/lib/reader"
	"github.com/foghost/webhdfs-input/lib/tracing"
	"github.com/foghost/webhdfs-input/lib/webhdfs"
	"github.com/foghost/webhdfs-input/utils/log"
)

// PathField is the event field holding the path of the file an event was
// decoded from.
const PathField = "path"

// _maxPrealloc caps the buffer allocated up front for a file. Larger files
// grow the buffer as they are read.
const _maxPrealloc = 64 << 20

// Consumer receives decoded events.
type Consumer func(codec.Event)

// Input ties a Reader to a Codec.
type Input struct {
	id      string
	config  Config
	reader  *reader.Reader
	codec   codec.Codec
	stats   tally.Scope
	logger  *zap.SugaredLogger
	started *atomic.Bool
	done    chan struct{}
}

type options struct {
	client        webhdfs.Client
	clientOptions []webhdfs.Option
}

// Option defines an optional New parameter.
type Option func(*options)

// WithClient uses c instead of building a client from config.
func WithClient(c webhdfs.Client) Option {
	return func(o *options) { o.client = c }
}

// WithClientOptions passes opts to the webhdfs client built from config.
func WithClientOptions(opts ...webhdfs.Option) Option {
	return func(o *options) { o.clientOptions = append(o.clientOptions, opts...) }
}

// New creates a new Input.
func New(config Config, stats tally.Scope, opts ...Option) (*Input, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	id := config.ID
	if id == "" {
		id = uuid.NewV4().String()
	}

	stats = stats.Tagged(map[string]string{
		"module": "input",
		"input":  id,
	})

	client := o.client
	if client == nil {
		c, err := webhdfs.NewClient(config.WebHDFS, o.clientOptions...)
		if err != nil {
			return nil, fmt.Errorf("webhdfs client: %s", err)
		}
		client = c
	}

	r, err := reader.New(config.Reader, client, stats)
	if err != nil {
		return nil, fmt.Errorf("reader: %s", err)
	}

	c, err := codec.New(config.Codec)
	if err != nil {
		return nil, fmt.Errorf("codec: %s", err)
	}

	return &Input{
		id:      id,
		config:  config,
		reader:  r,
		codec:   c,
		stats:   stats,
		logger:  log.With("input", id),
		started: atomic.NewBool(false),
		done:    make(chan struct{}),
	}, nil
}

// ID returns the id of the input.
func (i *Input) ID() string {
	return i.id
}

// Start reads every file under the configured root and pushes its events to
// consumer. Blocks until all files are read, Stop is called, or ctx is done.
func (i *Input) Start(ctx context.Context, consumer Consumer) error {
	if !i.started.CAS(false, true) {
		return reader.ErrAlreadyStarted
	}
	defer close(i.done)

	i.logger.Infof("Starting webhdfs input at %s%s", i.config.WebHDFS.RootURL, i.config.Reader.Root)
	err := i.reader.Run(ctx, func(fs webhdfs.FileStatus, r io.Reader) error {
		return i.handle(ctx, fs, r, consumer)
	})
	if err != nil {
		i.logger.Errorf("Input failed: %s", err)
		return err
	}
	i.logger.With("files", i.reader.Delivered(), "pending", i.reader.Pending()).Info("Input stopped")
	return nil
}

func (i *Input) handle(
	ctx context.Context, fs webhdfs.FileStatus, r io.Reader, consumer Consumer) (err error) {

	ctx, end := tracing.StartSpan(ctx, "read_file",
		tracing.AttrPath.String(fs.PathSuffix),
		tracing.AttrLength.Int64(fs.Length))
	defer func() { end(err) }()

	buf := bytes.NewBuffer(make([]byte, 0, sizeHint(fs.Length)))
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	i.logger.With(
		"path", fs.PathSuffix,
		"length", fs.Length,
		"real_length", buf.Len()).Info("Read file")
	i.stats.Counter("bytes_read").Inc(int64(buf.Len()))

	var events int64
	derr := i.codec.Decode(buf.Bytes(), func(e codec.Event) {
		e[PathField] = fs.PathSuffix
		consumer(e)
		events++
	})
	i.stats.Counter("events").Inc(events)
	tracing.SetSpanAttributes(ctx, tracing.AttrEvents.Int64(events))
	if derr != nil {
		// Decode failures are not retried.
		i.logger.With("path", fs.PathSuffix).Errorf("Error decoding file, skipping: %s", derr)
		i.stats.Counter("decode_errors").Inc(1)
	}
	return nil
}

// sizeHint bounds the length reported by the namenode, which may not match
// what is actually read.
func sizeHint(length int64) int {
	if length <= 0 {
		return 0
	}
	return int(min(length, _maxPrealloc))
}

// Stop stops the input after the file currently being read. Safe to call
// multiple times and before Start.
func (i *Input) Stop() {
	i.reader.Close()
}

// AwaitStop blocks until Start returns. Returns immediately if the input was
// stopped without ever starting.
func (i *Input) AwaitStop() {
	if !i.started.Load() && i.reader.Closed() {
		return
	}
	<-i.done
}
