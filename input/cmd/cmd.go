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
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foghost/webhdfs-input/lib/input"
	"github.com/foghost/webhdfs-input/lib/tracing"
	"github.com/foghost/webhdfs-input/lib/webhdfs"
	"github.com/foghost/webhdfs-input/metrics"
	"github.com/foghost/webhdfs-input/utils/configutil"
	"github.com/foghost/webhdfs-input/utils/log"
	"github.com/foghost/webhdfs-input/utils/shutdown"
)

// Flags defines webhdfs-input CLI flags.
type Flags struct {
	ConfigFile  string
	SecretsFile string
	Cluster     string
	RootURL     string
	Root        string
}

// ParseFlags parses webhdfs-input CLI flags from args.
func ParseFlags(args []string) (*Flags, error) {
	app := kingpin.New("webhdfs-input", "Reads every file under a webhdfs directory and emits its events.")

	var flags Flags
	app.Flag("config", "configuration file path").Required().StringVar(&flags.ConfigFile)
	app.Flag("secrets", "path to a secrets YAML file to load into configuration").StringVar(&flags.SecretsFile)
	app.Flag("cluster", "cluster name attached to metrics").StringVar(&flags.Cluster)
	app.Flag("root-url", "overrides input.webhdfs.root_url").StringVar(&flags.RootURL)
	app.Flag("root", "overrides input.reader.root").StringVar(&flags.Root)

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}
	return &flags, nil
}

type options struct {
	config  *Config
	metrics tally.Scope
	logger  *zap.Logger
}

// Option defines an optional Run parameter.
type Option func(*options)

// WithConfig ignores config/secrets flags and directly uses the provided config
// struct.
func WithConfig(c Config) Option {
	return func(o *options) { o.config = &c }
}

// WithMetrics ignores metrics config and directly uses the provided tally scope.
func WithMetrics(s tally.Scope) Option {
	return func(o *options) { o.metrics = s }
}

// WithLogger ignores logging config and directly uses the provided logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func loadConfig(flags *Flags) (Config, error) {
	var config Config
	if err := configutil.Load(flags.ConfigFile, &config); err != nil {
		return config, err
	}
	if flags.SecretsFile != "" {
		if err := configutil.Load(flags.SecretsFile, &config); err != nil {
			return config, err
		}
	}
	return config, nil
}

// Run runs the input until every file is read or the process is signaled.
func Run(flags *Flags, opts ...Option) {
	h := shutdown.New(context.Background())
	h.Exit(run(h, flags, opts...))
}

func run(h *shutdown.Handler, flags *Flags, opts ...Option) error {
	var overrides options
	for _, o := range opts {
		o(&overrides)
	}

	var config Config
	if overrides.config != nil {
		config = *overrides.config
	} else {
		c, err := loadConfig(flags)
		if err != nil {
			return fmt.Errorf("load config: %s", err)
		}
		config = c
	}
	if flags.RootURL != "" {
		config.Input.WebHDFS.RootURL = flags.RootURL
	}
	if flags.Root != "" {
		config.Input.Reader.Root = flags.Root
	}

	if overrides.logger != nil {
		log.SetGlobalLogger(overrides.logger.Sugar())
	} else {
		if config.Logging.InputID == "" {
			config.Logging.InputID = config.Input.ID
		}
		logger, err := log.New(config.Logging, nil)
		if err != nil {
			return fmt.Errorf("logger: %s", err)
		}
		log.SetGlobalLogger(logger.Sugar())
		h.OnShutdown("logger", func() error {
			logger.Sync()
			return nil
		})
	}

	stats := overrides.metrics
	if stats == nil {
		s, closer, err := metrics.New(config.Metrics, flags.Cluster)
		if err != nil {
			return fmt.Errorf("metrics: %s", err)
		}
		stats = s
		h.OnShutdown("metrics", closer.Close)
	}

	shutdownTracing, err := tracing.InitProvider(h.Context(), config.Tracing)
	if err != nil {
		return fmt.Errorf("tracing: %s", err)
	}
	h.OnShutdown("tracing", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTracing(ctx)
	})

	var inputOpts []input.Option
	if config.Tracing.Enabled {
		inputOpts = append(inputOpts,
			input.WithClientOptions(webhdfs.WithTransportWrapper(tracing.NewHTTPTransport)))
	}
	in, err := input.New(config.Input, stats, inputOpts...)
	if err != nil {
		return fmt.Errorf("input: %s", err)
	}

	out, err := newJSONLines(config.Output)
	if err != nil {
		return err
	}
	h.OnShutdown("output", out.Close)

	done := make(chan struct{})
	g, ctx := errgroup.WithContext(h.Context())
	g.Go(func() error {
		defer close(done)
		return in.Start(ctx, out.consume)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			log.Infof("Stopping input %s", in.ID())
			in.Stop()
		case <-done:
		}
		return nil
	})
	go metrics.Heartbeat(stats, 10*time.Second, done)

	err = g.Wait()
	in.AwaitStop()
	if err != nil && h.Context().Err() != nil {
		// Interrupted by a signal.
		return nil
	}
	return err
}

// Main parses os.Args and runs the input.
func Main() {
	flags, err := ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	Run(flags)
}
