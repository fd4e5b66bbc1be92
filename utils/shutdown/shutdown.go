// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package shutdown cancels a context on SIGINT or SIGTERM and runs cleanup
// hooks exactly once.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/foghost/webhdfs-input/utils/log"
)

type hook struct {
	name string
	fn   func() error
}

// Handler manages graceful shutdown of a process.
type Handler struct {
	ctx     context.Context
	cancel  context.CancelFunc
	signals chan os.Signal

	mu    sync.Mutex
	hooks []hook
	once  sync.Once
}

// New creates a Handler whose context is canceled on SIGINT or SIGTERM.
func New(ctx context.Context) *Handler {
	h := newHandler(ctx)
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)
	return h
}

func newHandler(ctx context.Context) *Handler {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handler{
		ctx:     ctx,
		cancel:  cancel,
		signals: make(chan os.Signal, 1),
	}
	go h.watch()
	return h
}

func (h *Handler) watch() {
	select {
	case sig := <-h.signals:
		log.Infof("Received %s, shutting down", sig)
		h.Shutdown()
	case <-h.ctx.Done():
	}
}

// Context returns a context which is canceled on shutdown.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// OnShutdown registers fn to run on shutdown. Hooks run in reverse order of
// registration.
func (h *Handler) OnShutdown(name string, fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hooks = append(h.hooks, hook{name, fn})
}

// Shutdown cancels the context and runs all hooks. Subsequent calls are
// no-ops.
func (h *Handler) Shutdown() {
	h.once.Do(func() {
		h.cancel()
		signal.Stop(h.signals)

		h.mu.Lock()
		defer h.mu.Unlock()

		for i := len(h.hooks) - 1; i >= 0; i-- {
			if err := h.hooks[i].fn(); err != nil {
				log.With("hook", h.hooks[i].name).Errorf("Shutdown hook failed: %s", err)
			}
		}
	})
}

// Exit shuts down and exits the process, with status 1 if err is non-nil.
func (h *Handler) Exit(err error) {
	code := 0
	if err != nil {
		log.Errorf("Exiting: %s", err)
		code = 1
	}
	h.Shutdown()
	os.Exit(code)
}
