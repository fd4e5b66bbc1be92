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
package webhdfs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/foghost/webhdfs-input/utils/httputil"
)

const (
	_opListStatus = "LISTSTATUS"
	_opOpen       = "OPEN"
)

//go:generate mockgen -destination=../../mocks/lib/webhdfs/client.go -package mockwebhdfs . Client

// Client wraps the read-only webhdfs operations. All paths must be absolute.
type Client interface {
	ListStatus(ctx context.Context, path string) ([]FileStatus, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

type client struct {
	config    Config
	transport http.RoundTripper
}

// Option allows setting optional Client parameters.
type Option func(*client)

// WithTransportWrapper wraps the transport the client sends requests with,
// e.g. to add tracing.
func WithTransportWrapper(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(c *client) { c.transport = wrap(c.transport) }
}

// NewClient creates a new Client.
func NewClient(config Config, opts ...Option) (Client, error) {
	config.applyDefaults()
	if config.RootURL == "" {
		return nil, errors.New("invalid config: root_url required")
	}
	u, err := url.Parse(config.RootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid config: parse root_url: %s", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid config: unsupported root_url scheme %q", u.Scheme)
	}
	tls, err := config.TLS.BuildClient()
	if err != nil {
		return nil, fmt.Errorf("build tls config: %s", err)
	}
	c := &client{
		config:    config,
		transport: httputil.NewTimeoutTransport(config.ConnectTimeout, config.ReadTimeout, tls),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListStatus returns the children of the directory at path, in the order the
// server sent them.
func (c *client) ListStatus(ctx context.Context, path string) ([]FileStatus, error) {
	resp, err := c.get(ctx, path, _opListStatus)
	if err != nil {
		return nil, c.listingError(path, err)
	}
	defer resp.Body.Close()

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &ListingError{Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	l, err := decodeListing(b)
	if err != nil {
		return nil, &ListingError{Path: path, Err: err}
	}
	return l, nil
}

// Open returns a buffered stream over the contents of the file at path. Bytes
// are pulled from the network as the caller reads; the caller must close the
// stream.
func (c *client) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, path, _opOpen)
	if err != nil {
		rerr := &ReadError{Path: path, Status: httputil.StatusOf(err), Err: err}
		if serr, ok := err.(httputil.StatusError); ok {
			rerr.Exception = decodeRemoteException(serr.ResponseDump)
		}
		return nil, rerr
	}
	return &stream{
		path: path,
		r:    bufio.NewReaderSize(resp.Body, int(c.config.BufferSize.Bytes())),
		body: resp.Body,
	}, nil
}

func (c *client) listingError(path string, err error) error {
	lerr := &ListingError{Path: path, Status: httputil.StatusOf(err), Err: err}
	if serr, ok := err.(httputil.StatusError); ok {
		lerr.Exception = decodeRemoteException(serr.ResponseDump)
	}
	return lerr
}

func (c *client) get(ctx context.Context, path, op string) (*http.Response, error) {
	return httputil.Get(
		c.url(path, op),
		httputil.SendContext(ctx),
		httputil.SendTransport(c.transport),
		httputil.SendTimeout(0))
}

// url builds the request url. Values are deliberately not escaped.
func (c *client) url(path, op string) string {
	q := "op=" + op
	if c.config.UserName != "" {
		q += "&user.name=" + c.config.UserName
	}
	return c.config.RootURL + path + "?" + q
}

// stream converts mid-transfer failures into ReadErrors.
type stream struct {
	path string
	r    *bufio.Reader
	body io.Closer
}

func (s *stream) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		err = &ReadError{Path: s.path, Err: err}
	}
	return n, err
}

func (s *stream) Close() error {
	return s.body.Close()
}
