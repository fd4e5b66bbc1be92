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
package httputil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"
)

// _maxDumpBytes bounds how much of an unexpected response body is kept on a
// StatusError.
const _maxDumpBytes = 4096

// StatusError occurs if an HTTP response has an unexpected status code.
type StatusError struct {
	Method       string
	URL          string
	Status       int
	Header       http.Header
	ResponseDump []byte
}

// NewStatusError returns a new StatusError built from resp. The response body
// is read (bounded) and closed.
func NewStatusError(resp *http.Response) StatusError {
	defer resp.Body.Close()
	dump, err := ioutil.ReadAll(io.LimitReader(resp.Body, _maxDumpBytes))
	if err != nil {
		dump = []byte(fmt.Sprintf("failed to read response body: %s", err))
	}
	var method, url string
	if resp.Request != nil {
		method = resp.Request.Method
		url = resp.Request.URL.String()
	}
	return StatusError{
		Method:       method,
		URL:          url,
		Status:       resp.StatusCode,
		Header:       resp.Header,
		ResponseDump: dump,
	}
}

func (e StatusError) Error() string {
	if len(e.ResponseDump) == 0 {
		return fmt.Sprintf("%s %s %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s %d: %s", e.Method, e.URL, e.Status, bytes.TrimSpace(e.ResponseDump))
}

// IsStatus returns true if err is a StatusError of the given status.
func IsStatus(err error, status int) bool {
	var serr StatusError
	return errors.As(err, &serr) && serr.Status == status
}

// IsNotFound returns true if err is a "not found" StatusError.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// StatusOf returns the status code carried by err, or 0 if err is not a
// StatusError.
func StatusOf(err error) int {
	var serr StatusError
	if errors.As(err, &serr) {
		return serr.Status
	}
	return 0
}

// NetworkError occurs on any Send error which occurred while trying to send
// the HTTP request, e.g. the given host is unresponsive.
type NetworkError struct {
	err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.err)
}

func (e NetworkError) Unwrap() error {
	return e.err
}

// IsNetworkError returns true if err is a NetworkError.
func IsNetworkError(err error) bool {
	var nerr NetworkError
	return errors.As(err, &nerr)
}

type sendOptions struct {
	body          io.Reader
	timeout       time.Duration
	acceptedCodes map[int]bool
	headers       map[string]string
	transport     http.RoundTripper
	ctx           context.Context
}

// SendOption allows overriding defaults for the Send function.
type SendOption func(*sendOptions)

// SendBody specifies a body for http request.
func SendBody(body io.Reader) SendOption {
	return func(o *sendOptions) { o.body = body }
}

// SendTimeout specifies the overall timeout for the request, including
// reading the response body. Zero disables it.
func SendTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) { o.timeout = timeout }
}

// SendHeaders specifies headers for http request.
func SendHeaders(headers map[string]string) SendOption {
	return func(o *sendOptions) { o.headers = headers }
}

// SendAcceptedCodes specifies accepted codes for http request.
func SendAcceptedCodes(codes ...int) SendOption {
	m := make(map[int]bool)
	for _, c := range codes {
		m[c] = true
	}
	return func(o *sendOptions) { o.acceptedCodes = m }
}

// SendTransport sets the transport for the http client.
func SendTransport(transport http.RoundTripper) SendOption {
	return func(o *sendOptions) { o.transport = transport }
}

// SendContext sets the context for the request.
func SendContext(ctx context.Context) SendOption {
	return func(o *sendOptions) { o.ctx = ctx }
}

// Send sends an HTTP request. Returns NetworkError if the request could not
// be sent and StatusError if the response code is not accepted. On success
// the caller owns resp.Body.
func Send(method, url string, options ...SendOption) (*http.Response, error) {
	opts := &sendOptions{
		body:          nil,
		timeout:       60 * time.Second,
		acceptedCodes: map[int]bool{http.StatusOK: true},
		headers:       map[string]string{},
		transport:     nil,
		ctx:           context.Background(),
	}
	for _, o := range options {
		o(opts)
	}

	req, err := http.NewRequest(method, url, opts.body)
	if err != nil {
		return nil, fmt.Errorf("new request: %s", err)
	}
	req = req.WithContext(opts.ctx)
	for key, val := range opts.headers {
		req.Header.Set(key, val)
	}

	client := &http.Client{
		Timeout:   opts.timeout,
		Transport: opts.transport,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, NetworkError{err}
	}
	if !opts.acceptedCodes[resp.StatusCode] {
		return nil, NewStatusError(resp)
	}
	return resp, nil
}

// Get sends a GET http request.
func Get(url string, options ...SendOption) (*http.Response, error) {
	return Send("GET", url, options...)
}
