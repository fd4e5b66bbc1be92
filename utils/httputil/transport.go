package httputil

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// NewTimeoutTransport returns a transport which never reuses connections,
// bounds dialing by connectTimeout, and fails any single read which blocks
// longer than readTimeout. Unlike http.Client.Timeout, readTimeout does not
// cap the total transfer time of a large body which keeps making progress.
func NewTimeoutTransport(
	connectTimeout, readTimeout time.Duration, tlsConfig *tls.Config) *http.Transport {

	dialer := &net.Dialer{Timeout: connectTimeout}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &readDeadlineConn{conn, readTimeout}, nil
		},
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		DisableKeepAlives:     true,
	}
}

// readDeadlineConn pushes the read deadline forward before every Read.
type readDeadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *readDeadlineConn) Read(b []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}
