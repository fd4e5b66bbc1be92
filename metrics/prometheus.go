package metrics

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/uber-go/tally"
	"github.com/uber-go/tally/prometheus"

	"github.com/foghost/webhdfs-input/utils/log"
)

func newPrometheusScope(config Config, cluster string) (tally.Scope, io.Closer, error) {
	pc := config.Prometheus.applyDefaults()

	r := prometheus.NewReporter(prometheus.Options{
		OnRegisterError: func(err error) {
			log.Warnf("Error registering prometheus metric: %s", err)
		},
	})

	l, err := net.Listen("tcp", pc.ListenAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen on %s: %s", pc.ListenAddr, err)
	}
	router := chi.NewRouter()
	router.Get("/metrics", r.HTTPHandler().ServeHTTP)
	server := &http.Server{Handler: router}
	go func() {
		if err := server.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Errorf("Prometheus metrics server: %s", err)
		}
	}()
	log.Infof("Serving prometheus metrics on %s/metrics", l.Addr())

	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Tags:           clusterTags(cluster),
		CachedReporter: r,
		Separator:      prometheus.DefaultSeparator,
	}, time.Second)

	return scope, &prometheusCloser{scope: closer, server: server, addr: l.Addr().String()}, nil
}

type prometheusCloser struct {
	scope  io.Closer
	server *http.Server
	addr   string
}

func (c *prometheusCloser) Close() error {
	err := c.scope.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := c.server.Shutdown(ctx); serr != nil && err == nil {
		err = serr
	}
	return err
}
