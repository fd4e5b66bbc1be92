package metrics

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cactus/go-statsd-client/statsd"
	"github.com/uber-go/tally"
	tallystatsd "github.com/uber-go/tally/statsd"
)

const (
	flushInterval = 100 * time.Millisecond
	flushBytes    = 512
	sampleRate    = 1.0
)

func newStatsdScope(config Config, cluster string) (tally.Scope, io.Closer, error) {
	if config.Statsd.HostPort == "" {
		return nil, nil, errors.New("statsd: host_port required")
	}
	statter, err := statsd.NewBufferedClient(
		config.Statsd.HostPort, config.Statsd.Prefix, flushInterval, flushBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("statsd client: %s", err)
	}
	r := tallystatsd.NewReporter(statter, tallystatsd.Options{
		SampleRate: sampleRate,
	})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Tags:     clusterTags(cluster),
		Reporter: r,
	}, time.Second)
	return scope, closer, nil
}
