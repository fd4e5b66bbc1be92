package metrics

import (
	"io/ioutil"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

func TestNewDefaultsToDisabled(t *testing.T) {
	require := require.New(t)

	scope, closer, err := New(Config{}, "")
	require.NoError(err)
	defer closer.Close()

	require.Equal(tally.NoopScope, scope)
}

func TestNewUnknownBackend(t *testing.T) {
	_, _, err := New(Config{Backend: "m3"}, "")
	require.Error(t, err)
}

func TestNewStatsdRequiresHostPort(t *testing.T) {
	_, _, err := New(Config{Backend: "statsd"}, "")
	require.Error(t, err)
}

func TestNewStatsd(t *testing.T) {
	require := require.New(t)

	scope, closer, err := New(Config{
		Backend: "statsd",
		Statsd:  StatsdConfig{HostPort: "127.0.0.1:8125", Prefix: "webhdfs"},
	}, "prod01")
	require.NoError(err)
	scope.Counter("files").Inc(1)
	require.NoError(closer.Close())
}

func TestNewLog(t *testing.T) {
	require := require.New(t)

	scope, closer, err := New(Config{Backend: "log"}, "")
	require.NoError(err)
	scope.Counter("files").Inc(1)
	require.NoError(closer.Close())
}

func TestNewPrometheusServesMetrics(t *testing.T) {
	require := require.New(t)

	scope, closer, err := New(Config{
		Backend:    "prometheus",
		Prometheus: PrometheusConfig{ListenAddr: "127.0.0.1:0"},
	}, "")
	require.NoError(err)
	defer closer.Close()

	scope.Counter("files_read").Inc(1)

	resp, err := http.Get("http://" + closer.(*prometheusCloser).addr + "/metrics")
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusOK, resp.StatusCode)

	_, err = ioutil.ReadAll(resp.Body)
	require.NoError(err)
}

func TestHeartbeatStopsOnDone(t *testing.T) {
	require := require.New(t)

	stats := tally.NewTestScope("", nil)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		Heartbeat(stats, time.Millisecond, done)
		close(stopped)
	}()
	close(done)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		require.FailNow("heartbeat did not stop")
	}
	require.True(stats.Snapshot().Counters()["heartbeat+"].Value() >= 1)
}
