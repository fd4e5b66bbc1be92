package metrics

import (
	"io"
	"time"

	"github.com/uber-go/tally"

	"github.com/foghost/webhdfs-input/utils/log"
)

func newLogScope(_ Config, cluster string) (tally.Scope, io.Closer, error) {
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Tags:     clusterTags(cluster),
		Reporter: logReporter{},
	}, 10*time.Second)
	return scope, closer, nil
}

// logReporter writes every reported value to the debug log. Useful when
// running an input by hand.
type logReporter struct{}

func (logReporter) ReportCounter(name string, tags map[string]string, value int64) {
	log.With("tags", tags).Debugf("count %s %d", name, value)
}

func (logReporter) ReportGauge(name string, tags map[string]string, value float64) {
	log.With("tags", tags).Debugf("gauge %s %f", name, value)
}

func (logReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	log.With("tags", tags).Debugf("timer %s %s", name, interval)
}

func (logReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound,
	bucketUpperBound float64,
	samples int64,
) {
	log.With("tags", tags).Debugf("histogram %s bucket lower %f upper %f samples %d",
		name, bucketLowerBound, bucketUpperBound, samples)
}

func (logReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound,
	bucketUpperBound time.Duration,
	samples int64,
) {
	log.With("tags", tags).Debugf("histogram %s bucket lower %v upper %v samples %d",
		name, bucketLowerBound, bucketUpperBound, samples)
}

func (r logReporter) Capabilities() tally.Capabilities { return r }
func (logReporter) Reporting() bool                    { return true }
func (logReporter) Tagging() bool                      { return true }
func (logReporter) Flush()                             {}
