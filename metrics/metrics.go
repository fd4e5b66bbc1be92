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
package metrics

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/uber-go/tally"

	"github.com/foghost/webhdfs-input/utils/log"
)

func init() {
	register("statsd", newStatsdScope)
	register("prometheus", newPrometheusScope)
	register("log", newLogScope)
	register("disabled", newDisabledScope)
}

var _scopeFactories = make(map[string]scopeFactory)

type scopeFactory func(config Config, cluster string) (tally.Scope, io.Closer, error)

func register(name string, f scopeFactory) {
	if _, ok := _scopeFactories[name]; ok {
		log.Fatalf("Metrics reporter factory %q is already registered", name)
	}
	_scopeFactories[name] = f
}

func backends() []string {
	var names []string
	for name := range _scopeFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a new metrics Scope from config. If no backend is configured, metrics
// are disabled.
func New(config Config, cluster string) (tally.Scope, io.Closer, error) {
	if config.Backend == "" {
		config.Backend = "disabled"
	}
	f, ok := _scopeFactories[config.Backend]
	if !ok {
		return nil, nil, fmt.Errorf("metrics backend %q not registered, must be one of %v", config.Backend, backends())
	}
	return f(config, cluster)
}

// Heartbeat emits a counter every interval until done is closed, which allows
// monitoring the number of live inputs.
func Heartbeat(stats tally.Scope, interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		stats.Counter("heartbeat").Inc(1)
		select {
		case <-ticker.C:
		case <-done:
			return
		}
	}
}

func clusterTags(cluster string) map[string]string {
	if cluster == "" {
		return map[string]string{}
	}
	return map[string]string{"cluster": cluster}
}
