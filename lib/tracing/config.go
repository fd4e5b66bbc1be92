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
package tracing

// Config defines tracing configuration.
type Config struct {
	Enabled bool `yaml:"enabled"`

	// ServiceName tags every span. Default: webhdfs-input.
	ServiceName string `yaml:"service_name"`

	// Endpoint is the host:port of an OTLP HTTP collector. Default:
	// localhost:4318.
	Endpoint string `yaml:"endpoint"`

	// Insecure sends spans over plain http.
	Insecure bool `yaml:"insecure"`

	// SamplingRate is the fraction of traces sampled, between 0 and 1.
	// Default: 0.1.
	SamplingRate float64 `yaml:"sampling_rate"`
}

func (c Config) applyDefaults() Config {
	if c.ServiceName == "" {
		c.ServiceName = "webhdfs-input"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SamplingRate == 0 {
		c.SamplingRate = 0.1
	}
	return c
}
