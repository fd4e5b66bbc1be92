package metrics

// Config defines metrics configuration.
type Config struct {
	Backend    string           `yaml:"backend"`
	Statsd     StatsdConfig     `yaml:"statsd"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
}

// StatsdConfig defines statsd configuration.
type StatsdConfig struct {
	HostPort string `yaml:"host_port"`
	Prefix   string `yaml:"prefix"`
}

// PrometheusConfig defines prometheus configuration.
type PrometheusConfig struct {
	// ListenAddr is the address /metrics is served on. Default: :9102.
	ListenAddr string `yaml:"listen_addr"`
}

func (c PrometheusConfig) applyDefaults() PrometheusConfig {
	if c.ListenAddr == "" {
		c.ListenAddr = ":9102"
	}
	return c
}
