// Package codec turns the raw bytes of a file into events.
package codec

import (
	"fmt"
	"sort"
)

// MessageField is the event field holding decoded text.
const MessageField = "message"

// Event is a single decoded record.
type Event map[string]interface{}

// Codec decodes the full contents of one file. Decode must not retain data.
type Codec interface {
	Decode(data []byte, emit func(Event)) error
}

// Config defines codec configuration.
type Config struct {
	// Name selects the codec. Default: line.
	Name string `yaml:"name"`

	// Delimiter separates records for the line codec. Default: "\n".
	Delimiter string `yaml:"delimiter"`
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "line"
	}
	if c.Delimiter == "" {
		c.Delimiter = "\n"
	}
}

type factory func(Config) (Codec, error)

var _factories = make(map[string]factory)

func register(name string, f factory) {
	if _, ok := _factories[name]; ok {
		panic(fmt.Sprintf("codec %q already registered", name))
	}
	_factories[name] = f
}

// Names returns all registered codec names, sorted.
func Names() []string {
	var names []string
	for name := range _factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the codec named by config.
func New(config Config) (Codec, error) {
	config.applyDefaults()
	f, ok := _factories[config.Name]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q, must be one of %v", config.Name, Names())
	}
	return f(config)
}
