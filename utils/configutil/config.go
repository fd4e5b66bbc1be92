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

// Package configutil loads and validates YAML configuration files.
//
// A file may extend another one:
//
//	production.yaml:
//	  extends: base.yaml
//
// Files are applied base first, so later files override earlier ones. Maps
// are merged key by key; lists are replaced wholesale. A relative extends
// path is resolved against the directory of the file that names it.
// Validation runs once, on the merged result.
package configutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"

	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// ErrCycleRef is returned when there are circular dependencies detected in
// configuration files extending each other.
var ErrCycleRef = errors.New("cyclic reference in configuration extends detected")

// Extends define a keyword in config for extending a base configuration file.
type Extends struct {
	Extends string `yaml:"extends"`
}

// ValidationError is the returned when a configuration fails to pass
// validation.
type ValidationError struct {
	errorMap validator.ErrorMap
}

// ErrForField returns the validation error for the given field.
func (e ValidationError) ErrForField(name string) error {
	return e.errorMap[name]
}

func (e ValidationError) Error() string {
	var fields []string
	for f := range e.errorMap {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var w bytes.Buffer
	fmt.Fprintf(&w, "validation failed")
	for _, f := range fields {
		fmt.Fprintf(&w, "\n   %s: %v", f, e.errorMap[f])
	}
	return w.String()
}

// Load loads configuration based on config file name. It will
// follow extends directives and do a deep merge of those config
// files.
func Load(filename string, config interface{}) error {
	filenames, err := resolveExtends(filename, readExtend)
	if err != nil {
		return err
	}
	return LoadFiles(config, filenames...)
}

type getExtend func(filename string) (extends string, err error)

// resolveExtends returns the chain of files filename extends, base first.
func resolveExtends(filename string, extendReader getExtend) ([]string, error) {
	filenames := []string{filename}
	seen := map[string]bool{filename: true}
	for {
		extends, err := extendReader(filename)
		if err != nil {
			return nil, err
		} else if extends == "" {
			break
		}
		if !filepath.IsAbs(extends) {
			extends = filepath.Join(filepath.Dir(filename), extends)
		}
		if seen[extends] {
			return nil, ErrCycleRef
		}
		seen[extends] = true
		filenames = append([]string{extends}, filenames...)
		filename = extends
	}
	return filenames, nil
}

func readExtend(configFile string) (string, error) {
	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		return "", err
	}
	var cfg Extends
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("unmarshal %s: %s", configFile, err)
	}
	return cfg.Extends, nil
}

// LoadFiles unmarshals fnames into config in order, then validates the
// merged result.
func LoadFiles(config interface{}, fnames ...string) error {
	for _, fname := range fnames {
		data, err := ioutil.ReadFile(fname)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("unmarshal %s: %s", fname, err)
		}
	}
	if err := validator.Validate(config); err != nil {
		if m, ok := err.(validator.ErrorMap); ok {
			return ValidationError{errorMap: m}
		}
		return err
	}
	return nil
}
