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
package httputil

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io/ioutil"
)

// TLSConfig defines TLS configuration for talking to an https WebHDFS
// endpoint (e.g. a Knox gateway or an HttpFS server behind TLS).
type TLSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
	CA      string `yaml:"ca_path"`

	// Client certificate, for gateways which require mutual TLS.
	ClientCert string `yaml:"client_cert_path"`
	ClientKey  string `yaml:"client_key_path"`
}

// BuildClient builds a tls.Config for an http client. Returns nil when TLS is
// disabled.
func (c TLSConfig) BuildClient() (*tls.Config, error) {
	if !c.Enabled {
		return nil, nil
	}
	config := &tls.Config{ServerName: c.Name}
	if c.CA != "" {
		pool, err := createCertPool(c.CA)
		if err != nil {
			return nil, fmt.Errorf("create cert pool: %s", err)
		}
		config.RootCAs = pool
	}
	if c.ClientCert != "" || c.ClientKey != "" {
		if c.ClientCert == "" || c.ClientKey == "" {
			return nil, errors.New("client_cert_path and client_key_path must be set together")
		}
		cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client x509 key pair: %s", err)
		}
		config.Certificates = []tls.Certificate{cert}
	}
	return config, nil
}

func createCertPool(path string) (*x509.CertPool, error) {
	pem, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %s", err)
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(pem); !ok {
		return nil, fmt.Errorf("no certs found in %s", path)
	}
	return pool, nil
}
