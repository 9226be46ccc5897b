// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config contains configuration settings for the consul-online CLI.
//
// Values resolve in the usual order: YAML config files first, then the
// standard Consul environment variables (CONSUL_HTTP_ADDR and friends),
// with command-line flags applied on top by the caller. The probe domain
// packages never read the environment themselves; everything funnels
// through Settings.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	Agent   Agent   `yaml:"agent"`
	TLS     TLS     `yaml:"tls"`
	Wait    Wait    `yaml:"wait"`
	Logging Logging `yaml:"logging"`

	mu    sync.Mutex
	token string
}

// Agent identifies the Consul agent to probe and how to authenticate.
type Agent struct {
	Address   string `yaml:"address" env:"CONSUL_HTTP_ADDR" env-default:"localhost:8500" env-description:"address of the Consul agent to probe"`
	UseTLS    bool   `yaml:"use_tls" env:"CONSUL_HTTP_SSL" env-description:"use https for schemeless addresses"`
	Token     string `yaml:"-" env:"CONSUL_HTTP_TOKEN" env-description:"ACL token sent with each probe"`
	TokenFile string `yaml:"token_file" env:"CONSUL_HTTP_TOKEN_FILE" env-description:"file containing the ACL token"`
}

// TLS names the client-side TLS material. Verify follows the Consul
// convention: CONSUL_HTTP_SSL_VERIFY=false disables certificate
// verification.
type TLS struct {
	CACert     string `yaml:"ca_cert" env:"CONSUL_CACERT" env-description:"CA certificate used to verify the agent"`
	ClientCert string `yaml:"client_cert" env:"CONSUL_CLIENT_CERT" env-description:"client certificate presented to the agent"`
	ClientKey  string `yaml:"client_key" env:"CONSUL_CLIENT_KEY" env-description:"private key for the client certificate"`
	Verify     bool   `yaml:"verify" env:"CONSUL_HTTP_SSL_VERIFY" env-default:"true" env-description:"verify the agent certificate chain"`
}

// Wait controls the polling loop.
type Wait struct {
	Interval    time.Duration `yaml:"interval" env:"CONSUL_ONLINE_INTERVAL" env-default:"10s" env-description:"delay between probes"`
	Timeout     time.Duration `yaml:"timeout" env:"CONSUL_ONLINE_TIMEOUT" env-description:"give up after this long; zero waits forever"`
	Reconnect   bool          `yaml:"reconnect" env:"CONSUL_ONLINE_RECONNECT" env-description:"retry connection errors instead of failing"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"CONSUL_ONLINE_HTTP_TIMEOUT" env-default:"10s" env-description:"per-probe request timeout"`
}

type Logging struct {
	Level string `yaml:"level" env:"CONSUL_ONLINE_LOG" env-default:"info" env-description:"log level"`
}

// NewSettings loads configuration from the given YAML files, later files
// overriding earlier ones, with environment variables applied on top. With
// no files the environment alone is read.
func NewSettings(configFiles ...string) (*Settings, error) {
	var cfg Settings

	loaded := false
	for _, cfgFile := range configFiles {
		if cfgFile == "" {
			continue
		}

		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("no config file %s: %w", cfgFile, err)
		}

		if err := cleanenv.ReadConfig(cfgFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from %s: %w", cfgFile, err)
		}
		loaded = true
	}

	if !loaded {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return &cfg, nil
}

func (s *Settings) Validate() error {
	s.Agent.Address = strings.TrimSpace(s.Agent.Address)
	if s.Agent.Address == "" {
		return errors.New("agent address cannot be empty")
	}
	if s.Wait.Interval < 0 {
		return errors.New("wait interval cannot be negative")
	}
	if s.Wait.Timeout < 0 {
		return errors.New("wait timeout cannot be negative")
	}
	if s.Wait.HTTPTimeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	return nil
}

// SetToken resolves the probe token once. The token file, when configured,
// wins over the inline token; the file is read a single time at startup.
func (s *Settings) SetToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Agent.TokenFile == "" {
		s.token = strings.TrimSpace(s.Agent.Token)
		return nil
	}

	if _, err := os.Stat(s.Agent.TokenFile); os.IsNotExist(err) {
		return errors.Wrapf(err, "token file %s not found", s.Agent.TokenFile)
	}
	raw, err := os.ReadFile(s.Agent.TokenFile)
	if err != nil {
		return errors.Wrap(err, "failed to read token file")
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return errors.Errorf("token file %s is empty", s.Agent.TokenFile)
	}
	s.token = token
	return nil
}

func (s *Settings) GetToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SkipVerify reports whether certificate verification is disabled.
func (s *Settings) SkipVerify() bool {
	return !s.TLS.Verify
}

// ToYAML serializes the settings for the debug dump. The inline token is
// excluded from serialization.
func (s *Settings) ToYAML() ([]byte, error) {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode into yaml: %w", err)
	}
	return raw, nil
}
