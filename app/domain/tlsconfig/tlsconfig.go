// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tlsconfig resolves the TLS material used to talk to a Consul
// agent over https: an optional CA bundle for verifying the agent and an
// optional client certificate pair presented to it.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/pkg/errors"
)

var (
	ErrCertWithoutKey = errors.New("client certificate provided without a key")
	ErrKeyWithoutCert = errors.New("client key provided without a certificate")
)

// Options names the certificate files on disk.
type Options struct {
	CAFile     string
	CertFile   string
	KeyFile    string
	SkipVerify bool
}

// Material holds PEM bytes read once at startup. Probes share a single
// Material; nothing re-reads the files afterwards.
type Material struct {
	CA         []byte
	Cert       []byte
	Key        []byte
	SkipVerify bool
}

// Load reads the configured certificate files into memory. A client
// certificate and key must be given together or not at all. The CA bundle
// is not read when verification is disabled; it would never be consulted.
func Load(opts Options) (*Material, error) {
	if opts.CertFile != "" && opts.KeyFile == "" {
		return nil, ErrCertWithoutKey
	}
	if opts.KeyFile != "" && opts.CertFile == "" {
		return nil, ErrKeyWithoutCert
	}

	m := &Material{SkipVerify: opts.SkipVerify}

	if opts.CAFile != "" && !opts.SkipVerify {
		ca, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CA certificate")
		}
		m.CA = ca
	}

	if opts.CertFile != "" {
		cert, err := os.ReadFile(opts.CertFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read client certificate")
		}
		key, err := os.ReadFile(opts.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read client key")
		}
		m.Cert = cert
		m.Key = key
	}

	return m, nil
}

// Config builds the tls.Config the probe transport uses.
func (m *Material) Config() (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if m.SkipVerify {
		// #nosec G402: verification is disabled because the operator asked for it
		cfg.InsecureSkipVerify = true
	} else if len(m.CA) > 0 {
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(m.CA) {
			return nil, errors.New("no certificates found in CA bundle")
		}
		cfg.RootCAs = pool
	}

	if len(m.Cert) > 0 {
		pair, err := tls.X509KeyPair(m.Cert, m.Key)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load client certificate pair")
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	return cfg, nil
}
