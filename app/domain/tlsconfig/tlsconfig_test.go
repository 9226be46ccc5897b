// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package tlsconfig_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudzero/consul-online/app/domain/tlsconfig"
)

// writeCertPair generates a self-signed ECDSA certificate and writes the
// PEM-encoded certificate and key into dir.
func writeCertPair(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	require.NoError(t, err)

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName:   "consul-online-test",
			Organization: []string{"CloudZero"},
		},
		NotBefore:             now,
		NotAfter:              now.Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	require.NoError(t, err)

	keyBytes, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes})

	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))
	return certFile, keyFile
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeCertPair(t, dir)

	material, err := tlsconfig.Load(tlsconfig.Options{
		CAFile:   certFile,
		CertFile: certFile,
		KeyFile:  keyFile,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, material.CA)
	assert.NotEmpty(t, material.Cert)
	assert.NotEmpty(t, material.Key)

	cfg, err := material.Config()
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
	require.NotNil(t, cfg.RootCAs)
	require.Len(t, cfg.Certificates, 1)

	// the CA we appended must actually verify the certificate it signed
	block, _ := pem.Decode(material.CA)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	_, err = cert.Verify(x509.VerifyOptions{Roots: cfg.RootCAs})
	assert.NoError(t, err)
}

func TestLoad_CertAndKeyArePaired(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeCertPair(t, dir)

	_, err := tlsconfig.Load(tlsconfig.Options{CertFile: certFile})
	assert.ErrorIs(t, err, tlsconfig.ErrCertWithoutKey)

	_, err = tlsconfig.Load(tlsconfig.Options{KeyFile: keyFile})
	assert.ErrorIs(t, err, tlsconfig.ErrKeyWithoutCert)
}

func TestLoad_SkipVerifyIgnoresCA(t *testing.T) {
	// the CA path does not even exist; with verification disabled it is
	// never read
	material, err := tlsconfig.Load(tlsconfig.Options{
		CAFile:     filepath.Join(t.TempDir(), "absent-ca.pem"),
		SkipVerify: true,
	})
	require.NoError(t, err)
	assert.Empty(t, material.CA)

	cfg, err := material.Config()
	require.NoError(t, err)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Nil(t, cfg.RootCAs)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeCertPair(t, dir)

	_, err := tlsconfig.Load(tlsconfig.Options{CAFile: filepath.Join(dir, "absent-ca.pem")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CA certificate")

	_, err = tlsconfig.Load(tlsconfig.Options{
		CertFile: filepath.Join(dir, "absent-cert.pem"),
		KeyFile:  keyFile,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client certificate")

	_, err = tlsconfig.Load(tlsconfig.Options{
		CertFile: certFile,
		KeyFile:  filepath.Join(dir, "absent-key.pem"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client key")
}

func TestMaterial_Config_BadCABundle(t *testing.T) {
	material := &tlsconfig.Material{CA: []byte("not a pem bundle")}
	_, err := material.Config()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CA bundle")
}

func TestMaterial_Config_MismatchedPair(t *testing.T) {
	certFile, _ := writeCertPair(t, t.TempDir())
	_, keyFile := writeCertPair(t, t.TempDir())

	material, err := tlsconfig.Load(tlsconfig.Options{CertFile: certFile, KeyFile: keyFile})
	require.NoError(t, err)

	_, err = material.Config()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client certificate pair")
}

func TestMaterial_Config_Defaults(t *testing.T) {
	material, err := tlsconfig.Load(tlsconfig.Options{})
	require.NoError(t, err)

	cfg, err := material.Config()
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Nil(t, cfg.RootCAs)
	assert.Empty(t, cfg.Certificates)
}
