// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cloudzero/consul-online/pkg/util"
)

const (
	leaderPath  = "/v1/status/leader"
	tokenHeader = "X-Consul-Token"

	maxBodyBytes = 4096
)

// Client probes the agent's status endpoint over HTTP.
type Client struct {
	http     *retryablehttp.Client
	endpoint string
	host     string
	token    string
}

// ClientOptions configures a probe client.
type ClientOptions struct {
	BaseURL     string
	Token       string
	TLSConfig   *tls.Config
	HTTPTimeout time.Duration
}

var _ Prober = (*Client)(nil)

// NewClient builds the HTTP prober. Retries are disabled on the underlying
// client; the polling loop decides when to try again.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	host, err := util.ExtractHostnameFromURL(opts.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}

	httpClient := retryablehttp.NewClient()
	httpClient.Logger = newLeveledLogger(log.Ctx(ctx))
	httpClient.RetryMax = 0
	httpClient.HTTPClient = &http.Client{
		Timeout: opts.HTTPTimeout,
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: opts.TLSConfig,
		},
	}

	return &Client{
		http:     httpClient,
		endpoint: util.JoinURLPath(opts.BaseURL, leaderPath),
		host:     host,
		token:    opts.Token,
	}, nil
}

// Probe performs one request against the status endpoint. Transport
// failures and unexpected statuses classify as connection errors; a
// successful response with an empty body means the cluster has not
// elected a leader yet.
func (c *Client) Probe(ctx context.Context) Outcome {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Outcome{Status: StatusConnectionError, Err: errors.Wrap(err, "failed to build probe request")}
	}
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{Status: StatusConnectionError, Err: errors.Wrapf(err, "failed to reach %s", c.host)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// drain so the connection can be reused
		if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
			log.Ctx(ctx).Err(err).Msg("error reading response body")
		}
		return Outcome{
			Status: StatusConnectionError,
			Err:    errors.Errorf("unexpected response status %s from %s", resp.Status, c.host),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Outcome{Status: StatusConnectionError, Err: errors.Wrap(err, "failed to read response body")}
	}

	leader := parseLeader(raw)
	if leader == "" {
		log.Ctx(ctx).Debug().Str("host", c.host).Msg("agent is up but reports no leader")
		return Outcome{Status: StatusNotOnline}
	}

	log.Ctx(ctx).Debug().Str("host", c.host).Str("leader", leader).Msg("agent reports an elected leader")
	return Outcome{Status: StatusOnline, Leader: leader}
}

// parseLeader decodes the status endpoint's reply. Agents answer with a
// JSON-encoded string; fall back to the raw text when the body is not
// valid JSON.
func parseLeader(raw []byte) string {
	var leader string
	if err := json.Unmarshal(raw, &leader); err != nil {
		leader = string(raw)
	}
	return strings.TrimSpace(leader)
}

// leveledLogger adapts zerolog to retryablehttp's LeveledLogger.
type leveledLogger struct {
	logger *zerolog.Logger
}

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

func newLeveledLogger(logger *zerolog.Logger) *leveledLogger {
	return &leveledLogger{logger: logger}
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(kvToMap(keysAndValues...)).Msg(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(kvToMap(keysAndValues...)).Msg(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(kvToMap(keysAndValues...)).Msg(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(kvToMap(keysAndValues...)).Msg(msg)
}

// kvToMap converts retryablehttp's key-value pairs into a map for zerolog.
func kvToMap(keysAndValues ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			m[key] = keysAndValues[i+1]
		}
	}
	return m
}
