// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package main implements the consul-online CLI. It polls a Consul
// agent's status endpoint until the cluster reports an elected leader,
// then exits with a code scripts can branch on: 0 when the agent is
// online, 1 for setup failures, 2 when the wait times out and 3 when the
// agent cannot be reached.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/cloudzero/consul-online/app/build"
	config "github.com/cloudzero/consul-online/app/config/online"
	"github.com/cloudzero/consul-online/app/domain/probe"
	"github.com/cloudzero/consul-online/app/domain/report"
	"github.com/cloudzero/consul-online/app/domain/tlsconfig"
	"github.com/cloudzero/consul-online/app/domain/waiter"
	"github.com/cloudzero/consul-online/app/logging"
	"github.com/cloudzero/consul-online/app/utils"
)

const (
	FlagConfig        = "config"
	FlagLogLevel      = "log-level"
	FlagTLS           = "tls"
	FlagSkipVerify    = "skip-verify"
	FlagCACert        = "ca-cert"
	FlagClientCert    = "client-cert"
	FlagClientKey     = "client-key"
	FlagHTTPToken     = "http-token"
	FlagHTTPTokenFile = "http-token-file"
	FlagInterval      = "interval"
	FlagTimeout       = "timeout"
	FlagReconnect     = "reconnect"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error().Err(err).Msg("failed to run consul-online")
		os.Exit(report.CodeInitError)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "consul-online",
		Version:  fmt.Sprintf("%s/%s-%s", build.GetVersion(), runtime.GOOS, runtime.GOARCH),
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{Name: build.AuthorName, Email: build.AuthorEmail},
		},
		Copyright:            build.Copyright,
		Usage:                "wait for a Consul agent to report an elected cluster leader",
		ArgsUsage:            "[address]",
		EnableBashCompletion: true,
		Flags:                appFlags(),
		Action:               run,
	}
}

func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: FlagConfig, Aliases: []string{"f"}, Usage: "settings file(s) to load"},
		&cli.StringFlag{Name: FlagLogLevel, Usage: "the log level (trace, debug, info, warn, error)"},
		&cli.BoolFlag{Name: FlagTLS, Usage: "use https for schemeless addresses"},
		&cli.BoolFlag{Name: FlagSkipVerify, Usage: "skip verification of the agent certificate chain"},
		&cli.StringFlag{Name: FlagCACert, Usage: "CA certificate used to verify the agent"},
		&cli.StringFlag{Name: FlagClientCert, Usage: "client certificate presented to the agent"},
		&cli.StringFlag{Name: FlagClientKey, Usage: "private key for the client certificate"},
		&cli.StringFlag{Name: FlagHTTPToken, Usage: "ACL token sent with each probe"},
		&cli.StringFlag{Name: FlagHTTPTokenFile, Usage: "file containing the ACL token"},
		&cli.DurationFlag{Name: FlagInterval, Usage: "delay between probes"},
		&cli.DurationFlag{Name: FlagTimeout, Usage: "give up after this long (0 waits forever)"},
		&cli.BoolFlag{Name: FlagReconnect, Usage: "retry connection errors instead of failing"},
	}
}

func run(c *cli.Context) error {
	ctx := c.Context

	if c.NArg() > 1 {
		err := errors.Errorf("expected at most one address, got %d arguments", c.NArg())
		return initExit(ctx, err, "unexpected arguments")
	}

	settings, err := config.NewSettings(c.StringSlice(FlagConfig)...)
	if err != nil {
		return initExit(ctx, err, "failed to load settings")
	}
	applyFlags(c, settings)

	logger, err := logging.NewLogger(
		logging.WithLevel(settings.Logging.Level),
		logging.WithVersion(build.GetVersion()),
	)
	if err != nil {
		return initExit(ctx, err, "failed to create the logger")
	}
	zerolog.DefaultContextLogger = logger
	ctx = logger.WithContext(ctx)

	if err := settings.Validate(); err != nil {
		return initExit(ctx, err, "invalid settings")
	}
	if err := settings.SetToken(); err != nil {
		return initExit(ctx, err, "failed to resolve the token")
	}

	if raw, err := settings.ToYAML(); err == nil {
		log.Ctx(ctx).Debug().Str("settings", string(raw)).Msg("resolved configuration")
	}

	material, err := tlsconfig.Load(tlsconfig.Options{
		CAFile:     settings.TLS.CACert,
		CertFile:   settings.TLS.ClientCert,
		KeyFile:    settings.TLS.ClientKey,
		SkipVerify: settings.SkipVerify(),
	})
	if err != nil {
		return initExit(ctx, err, "failed to load TLS material")
	}
	tlsCfg, err := material.Config()
	if err != nil {
		return initExit(ctx, err, "failed to build the TLS configuration")
	}

	baseURL, err := probe.ResolveBaseURL(ctx, settings.Agent.Address, settings.Agent.UseTLS)
	if err != nil {
		return initExit(ctx, err, "failed to resolve the agent address")
	}

	client, err := probe.NewClient(ctx, probe.ClientOptions{
		BaseURL:     baseURL,
		Token:       settings.GetToken(),
		TLSConfig:   tlsCfg,
		HTTPTimeout: settings.Wait.HTTPTimeout,
	})
	if err != nil {
		return initExit(ctx, err, "failed to create the probe client")
	}

	w := waiter.New(client, waiter.Policy{
		Interval:  settings.Wait.Interval,
		Timeout:   settings.Wait.Timeout,
		Reconnect: settings.Wait.Reconnect,
	}, &utils.Clock{})

	result, err := w.Run(ctx)
	if err != nil {
		return initExit(ctx, err, "the wait was interrupted")
	}

	code, msg := report.Summarize(result, nil)
	if code == report.CodeOnline {
		log.Ctx(ctx).Info().Msg(msg)
		return nil
	}
	return cli.Exit(msg, code)
}

// applyFlags copies explicitly-set flags over the loaded settings, so
// flags beat both the environment and config files. The positional
// address beats everything.
func applyFlags(c *cli.Context, settings *config.Settings) {
	if addr := strings.TrimSpace(c.Args().First()); addr != "" {
		settings.Agent.Address = addr
	}
	if c.IsSet(FlagTLS) {
		settings.Agent.UseTLS = c.Bool(FlagTLS)
	}
	if c.IsSet(FlagSkipVerify) {
		settings.TLS.Verify = !c.Bool(FlagSkipVerify)
	}
	if c.IsSet(FlagCACert) {
		settings.TLS.CACert = c.String(FlagCACert)
	}
	if c.IsSet(FlagClientCert) {
		settings.TLS.ClientCert = c.String(FlagClientCert)
	}
	if c.IsSet(FlagClientKey) {
		settings.TLS.ClientKey = c.String(FlagClientKey)
	}
	if c.IsSet(FlagHTTPToken) {
		settings.Agent.Token = c.String(FlagHTTPToken)
	}
	if c.IsSet(FlagHTTPTokenFile) {
		settings.Agent.TokenFile = c.String(FlagHTTPTokenFile)
	}
	if c.IsSet(FlagInterval) {
		settings.Wait.Interval = c.Duration(FlagInterval)
	}
	if c.IsSet(FlagTimeout) {
		settings.Wait.Timeout = c.Duration(FlagTimeout)
	}
	if c.IsSet(FlagReconnect) {
		settings.Wait.Reconnect = c.Bool(FlagReconnect)
	}
	if c.IsSet(FlagLogLevel) {
		settings.Logging.Level = c.String(FlagLogLevel)
	}
}

// initExit logs the failure and turns it into the init-error exit code.
// Before the logger exists the log call is a no-op; the summary printed
// by cli.Exit still reaches stderr.
func initExit(ctx context.Context, err error, msg string) error {
	log.Ctx(ctx).Err(err).Msg(msg)
	code, summary := report.Summarize(waiter.ResultInitError, err)
	return cli.Exit(summary, code)
}
