// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the process zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// redactedFields are stripped from every event before it reaches the sink;
// probe credentials must never leak into log output.
var redactedFields = []string{"token"}

type options struct {
	level   string
	version string
	sink    io.Writer
}

type Option func(*options)

// WithLevel sets the minimum level from its string name ("trace" through
// "panic"). An empty string keeps the default of "info".
func WithLevel(level string) Option {
	return func(o *options) {
		if level != "" {
			o.level = level
		}
	}
}

// WithVersion stamps every event with the binary version.
func WithVersion(version string) Option {
	return func(o *options) { o.version = version }
}

// WithSink redirects output, primarily for tests. The default sink is a
// console writer on stderr.
func WithSink(w io.Writer) Option {
	return func(o *options) { o.sink = w }
}

// NewLogger builds the process logger: console-formatted on stderr with
// color only when stderr is a terminal, credential fields redacted.
func NewLogger(opts ...Option) (*zerolog.Logger, error) {
	cfg := options{level: zerolog.LevelInfoValue}
	for _, opt := range opts {
		opt(&cfg)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.level))
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", cfg.level)
	}

	sink := cfg.sink
	if sink == nil {
		sink = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		}
	}

	lctx := zerolog.New(NewFieldFilterWriter(sink, redactedFields)).With().Timestamp()
	if cfg.version != "" {
		lctx = lctx.Str("version", cfg.version)
	}
	logger := lctx.Logger().Level(level)
	return &logger, nil
}
