// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package report maps the final disposition of a run to the process exit
// code and a one-line summary.
package report

import (
	"fmt"

	"github.com/cloudzero/consul-online/app/domain/waiter"
)

// Exit codes, one per disposition. Scripts depend on these values.
const (
	CodeOnline           = 0
	CodeInitError        = 1
	CodeTimedOut         = 2
	CodeConnectionFailed = 3
)

// Summarize returns the exit code and summary line for a run's final
// disposition. The cause, when given, is folded into the summary. Any
// disposition it does not recognize counts as an init error.
func Summarize(result waiter.Result, cause error) (int, string) {
	var code int
	var msg string

	switch result {
	case waiter.ResultOnline:
		code, msg = CodeOnline, "consul is online"
	case waiter.ResultTimedOut:
		code, msg = CodeTimedOut, "timed out waiting for consul to come online"
	case waiter.ResultConnectionFailed:
		code, msg = CodeConnectionFailed, "failed to connect to consul"
	default:
		code, msg = CodeInitError, "failed to start the wait"
	}

	if cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, cause)
	}
	return code, msg
}
