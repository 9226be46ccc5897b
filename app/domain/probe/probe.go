// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package probe asks a Consul agent whether its cluster has elected a
// leader. One probe performs a single request against the agent's status
// endpoint and classifies the reply; deciding when to probe again belongs
// to the caller.
package probe

//go:generate mockgen -destination=mocks/prober_mock.go -package=mocks . Prober

import (
	"context"
)

// Status classifies the result of one probe attempt.
type Status string

const (
	// StatusOnline means the agent answered and reported an elected leader.
	StatusOnline Status = "online"

	// StatusNotOnline means the agent answered but the cluster has no
	// leader yet.
	StatusNotOnline Status = "not-online"

	// StatusConnectionError means the agent could not be reached or gave
	// an unusable answer.
	StatusConnectionError Status = "connection-error"
)

// Outcome is the classified result of a probe attempt. Err carries the
// cause for connection errors; Leader carries the reported leader address
// when the agent is online.
type Outcome struct {
	Status Status
	Leader string
	Err    error
}

// Prober checks once whether the agent reports an elected leader.
type Prober interface {
	Probe(ctx context.Context) Outcome
}
