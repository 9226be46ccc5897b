// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package waiter polls a Consul agent until its cluster reports an
// elected leader, the configured timeout elapses, or a connection error
// ends the run.
package waiter

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cloudzero/consul-online/app/domain/probe"
	"github.com/cloudzero/consul-online/app/types"
)

// minInterval is the floor applied to the polling interval so a
// misconfigured interval can never spin the loop.
const minInterval = 100 * time.Millisecond

// Result is the final disposition of a run.
type Result string

const (
	// ResultOnline means the agent reported an elected leader.
	ResultOnline Result = "online"

	// ResultInitError is never returned by Run; the CLI uses it for
	// failures before polling starts.
	ResultInitError Result = "init-error"

	// ResultTimedOut means the timeout elapsed before a leader appeared.
	ResultTimedOut Result = "timed-out"

	// ResultConnectionFailed means a probe could not reach the agent and
	// reconnects are disabled.
	ResultConnectionFailed Result = "connection-failed"
)

// Policy controls how long and how often the waiter polls.
type Policy struct {
	// Interval is the delay between probes.
	Interval time.Duration

	// Timeout bounds the whole run; zero means wait forever.
	Timeout time.Duration

	// Reconnect retries connection errors instead of ending the run.
	Reconnect bool
}

// Waiter drives a Prober according to a Policy.
type Waiter struct {
	prober probe.Prober
	policy Policy
	clock  types.TimeProvider
	sleep  func(ctx context.Context, d time.Duration) error
}

func New(prober probe.Prober, policy Policy, clock types.TimeProvider) *Waiter {
	return &Waiter{
		prober: prober,
		policy: policy,
		clock:  clock,
		sleep:  sleepContext,
	}
}

// Run polls until a terminal disposition is reached. The timeout is
// checked before every probe, so a probe never starts at or past the
// deadline. The returned error is non-nil only when ctx ends the run
// early.
func (w *Waiter) Run(ctx context.Context) (Result, error) {
	interval := w.policy.Interval
	if interval < minInterval {
		log.Ctx(ctx).Warn().
			Dur("interval", interval).
			Dur("floor", minInterval).
			Msg("polling interval is below the floor, clamping")
		interval = minInterval
	}

	start := w.clock.GetCurrentTime()
	log.Ctx(ctx).Info().
		Dur("interval", interval).
		Dur("timeout", w.policy.Timeout).
		Bool("reconnect", w.policy.Reconnect).
		Msg("waiting for the agent to report a leader")

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if w.policy.Timeout > 0 {
			elapsed := w.clock.GetCurrentTime().Sub(start)
			if elapsed >= w.policy.Timeout {
				log.Ctx(ctx).Error().
					Dur("elapsed", elapsed).
					Int("attempts", attempt-1).
					Msg("timed out waiting for a leader")
				return ResultTimedOut, nil
			}
		}

		outcome := w.prober.Probe(ctx)
		switch outcome.Status {
		case probe.StatusOnline:
			log.Ctx(ctx).Info().
				Str("leader", outcome.Leader).
				Int("attempts", attempt).
				Msg("agent is online")
			return ResultOnline, nil

		case probe.StatusNotOnline:
			log.Ctx(ctx).Info().Int("attempt", attempt).Msg("agent has no leader yet")

		case probe.StatusConnectionError:
			// a canceled context surfaces as a connection error from the
			// probe; report the cancellation instead
			if err := ctx.Err(); err != nil {
				return "", err
			}
			if !w.policy.Reconnect {
				log.Ctx(ctx).Error().
					Err(outcome.Err).
					Int("attempt", attempt).
					Msg("failed to connect to the agent and reconnects are disabled")
				return ResultConnectionFailed, nil
			}
			log.Ctx(ctx).Warn().
				Err(outcome.Err).
				Int("attempt", attempt).
				Msg("failed to connect to the agent, will retry")
		}

		if err := w.sleep(ctx, w.sleepFor(start, interval)); err != nil {
			return "", err
		}
	}
}

// sleepFor caps the next sleep at the time left before the deadline so
// the run ends promptly instead of oversleeping past it.
func (w *Waiter) sleepFor(start time.Time, interval time.Duration) time.Duration {
	if w.policy.Timeout <= 0 {
		return interval
	}
	remaining := w.policy.Timeout - w.clock.GetCurrentTime().Sub(start)
	if remaining < interval {
		interval = remaining
	}
	if interval < 0 {
		interval = 0
	}
	return interval
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
