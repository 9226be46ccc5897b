// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains hand-written test doubles for app/types interfaces.
package mocks

import (
	"sync"
	"time"
)

// MockClock is a TimeProvider whose time only moves when the test advances
// it, keeping deadline arithmetic deterministic.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(initial time.Time) *MockClock {
	return &MockClock{now: initial}
}

func (m *MockClock) GetCurrentTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
