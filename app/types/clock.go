// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package types

import "time"

// TimeProvider abstracts the system clock so components doing deadline
// arithmetic can be driven deterministically in tests.
type TimeProvider interface {
	// GetCurrentTime returns the current time, monotonic reading included.
	GetCurrentTime() time.Time
}
