// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package utils contains small shared helpers.
package utils

import (
	"time"

	"github.com/cloudzero/consul-online/app/types"
)

// Clock is the system-backed TimeProvider.
type Clock struct{}

var _ types.TimeProvider = (*Clock)(nil)

func (c *Clock) GetCurrentTime() time.Time {
	return time.Now()
}
