// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package build exposes version metadata stamped at link time.
package build

// Overridden via -ldflags at release build time.
var (
	// Rev is the git revision the binary was built from.
	Rev = "unknown"
	// Tag is the git tag, when the build came from one.
	Tag = "unknown"
	// Time is the build timestamp.
	Time = "unknown"
)

const (
	AuthorName  = "CloudZero"
	AuthorEmail = "support@cloudzero.com"
	Copyright   = "Copyright (c) 2016-2025, CloudZero, Inc."
)

// GetVersion returns the tag when the build came from one, otherwise the
// revision.
func GetVersion() string {
	if Tag != "" && Tag != "unknown" {
		return Tag
	}
	return Rev
}
