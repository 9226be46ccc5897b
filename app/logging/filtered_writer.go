// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"io"
)

type fieldFilterWriter struct {
	out    io.Writer
	fields []string
}

// NewFieldFilterWriter wraps out so that the named top-level fields are
// removed from every JSON event written through it. Events that are not
// valid JSON pass through untouched.
func NewFieldFilterWriter(out io.Writer, fields []string) io.Writer {
	return &fieldFilterWriter{out: out, fields: fields}
}

// Write implements io.Writer. The returned length is always that of the
// original event so zerolog never sees a short write for a filtered one.
func (w *fieldFilterWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	var event map[string]interface{}
	if err := json.Unmarshal(p, &event); err != nil {
		// not a JSON event, pass through as-is
		if n, err2 := w.out.Write(p); err2 != nil {
			return n, err2
		}
		return len(p), nil
	}

	for _, field := range w.fields {
		delete(event, field)
	}

	out, err := json.Marshal(event)
	if err != nil {
		out = bytes.TrimSuffix(p, []byte("\n"))
	}
	if bytes.HasSuffix(p, []byte("\n")) {
		out = append(out, '\n')
	}

	if n, err := w.out.Write(out); err != nil {
		return n, err
	}
	return len(p), nil
}
