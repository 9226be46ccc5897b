// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// ResolveBaseURL turns the configured agent address into the base URL the
// probe requests. Schemeless addresses get http or https according to
// useTLS; an explicit http scheme is upgraded to https when TLS was
// requested, since the operator asked for an encrypted connection.
func ResolveBaseURL(ctx context.Context, address string, useTLS bool) (string, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return "", errors.New("agent address cannot be empty")
	}
	if strings.HasPrefix(addr, "unix:") {
		return "", errors.Errorf("unix domain sockets are not supported: %s", addr)
	}

	switch {
	case strings.HasPrefix(addr, schemeHTTPS):
		// already what we want
	case strings.HasPrefix(addr, schemeHTTP):
		if useTLS {
			log.Ctx(ctx).Warn().
				Str("address", addr).
				Msg("TLS requested for an http address, upgrading to https")
			addr = schemeHTTPS + strings.TrimPrefix(addr, schemeHTTP)
		}
	default:
		if useTLS {
			addr = schemeHTTPS + addr
		} else {
			addr = schemeHTTP + addr
		}
	}

	u, err := url.Parse(addr)
	if err != nil {
		return "", errors.Wrapf(err, "invalid agent address %s", address)
	}
	if u.Host == "" {
		return "", errors.Errorf("agent address %s has no host", address)
	}

	return strings.TrimSuffix(addr, "/"), nil
}
