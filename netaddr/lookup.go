// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netaddr

import (
	"context"
	"fmt"
	"net"
	"strings"
)

// LookupFunc resolves a hostname to IP addresses.  Implementations must
// honor the provided context so callers can bound resolution time; the
// connection-admission path performs resolution strictly before any ban or
// address-table lock is taken.
type LookupFunc func(ctx context.Context, host string) ([]net.IP, error)

// SystemLookup resolves hostnames with the system resolver.  It is the
// LookupFunc used when no proxy-aware resolver is configured.
func SystemLookup(ctx context.Context, host string) ([]net.IP, error) {
	return net.DefaultResolver.LookupIP(ctx, "ip", host)
}

// ResolveAddress converts a host string into a NetAddress, resolving
// non-literal hostnames with the provided lookup function.  Literal IP
// addresses and ".onion" names never require resolution.  Resolution
// failure, including context expiry, yields ErrHostResolution: the caller
// learns the address is unknown, not that it is unroutable.
func ResolveAddress(ctx context.Context, host string, lookup LookupFunc) (NetAddress, error) {
	var zero NetAddress
	if containsNul(host) {
		return zero, makeError(ErrInvalidAddress,
			"address contains embedded NUL characters")
	}

	na, err := ParseAddress(host)
	if err == nil {
		return na, nil
	}
	if strings.HasSuffix(host, onionSuffix) || lookup == nil {
		return zero, err
	}

	ips, err := lookup(ctx, host)
	if err != nil {
		str := fmt.Sprintf("unable to resolve %q: %v", host, err)
		return zero, makeError(ErrHostResolution, str)
	}
	if len(ips) == 0 {
		str := fmt.Sprintf("no addresses found for %q", host)
		return zero, makeError(ErrHostResolution, str)
	}
	return NewAddressFromBytes(ips[0].To16())
}
