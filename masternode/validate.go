// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package masternode implements validation rules for masternode service
// endpoints.
package masternode

import "github.com/TheRetroMike/mariacoin/netaddr"

// ValidateIP returns whether the provided literal is acceptable as a
// publicly advertised masternode service address.  Acceptable addresses are
// well-formed IPv4, IPv6, or v2 onion literals (including the onion-cat
// IPv6 form) that are routable over the public internet.  The predicate is
// strictly narrower than general routability: hostnames are never resolved
// and internal pseudo-addresses are never acceptable, since a masternode
// that advertises an endpoint other nodes cannot dial is indistinguishable
// from an offline one.
func ValidateIP(text string) bool {
	na, err := netaddr.ParseAddress(text)
	if err != nil {
		return false
	}
	if !na.IsIPv4() && !na.IsIPv6() && !na.IsOnion() {
		return false
	}
	return na.IsRoutable()
}
