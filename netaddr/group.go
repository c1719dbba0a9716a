// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netaddr

import (
	"net"
	"strings"
)

// NetworkID identifies the network class a peer address belongs to.  Only
// real transport families are first-class values here; unroutable and
// internal are reporting classes derived from address properties rather
// than families an endpoint can be constructed in.
type NetworkID uint8

const (
	// NetUnroutable is the class of valid addresses that cannot be
	// reached over the public internet, and of invalid addresses.
	NetUnroutable NetworkID = iota

	// NetIPv4 is the IPv4 network class.
	NetIPv4

	// NetIPv6 is the native IPv6 network class.
	NetIPv6

	// NetOnion is the class of v2 onion identities.
	NetOnion

	// NetInternal is the class of internal pseudo-addresses.
	NetInternal
)

// String returns the NetworkID in human-readable form.
func (id NetworkID) String() string {
	switch id {
	case NetUnroutable:
		return "unroutable"
	case NetIPv4:
		return "ipv4"
	case NetIPv6:
		return "ipv6"
	case NetOnion:
		return "onion"
	case NetInternal:
		return "internal"
	}
	return "unknown"
}

// ParseNetworkID interprets a network name as used in configuration and
// RPC parameters.  Unrecognized names map to NetUnroutable.
func ParseNetworkID(name string) NetworkID {
	switch strings.ToLower(name) {
	case "ipv4":
		return NetIPv4
	case "ipv6":
		return NetIPv6
	case "onion", "tor":
		return NetOnion
	}
	return NetUnroutable
}

// NetworkID returns the network class of the address: internal
// pseudo-addresses report NetInternal, anything unroutable (including
// invalid addresses) reports NetUnroutable, and the remainder report their
// transport family.
func (na NetAddress) NetworkID() NetworkID {
	switch {
	case na.IsInternal():
		return NetInternal
	case !na.IsRoutable():
		return NetUnroutable
	case na.IsIPv4():
		return NetIPv4
	case na.IsOnion():
		return NetOnion
	}
	return NetIPv6
}

// ASMapper maps an IP address to an autonomous-system-derived bucket
// prefix for group bucketing.  Implementations are backed by operational
// BGP data and control the granularity used for native IPv6 (and tunneled
// IPv4) buckets; when no mapping is available for an address the
// implementation reports false and the fixed-width prefix buckets are used
// instead.
type ASMapper interface {
	// BucketPrefix returns the bucket prefix bytes for the provided IP.
	BucketPrefix(ip net.IP) ([]byte, bool)
}

// linkedIPv4 extracts the IPv4 address transported by mapped and tunneled
// IPv6 forms: IPv6-mapped IPv4, the RFC6052 and RFC6145 translation
// prefixes, RFC3964 6to4, and RFC4380 teredo (whose trailing bytes carry
// the IPv4 address XORed with 0xff).
func (na NetAddress) linkedIPv4() (net.IP, bool) {
	switch {
	case na.IsIPv4(), na.IsRFC6052(), na.IsRFC6145():
		return net.IP(na.ip[12:16]), true
	case na.IsRFC3964():
		return net.IP(na.ip[2:6]), true
	case na.IsRFC4380():
		ip := make(net.IP, net.IPv4len)
		for i, b := range na.ip[12:16] {
			ip[i] = b ^ 0xff
		}
		return ip, true
	}
	return nil, false
}

// appendPrefixBits appends the leading bits of the provided bytes to key.
// A trailing partial byte keeps its high bits and sets the remaining low
// bits so distinct prefixes can never alias across widths.
func appendPrefixBits(key []byte, b []byte, bits int) []byte {
	i := 0
	for ; bits >= 8; bits -= 8 {
		key = append(key, b[i])
		i++
	}
	if bits > 0 {
		key = append(key, b[i]|((1<<(8-bits))-1))
	}
	return key
}

// GroupKey returns the group bucket key for the address.  Addresses an
// operator should treat as likely controlled by the same actor map to the
// same key, which callers use to cap per-group address retention and
// selection:
//
//   - unroutable and invalid addresses share the single sentinel group {0}
//   - IPv4 addresses, including every mapped and tunneled IPv6 form that
//     transports an IPv4 endpoint, bucket by /16
//   - v2 onion identities bucket by the leading 4 bits of the identity key
//   - native IPv6 buckets by /32, except Hurricane Electric tunnel space
//     which buckets by /36
//   - internal pseudo-addresses bucket by their full 10 hash bytes
//
// When a non-nil ASMapper is supplied it overrides the fixed-width IPv4
// and IPv6 prefixes with AS-derived bucket prefixes.  The function is pure
// and stable across process restarts, so keys may be embedded in persisted
// address-selection state.
func (na NetAddress) GroupKey(asmap ASMapper) []byte {
	if na.IsInternal() {
		key := make([]byte, 0, 1+onionKeySize)
		key = append(key, byte(NetInternal))
		return append(key, na.ip[6:]...)
	}
	if !na.IsRoutable() {
		return []byte{byte(NetUnroutable)}
	}

	if ip4, ok := na.linkedIPv4(); ok {
		if asmap != nil {
			if prefix, ok := asmap.BucketPrefix(ip4); ok {
				return append([]byte{byte(NetIPv4)}, prefix...)
			}
		}
		return []byte{byte(NetIPv4), ip4[0], ip4[1]}
	}

	if na.IsOnion() {
		// Group is keyed off the first 4 bits of the onion identity
		// key, which starts right after the OnionCat prefix.
		return appendPrefixBits([]byte{byte(NetOnion)}, na.ip[6:], 4)
	}

	netIP := na.netIP()
	if asmap != nil {
		if prefix, ok := asmap.BucketPrefix(netIP); ok {
			return append([]byte{byte(NetIPv6)}, prefix...)
		}
	}
	bits := 32
	if heNet.Contains(netIP) {
		bits = 36
	}
	return appendPrefixBits([]byte{byte(NetIPv6)}, na.ip[:], bits)
}
