// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netaddr

import "net"

const (
	// onionKeySize is the size of a v2 onion identity key in bytes.
	onionKeySize = 10
)

var (
	// ipv4MappedPrefix is the 12-byte prefix of an IPv4 address embedded
	// in IPv6-mapped form (::ffff:0:0/96).
	ipv4MappedPrefix = [12]byte{10: 0xff, 11: 0xff}

	// onionCatPrefix is the 6-byte prefix of the IPv6 block used to embed
	// v2 onion identities (fd87:d87e:eb43::/48).  The 10 bytes that
	// follow it are the base32 decode of the onion hostname.  This is the
	// same range used by OnionCat and lies within the RFC4193 unique
	// local range.
	onionCatPrefix = [6]byte{0xfd, 0x87, 0xd8, 0x7e, 0xeb, 0x43}

	// internalPrefix is the 6-byte prefix of the reserved block used for
	// internal pseudo-addresses (fd6b:88c0:8724::/48).  The 10 bytes that
	// follow it are the leading bytes of a one-way hash of the internal
	// name.  The range also lies within RFC4193 but is disjoint from the
	// OnionCat block.
	internalPrefix = [6]byte{0xfd, 0x6b, 0x88, 0xc0, 0x87, 0x24}

	// shiftedAddrGarbage matches the first 9 bytes of 3-byte shifted
	// addresses produced by pre-checksum addr messages with a garbled
	// size field.  Addresses with this header are rejected outright.
	shiftedAddrGarbage = [9]byte{7: 0xff, 8: 0xff}

	// rfc1918Nets specifies the IPv4 private address blocks as defined by
	// RFC1918 (10.0.0.0/8, 172.16.0.0/12, and 192.168.0.0/16).
	rfc1918Nets = []net.IPNet{
		ipNet("10.0.0.0", 8, 32),
		ipNet("172.16.0.0", 12, 32),
		ipNet("192.168.0.0", 16, 32),
	}

	// rfc2471Net specifies the deprecated 6bone IPv6 test network block
	// (3FFE::/16).
	rfc2471Net = ipNet("3FFE::", 16, 128)

	// rfc2544Net specifies the IPv4 benchmarking block as defined by
	// RFC2544 (198.18.0.0/15).
	rfc2544Net = ipNet("198.18.0.0", 15, 32)

	// rfc3849Net specifies the IPv6 documentation address block as defined
	// by RFC3849 (2001:DB8::/32).
	rfc3849Net = ipNet("2001:DB8::", 32, 128)

	// rfc3927Net specifies the IPv4 auto configuration address block as
	// defined by RFC3927 (169.254.0.0/16).
	rfc3927Net = ipNet("169.254.0.0", 16, 32)

	// rfc3964Net specifies the IPv6 to IPv4 6to4 encapsulation address
	// block as defined by RFC3964 (2002::/16).
	rfc3964Net = ipNet("2002::", 16, 128)

	// rfc4193Net specifies the IPv6 unique local address block as defined
	// by RFC4193 (FC00::/7).
	rfc4193Net = ipNet("FC00::", 7, 128)

	// rfc4380Net specifies the IPv6 teredo tunneling over UDP address
	// block as defined by RFC4380 (2001::/32).
	rfc4380Net = ipNet("2001::", 32, 128)

	// rfc4843Net specifies the deprecated IPv6 ORCHID address block as
	// defined by RFC4843 (2001:10::/28).
	rfc4843Net = ipNet("2001:10::", 28, 128)

	// rfc7343Net specifies the IPv6 ORCHIDv2 address block as defined by
	// RFC7343 (2001:20::/28).
	rfc7343Net = ipNet("2001:20::", 28, 128)

	// rfc4862Net specifies the IPv6 stateless address autoconfiguration
	// address block as defined by RFC4862 (FE80::/64).
	rfc4862Net = ipNet("FE80::", 64, 128)

	// rfc5737Nets specifies the IPv4 documentation address blocks as
	// defined by RFC5737 (192.0.2.0/24, 198.51.100.0/24, 203.0.113.0/24).
	rfc5737Nets = []net.IPNet{
		ipNet("192.0.2.0", 24, 32),
		ipNet("198.51.100.0", 24, 32),
		ipNet("203.0.113.0", 24, 32),
	}

	// rfc6052Net specifies the IPv6 well-known NAT64 prefix address block
	// as defined by RFC6052 (64:FF9B::/96).
	rfc6052Net = ipNet("64:FF9B::", 96, 128)

	// rfc6145Net specifies the IPv6 to IPv4 translated address range as
	// defined by RFC6145 (::FFFF:0:0:0/96).
	rfc6145Net = ipNet("::FFFF:0:0:0", 96, 128)

	// rfc6598Net specifies the IPv4 shared address space block as defined
	// by RFC6598 (100.64.0.0/10).
	rfc6598Net = ipNet("100.64.0.0", 10, 32)

	// onionCatNet defines the IPv6 address block used to support v2 onion
	// services (fd87:d87e:eb43::/48).
	onionCatNet = ipNet("fd87:d87e:eb43::", 48, 128)

	// internalNet defines the IPv6 address block reserved for internal
	// pseudo-addresses (fd6b:88c0:8724::/48).
	internalNet = ipNet("fd6b:88c0:8724::", 48, 128)

	// zero4Net defines the IPv4 address block for addresses starting with
	// 0 (0.0.0.0/8).
	zero4Net = ipNet("0.0.0.0", 8, 32)

	// heNet defines the Hurricane Electric IPv6 address block
	// (2001:470::/32), which is bucketed at a finer granularity than the
	// rest of the IPv6 space since it hands out tunnels liberally.
	heNet = ipNet("2001:470::", 32, 128)
)

// ipNet returns a net.IPNet struct given the passed IP address string,
// number of one bits to include at the start of the mask, and the total
// number of bits for the mask.
func ipNet(ip string, ones, bits int) net.IPNet {
	return net.IPNet{IP: net.ParseIP(ip), Mask: net.CIDRMask(ones, bits)}
}

// netIP returns the address identity as a net.IP for use with the range
// tables.
func (na NetAddress) netIP() net.IP {
	return net.IP(na.ip[:])
}

// IsIPv4 returns whether or not the address is an IPv6-mapped IPv4
// address.
func (na NetAddress) IsIPv4() bool {
	return na.netIP().To4() != nil
}

// IsIPv6 returns whether or not the address is a native IPv6 address, that
// is, neither mapped IPv4, an OnionCat onion identity, nor an internal
// pseudo-address.
func (na NetAddress) IsIPv6() bool {
	return !na.IsIPv4() && !na.IsOnion() && !na.IsInternal()
}

// IsOnion returns whether or not the address is a v2 onion identity
// embedded in the OnionCat range (fd87:d87e:eb43::/48).
func (na NetAddress) IsOnion() bool {
	return onionCatNet.Contains(na.netIP())
}

// IsInternal returns whether or not the address is an internal
// pseudo-address (fd6b:88c0:8724::/48).  Internal addresses exist only as
// local bookkeeping labels and are never routable.
func (na NetAddress) IsInternal() bool {
	return internalNet.Contains(na.netIP())
}

// IsLocal returns whether or not the address is a loopback address or in
// the zero IPv4 block.
func (na NetAddress) IsLocal() bool {
	netIP := na.netIP()
	return netIP.IsLoopback() || zero4Net.Contains(netIP)
}

// IsRFC1918 returns whether or not the address is part of the IPv4
// private network address space as defined by RFC1918 (10.0.0.0/8,
// 172.16.0.0/12, or 192.168.0.0/16).
func (na NetAddress) IsRFC1918() bool {
	netIP := na.netIP()
	for _, rfc := range rfc1918Nets {
		if rfc.Contains(netIP) {
			return true
		}
	}
	return false
}

// IsRFC2471 returns whether or not the address is part of the deprecated
// 6bone IPv6 test network (3FFE::/16).
func (na NetAddress) IsRFC2471() bool {
	return rfc2471Net.Contains(na.netIP())
}

// IsRFC2544 returns whether or not the address is part of the IPv4
// benchmarking address space as defined by RFC2544 (198.18.0.0/15).
func (na NetAddress) IsRFC2544() bool {
	return rfc2544Net.Contains(na.netIP())
}

// IsRFC3849 returns whether or not the address is part of the IPv6
// documentation range as defined by RFC3849 (2001:DB8::/32).
func (na NetAddress) IsRFC3849() bool {
	return rfc3849Net.Contains(na.netIP())
}

// IsRFC3927 returns whether or not the address is part of the IPv4
// link-local autoconfiguration range as defined by RFC3927
// (169.254.0.0/16).
func (na NetAddress) IsRFC3927() bool {
	return rfc3927Net.Contains(na.netIP())
}

// IsRFC3964 returns whether or not the address is part of the IPv6 to IPv4
// 6to4 encapsulation range as defined by RFC3964 (2002::/16).
func (na NetAddress) IsRFC3964() bool {
	return rfc3964Net.Contains(na.netIP())
}

// IsRFC4193 returns whether or not the address is part of the IPv6 unique
// local range as defined by RFC4193 (FC00::/7).
func (na NetAddress) IsRFC4193() bool {
	return rfc4193Net.Contains(na.netIP())
}

// IsRFC4380 returns whether or not the address is part of the IPv6 teredo
// tunneling over UDP range as defined by RFC4380 (2001::/32).
func (na NetAddress) IsRFC4380() bool {
	return rfc4380Net.Contains(na.netIP())
}

// IsRFC4843 returns whether or not the address is part of the deprecated
// IPv6 ORCHID range as defined by RFC4843 (2001:10::/28).
func (na NetAddress) IsRFC4843() bool {
	return rfc4843Net.Contains(na.netIP())
}

// IsRFC7343 returns whether or not the address is part of the IPv6
// ORCHIDv2 range as defined by RFC7343 (2001:20::/28).
func (na NetAddress) IsRFC7343() bool {
	return rfc7343Net.Contains(na.netIP())
}

// IsRFC4862 returns whether or not the address is part of the IPv6
// stateless address autoconfiguration range as defined by RFC4862
// (FE80::/64).
func (na NetAddress) IsRFC4862() bool {
	return rfc4862Net.Contains(na.netIP())
}

// IsRFC5737 returns whether or not the address is part of the IPv4
// documentation address space as defined by RFC5737 (192.0.2.0/24,
// 198.51.100.0/24, 203.0.113.0/24).
func (na NetAddress) IsRFC5737() bool {
	netIP := na.netIP()
	for _, rfc := range rfc5737Nets {
		if rfc.Contains(netIP) {
			return true
		}
	}
	return false
}

// IsRFC6052 returns whether or not the address is part of the IPv6
// well-known NAT64 prefix range as defined by RFC6052 (64:FF9B::/96).
func (na NetAddress) IsRFC6052() bool {
	return rfc6052Net.Contains(na.netIP())
}

// IsRFC6145 returns whether or not the address is part of the IPv6 to IPv4
// translated address range as defined by RFC6145 (::FFFF:0:0:0/96).
func (na NetAddress) IsRFC6145() bool {
	return rfc6145Net.Contains(na.netIP())
}

// IsRFC6598 returns whether or not the address is part of the IPv4 shared
// address space as specified by RFC6598 (100.64.0.0/10).
func (na NetAddress) IsRFC6598() bool {
	return rfc6598Net.Contains(na.netIP())
}

// IsValid returns whether or not the address is a plausible network
// endpoint.  The address is considered invalid under the following
// circumstances:
//
//   - the unspecified address (0.0.0.0 or ::)
//   - the IPv4 broadcast address 255.255.255.255
//   - the RFC3849 documentation range
//   - the 3-byte shifted garbage pattern produced by ancient gossip bugs
//   - internal pseudo-addresses, which are bookkeeping labels rather
//     than endpoints
func (na NetAddress) IsValid() bool {
	if [9]byte(na.ip[:9]) == shiftedAddrGarbage {
		return false
	}
	if na.ip == ([16]byte{}) {
		return false
	}
	if na.IsRFC3849() || na.IsInternal() {
		return false
	}
	if na.IsIPv4() {
		ip4 := [4]byte(na.ip[12:])
		if ip4 == ([4]byte{}) || ip4 == ([4]byte{0xff, 0xff, 0xff, 0xff}) {
			return false
		}
	}
	return true
}

// IsRoutable returns whether or not the address is routable over the
// public internet.  This is true as long as the address is valid and is
// not in any reserved or private range.  OnionCat onion identities are
// routable even though they lie within the RFC4193 block.
func (na NetAddress) IsRoutable() bool {
	return na.IsValid() && !(na.IsRFC1918() || na.IsRFC2471() ||
		na.IsRFC2544() || na.IsRFC3927() || na.IsRFC4862() ||
		na.IsRFC6598() || na.IsRFC5737() ||
		(na.IsRFC4193() && !na.IsOnion()) || na.IsRFC4843() ||
		na.IsRFC7343() || na.IsLocal() || na.IsInternal())
}

// storageFamily identifies the address family of the canonical storage
// form independent of routability.  It is used for the family-equality
// rules of subnet matching, where a loopback IPv4 address is still IPv4
// even though its network class is unroutable.
func (na NetAddress) storageFamily() NetworkID {
	switch {
	case na.IsIPv4():
		return NetIPv4
	case na.IsOnion():
		return NetOnion
	case na.IsInternal():
		return NetInternal
	}
	return NetIPv6
}
