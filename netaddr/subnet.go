// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netaddr

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Subnet represents a network base address plus a netmask over the
// canonical 16-byte address form.  The zero value is an invalid subnet
// that matches nothing.
//
// Only IPv4 and IPv6 addresses can be subnetted.  Onion identities may
// appear solely in exact-match subnets built with NewSubnetFromAddress,
// since prefix matching over a hash-derived identity carries no meaning.
type Subnet struct {
	// network is the base address with the netmask already applied.  Only
	// its identity bytes participate; port and metadata are ignored.
	network NetAddress

	// netmask holds the mask over the full 16-byte form.  For IPv4
	// subnets the leading 12 bytes are always 0xff so mapped addresses
	// compare correctly.
	netmask [16]byte

	// valid reports whether the subnet was constructed from a coherent
	// base/mask pair.  Invalid subnets match no address at all.
	valid bool
}

// maskFamilyBits returns the number of maskable bits for the family of the
// provided base address and whether the family can be subnetted at all.
func maskFamilyBits(base NetAddress) (int, bool) {
	switch base.storageFamily() {
	case NetIPv4:
		return 32, true
	case NetIPv6:
		return 128, true
	}
	return 0, false
}

// applyPrefix fills in the netmask for the given prefix length counted
// over the family-native width and masks the base address.  The caller
// has already validated the range.
func (s *Subnet) applyPrefix(prefixBits, familyBits int) {
	// The mask always covers the full 16 bytes, so an IPv4 prefix is
	// offset past the 96 mapped-prefix bits.
	ones := prefixBits + (128 - familyBits)
	for i := 0; i < 16; i++ {
		switch {
		case ones >= 8:
			s.netmask[i] = 0xff
			ones -= 8
		case ones > 0:
			s.netmask[i] = ^byte(0xff >> ones)
			ones = 0
		}
		s.network.ip[i] &= s.netmask[i]
	}
}

// NewSubnet returns the subnet of the provided base address with the given
// prefix length in family-native bits (0-32 for IPv4, 0-128 for IPv6).
// The base is masked down to the network address.  An out-of-range prefix
// or a base that cannot be subnetted yields an invalid subnet.
func NewSubnet(base NetAddress, prefixBits int) Subnet {
	var s Subnet
	familyBits, ok := maskFamilyBits(base)
	if !ok || prefixBits < 0 || prefixBits > familyBits {
		return s
	}
	s.network = NetAddress{ip: base.ip}
	s.valid = true
	s.applyPrefix(prefixBits, familyBits)
	return s
}

// NewSubnetFromMask returns the subnet of the provided base address under
// the netmask given as an address of the same family (for example
// 255.255.255.0 or ffff::).  The prefix length is derived by counting
// leading one bits.  A non-contiguous mask (any 1-bit following a 0-bit)
// or a mask whose family differs from the base yields an invalid subnet
// rather than a wrong prefix count.
func NewSubnetFromMask(base, mask NetAddress) Subnet {
	var s Subnet
	familyBits, ok := maskFamilyBits(base)
	if !ok || base.storageFamily() != mask.storageFamily() {
		return s
	}

	maskBytes := mask.ip[16-familyBits/8:]
	prefixBits := 0
	seenZero := false
	for _, b := range maskBytes {
		if seenZero && b != 0 {
			return s
		}
		ones := bits.LeadingZeros8(^b)
		if ones < 8 {
			// The remainder of this byte must be zero.
			if b<<ones != 0 {
				return s
			}
			seenZero = true
		}
		prefixBits += ones
	}
	return NewSubnet(base, prefixBits)
}

// NewSubnetFromAddress returns the exact-match subnet of the provided
// address.  Every family is allowed, including onion identities, making
// this the canonical way to express a single-host ban.  The subnet is
// invalid when the address itself is invalid.
func NewSubnetFromAddress(base NetAddress) Subnet {
	var s Subnet
	if !base.IsValid() {
		return s
	}
	s.network = NetAddress{ip: base.ip}
	for i := range s.netmask {
		s.netmask[i] = 0xff
	}
	s.valid = true
	return s
}

// ParseSubnet parses a textual subnet in any of the forms "<addr>",
// "<addr>/<prefix-bits>", or "<addr>/<netmask-literal>".  A bare address
// is the exact-match subnet for its family.  Grammar-level failures
// (unparseable base address, embedded NUL, non-numeric malformed suffix)
// yield a typed error; a coherent parse with a non-contiguous or
// cross-family mask yields an invalid subnet value and no error, matching
// the semantics of Subnet.IsValid.
func ParseSubnet(text string) (Subnet, error) {
	var s Subnet
	if containsNul(text) {
		return s, makeError(ErrInvalidSubnet,
			"subnet contains embedded NUL characters")
	}

	baseStr, maskStr, hasMask := strings.Cut(text, "/")
	base, err := ParseAddress(baseStr)
	if err != nil {
		str := fmt.Sprintf("invalid subnet base address %q", baseStr)
		return s, makeError(ErrInvalidSubnet, str)
	}

	if !hasMask {
		if base.IsOnion() {
			// Single onion identities are bannable but carry no
			// subnet structure.
			return NewSubnetFromAddress(base), nil
		}
		familyBits, _ := maskFamilyBits(base)
		return NewSubnet(base, familyBits), nil
	}

	// Only IPv4 and IPv6 carry subnet structure.
	familyBits, ok := maskFamilyBits(base)
	if !ok {
		str := fmt.Sprintf("address family of %q cannot be subnetted",
			baseStr)
		return s, makeError(ErrInvalidSubnet, str)
	}

	if prefixBits, err := strconv.Atoi(maskStr); err == nil {
		if prefixBits < 0 || prefixBits > familyBits {
			str := fmt.Sprintf("prefix length %d is out of range for %q",
				prefixBits, baseStr)
			return s, makeError(ErrInvalidSubnet, str)
		}
		return NewSubnet(base, prefixBits), nil
	}

	mask, err := ParseAddress(maskStr)
	if err != nil {
		str := fmt.Sprintf("invalid netmask %q", maskStr)
		return s, makeError(ErrInvalidSubnet, str)
	}
	return NewSubnetFromMask(base, mask), nil
}

// IsValid returns whether the subnet was constructed from a coherent
// base/mask pair.  An invalid subnet matches nothing, including invalid
// addresses.
func (s Subnet) IsValid() bool {
	return s.valid
}

// Matches returns whether the provided address lies inside the subnet.
// Matching requires a valid subnet, a valid address, and family equality:
// an IPv4 subnet never matches an IPv6 literal (or vice versa) even when
// the bit patterns would coincide, and the all-matching subnet of a family
// matches every valid address of that family but never the unspecified
// address.
func (s Subnet) Matches(addr NetAddress) bool {
	if !s.valid || !addr.IsValid() {
		return false
	}
	if s.network.storageFamily() != addr.storageFamily() {
		return false
	}
	for i := range s.netmask {
		if (addr.ip[i]^s.network.ip[i])&s.netmask[i] != 0 {
			return false
		}
	}
	return true
}

// prefixLen returns the mask length in family-native bits.
func (s Subnet) prefixLen() int {
	ones := 0
	for _, b := range s.netmask {
		ones += bits.OnesCount8(b)
	}
	if familyBits, ok := maskFamilyBits(s.network); ok {
		return ones - (128 - familyBits)
	}
	return ones
}

// Network returns the masked base address of the subnet.
func (s Subnet) Network() NetAddress {
	return s.network
}

// String returns the canonical "<network>/<prefix-bits>" form.  Netmask
// literals used at construction time are normalized to CIDR notation.
func (s Subnet) String() string {
	return s.network.ipString() + "/" + strconv.Itoa(s.prefixLen())
}

// Equal reports whether two subnets describe the same network and mask.
// Invalid subnets only equal other invalid subnets.
func (s Subnet) Equal(other Subnet) bool {
	if s.valid != other.valid {
		return false
	}
	if !s.valid {
		return true
	}
	return s.network.Equal(other.network) && s.netmask == other.netmask
}
