// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netaddr

import (
	"bytes"
	"encoding/base32"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/decred/dcrd/crypto/blake256"
)

const (
	// onionSuffix is the hostname suffix used by v2 onion services.
	onionSuffix = ".onion"

	// internalSuffix is the hostname suffix used when rendering internal
	// pseudo-addresses.  It is never parsed back; internal addresses are
	// only constructed from names via NewInternalAddress.
	internalSuffix = ".internal"
)

// NetAddress defines information about a peer on the network.
//
// The address identity is always stored in a canonical 16-byte form: IPv4
// addresses are IPv6-mapped, v2 onion identities occupy the OnionCat range,
// and internal pseudo-addresses occupy a reserved unique-local range.  Two
// semantically equal addresses therefore compare byte-equal regardless of
// the textual or wire form they were constructed from.
type NetAddress struct {
	// ip is the canonical 16-byte address identity.  It is intentionally
	// unexported so a NetAddress can never hold a non-canonical form.
	ip [16]byte

	// Port is the port of the remote peer.  It is zero for address-only
	// values such as ban-list entries.
	Port uint16

	// Services represents the service flags supported by this network
	// address.
	Services ServiceFlag

	// Timestamp is the last time the address was seen.
	Timestamp time.Time
}

// containsNul reports whether the provided string contains an embedded NUL
// character.  Such strings must never be accepted as addresses since they
// silently truncate when handed to C resolver APIs.
func containsNul(s string) bool {
	return strings.IndexByte(s, 0) != -1
}

// base32Lower encodes the provided bytes as lowercase base32 without
// padding considerations (callers only pass multiples of 5 bytes).
func base32Lower(b []byte) string {
	return strings.ToLower(base32.StdEncoding.EncodeToString(b))
}

// ParseAddress parses a textual address literal into a NetAddress.  It
// accepts dotted-decimal IPv4, IPv6 (including :: compression), and base32
// v2 ".onion" hostnames.  The port, services, and timestamp fields of the
// result are zero.
//
// Non-literal hostnames are rejected; use ResolveAddress when DNS
// resolution is desired.  Literals inside the reserved internal range are
// rejected as well since that range only exists for local bookkeeping and
// must never be confused with a real network endpoint.
func ParseAddress(host string) (NetAddress, error) {
	var na NetAddress
	if containsNul(host) {
		return na, makeError(ErrInvalidAddress,
			"address contains embedded NUL characters")
	}

	if strings.HasSuffix(host, onionSuffix) {
		key, err := base32.StdEncoding.DecodeString(
			strings.ToUpper(host[:len(host)-len(onionSuffix)]))
		if err != nil || len(key) != onionKeySize {
			str := fmt.Sprintf("%q is not a valid v2 onion address", host)
			return na, makeError(ErrInvalidAddress, str)
		}
		copy(na.ip[:], onionCatPrefix[:])
		copy(na.ip[6:], key)
		return na, nil
	}

	// Tolerate bracketed IPv6 literals so configuration values such as
	// "[::1]" work without a port.
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}

	ip := net.ParseIP(host)
	if ip == nil {
		str := fmt.Sprintf("%q is not a valid IP address", host)
		return na, makeError(ErrInvalidAddress, str)
	}
	if ip4 := ip.To4(); ip4 != nil {
		copy(na.ip[:], ipv4MappedPrefix[:])
		copy(na.ip[12:], ip4)
		return na, nil
	}
	copy(na.ip[:], ip.To16())
	if na.IsInternal() {
		str := fmt.Sprintf("%q is within the range reserved for internal "+
			"pseudo-addresses", host)
		return na, makeError(ErrInvalidAddress, str)
	}
	return na, nil
}

// ParseHostPort parses a "host:port" string, falling back to the provided
// default port when no port is present.  The host portion is parsed with
// ParseAddress semantics.
func ParseHostPort(hostport string, defaultPort uint16) (NetAddress, error) {
	var na NetAddress
	if containsNul(hostport) {
		return na, makeError(ErrInvalidAddress,
			"address contains embedded NUL characters")
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		// No separable port.  Treat the whole string as the host.
		na, err := ParseAddress(hostport)
		if err != nil {
			return na, err
		}
		na.Port = defaultPort
		return na, nil
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		str := fmt.Sprintf("%q is not a valid port", portStr)
		return na, makeError(ErrInvalidAddress, str)
	}
	na, err = ParseAddress(host)
	if err != nil {
		return na, err
	}
	na.Port = uint16(port)
	return na, nil
}

// NewInternalAddress derives the internal pseudo-address for the provided
// name.  The mapping is deterministic and one-way: the name is hashed and
// the leading hash bytes are embedded in a reserved unique-local range
// (fd6b:88c0:8724::/48) that is distinguishable from every real network
// range, including the OnionCat block.  Internal addresses are never
// routable and never serialized as real endpoints.
func NewInternalAddress(name string) NetAddress {
	var na NetAddress
	hash := blake256.Sum256([]byte(name))
	copy(na.ip[:], internalPrefix[:])
	copy(na.ip[6:], hash[:10])
	return na
}

// NewAddressFromBytes constructs a NetAddress from raw address bytes as
// received off the wire.  Accepted widths are 4 (IPv4), 16 (IPv6 or any
// mapped form), and 10 (a v2 onion identity key).  Any other width is
// malformed input and yields a typed error.
func NewAddressFromBytes(raw []byte) (NetAddress, error) {
	var na NetAddress
	switch len(raw) {
	case net.IPv4len:
		copy(na.ip[:], ipv4MappedPrefix[:])
		copy(na.ip[12:], raw)
	case net.IPv6len:
		copy(na.ip[:], raw)
	case onionKeySize:
		copy(na.ip[:], onionCatPrefix[:])
		copy(na.ip[6:], raw)
	default:
		str := fmt.Sprintf("invalid address length %d", len(raw))
		return na, makeError(ErrInvalidAddress, str)
	}
	return na, nil
}

// NewAddressFromIPPort creates a NetAddress from a net.IP, port, and the
// supported service flags with a timestamp of now.  It is a convenience for
// the connection layer which already holds parsed IPs.
func NewAddressFromIPPort(ip net.IP, port uint16, services ServiceFlag) NetAddress {
	na, _ := NewAddressFromBytes(ip.To16())
	na.Port = port
	na.Services = services
	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	na.Timestamp = time.Unix(time.Now().Unix(), 0)
	return na
}

// Bytes returns the canonical 16-byte form of the address.
func (na NetAddress) Bytes() [16]byte {
	return na.ip
}

// OnionKey returns the 10-byte v2 onion identity key when the address is in
// the OnionCat range and nil otherwise.
func (na NetAddress) OnionKey() []byte {
	if !na.IsOnion() {
		return nil
	}
	key := make([]byte, onionKeySize)
	copy(key, na.ip[6:])
	return key
}

// IPv4Bytes returns the 4-byte IPv4 form of the address when it is
// IPv6-mapped IPv4 and nil otherwise.
func (na NetAddress) IPv4Bytes() []byte {
	if !na.IsIPv4() {
		return nil
	}
	ip := make([]byte, net.IPv4len)
	copy(ip, na.ip[12:])
	return ip
}

// ipString returns the canonical string representation of the address
// identity without a port.  IPv4-mapped addresses render in bare dotted
// form, OnionCat addresses render as ".onion" hostnames, and internal
// pseudo-addresses render as base32 names with an ".internal" suffix.
func (na NetAddress) ipString() string {
	switch {
	case na.IsInternal():
		return base32Lower(na.ip[6:]) + internalSuffix
	case na.IsOnion():
		return base32Lower(na.ip[6:]) + onionSuffix
	}
	return net.IP(na.ip[:]).String()
}

// String returns the canonical text form of the address without a port.
// The result round-trips through ParseAddress for every real address
// family.
func (na NetAddress) String() string {
	return na.ipString()
}

// Key returns a string that uniquely represents the address together with
// its port, suitable for use as a map key.
func (na NetAddress) Key() string {
	portString := strconv.FormatUint(uint64(na.Port), 10)
	return net.JoinHostPort(na.ipString(), portString)
}

// Equal reports whether two addresses share the same canonical identity
// bytes.  Port, services, and timestamp do not participate in identity.
func (na NetAddress) Equal(other NetAddress) bool {
	return na.ip == other.ip
}

// Compare orders addresses byte-wise over their canonical form.  It
// returns -1, 0, or 1 per bytes.Compare semantics.
func (na NetAddress) Compare(other NetAddress) int {
	return bytes.Compare(na.ip[:], other.ip[:])
}

// AddService adds the provided service to the set of services that the
// network address supports.
func (na *NetAddress) AddService(service ServiceFlag) {
	na.Services |= service
}
