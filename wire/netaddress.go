// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"time"

	"github.com/TheRetroMike/mariacoin/netaddr"
)

const (
	// NetworkIDIPv4 is the addrv2 network identifier for an IPv4 address
	// carried in its native 4-byte width.
	NetworkIDIPv4 uint8 = 1

	// NetworkIDIPv6 is the addrv2 network identifier for an IPv6 address
	// carried in its native 16-byte width.  Every address family that
	// embeds in IPv6 may also travel under this identifier.
	NetworkIDIPv6 uint8 = 2

	// NetworkIDTorV2 is the addrv2 network identifier for a v2 onion
	// identity carried as its native 10-byte key.
	NetworkIDTorV2 uint8 = 3

	// maxAddrV2Size is the maximum declared address length accepted for an
	// unrecognized network identifier.  Entries above this limit cannot be
	// skipped safely since an attacker could use them to force arbitrary
	// reads.
	maxAddrV2Size = 512

	// ipv4Size, ipv6Size, and torV2Size are the native address widths of
	// the known network identifiers.
	ipv4Size  = 4
	ipv6Size  = 16
	torV2Size = 10
)

// readAddressEntry reads an address entry in the original fixed-width format
// from r into na.
func readAddressEntry(r io.Reader, na *netaddr.NetAddress) error {
	stamp, err := binarySerializer.Uint32(r, littleEndian)
	if err != nil {
		return err
	}

	services, err := binarySerializer.Uint64(r, littleEndian)
	if err != nil {
		return err
	}

	var ip [16]byte
	if _, err := io.ReadFull(r, ip[:]); err != nil {
		return err
	}

	port, err := binarySerializer.Uint16(r, bigEndian)
	if err != nil {
		return err
	}

	*na, err = netaddr.NewAddressFromBytes(ip[:])
	if err != nil {
		return err
	}
	na.Timestamp = time.Unix(int64(stamp), 0)
	na.Services = netaddr.ServiceFlag(services)
	na.Port = port
	return nil
}

// writeAddressEntry serializes an address entry to w in the original
// fixed-width format.
func writeAddressEntry(w io.Writer, na *netaddr.NetAddress) error {
	err := binarySerializer.PutUint32(w, littleEndian,
		uint32(na.Timestamp.Unix()))
	if err != nil {
		return err
	}

	err = binarySerializer.PutUint64(w, littleEndian, uint64(na.Services))
	if err != nil {
		return err
	}

	ip := na.Bytes()
	if _, err := w.Write(ip[:]); err != nil {
		return err
	}

	return binarySerializer.PutUint16(w, bigEndian, na.Port)
}

// readAddressEntryV2 reads an address entry in the addrv2 format from r into
// na.  Entries with an unrecognized network identifier are consumed and
// yield the invalid zero address so the remainder of the stream stays
// decodable.
func readAddressEntryV2(r io.Reader, na *netaddr.NetAddress) error {
	const op = "readAddressEntryV2"

	stamp, err := binarySerializer.Uint32(r, littleEndian)
	if err != nil {
		return err
	}

	services, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	networkID, err := binarySerializer.Uint8(r)
	if err != nil {
		return err
	}

	addrLen, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	var addr netaddr.NetAddress
	var nativeSize uint64
	switch networkID {
	case NetworkIDIPv4:
		nativeSize = ipv4Size
	case NetworkIDIPv6:
		nativeSize = ipv6Size
	case NetworkIDTorV2:
		nativeSize = torV2Size
	default:
		// Skip the entry so new network identifiers can be introduced
		// without breaking old decoders, but refuse to skip unbounded
		// amounts of data.
		if addrLen > maxAddrV2Size {
			msg := fmt.Sprintf("address length %d for unknown network id "+
				"%d exceeds max %d", addrLen, networkID, maxAddrV2Size)
			return messageError(op, ErrAddressTooLong, msg)
		}
		if _, err := io.CopyN(io.Discard, r, int64(addrLen)); err != nil {
			return err
		}
	}

	if nativeSize != 0 {
		if addrLen != nativeSize {
			msg := fmt.Sprintf("address length %d does not match network "+
				"id %d [want %d]", addrLen, networkID, nativeSize)
			return messageError(op, ErrMismatchedAddressLength, msg)
		}
		raw := make([]byte, nativeSize)
		if _, err := io.ReadFull(r, raw); err != nil {
			return err
		}
		addr, err = netaddr.NewAddressFromBytes(raw)
		if err != nil {
			return err
		}
	}

	port, err := binarySerializer.Uint16(r, bigEndian)
	if err != nil {
		return err
	}

	*na = addr
	na.Timestamp = time.Unix(int64(stamp), 0)
	na.Services = netaddr.ServiceFlag(services)
	na.Port = port
	return nil
}

// writeAddressEntryV2 serializes an address entry to w in the addrv2 format.
// The network identifier and width are chosen from the address family, so
// IPv4 and onion entries travel at their native 4 and 10 bytes.
func writeAddressEntryV2(w io.Writer, na *netaddr.NetAddress) error {
	err := binarySerializer.PutUint32(w, littleEndian,
		uint32(na.Timestamp.Unix()))
	if err != nil {
		return err
	}

	err = WriteVarInt(w, uint64(na.Services))
	if err != nil {
		return err
	}

	var networkID uint8
	var raw []byte
	switch {
	case na.IsIPv4():
		networkID = NetworkIDIPv4
		raw = na.IPv4Bytes()
	case na.IsOnion():
		networkID = NetworkIDTorV2
		raw = na.OnionKey()
	default:
		networkID = NetworkIDIPv6
		ip := na.Bytes()
		raw = ip[:]
	}

	if err := binarySerializer.PutUint8(w, networkID); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(raw))); err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}

	return binarySerializer.PutUint16(w, bigEndian, na.Port)
}
