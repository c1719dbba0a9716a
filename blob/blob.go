// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blob provides the fixed-width byte identifiers used for hashes
// and keys, with the byte-reversed hex display order the rest of the
// ecosystem expects.
package blob

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Widths of the supported identifiers in bytes.
const (
	Size160 = 20
	Size256 = 32
	Size512 = 64
)

// encodeReversed returns the hex encoding of the provided bytes in reversed
// order, so the most significant byte prints first.
func encodeReversed(b []byte) string {
	for i := 0; i < len(b)/2; i++ {
		b[i], b[len(b)-1-i] = b[len(b)-1-i], b[i]
	}
	return hex.EncodeToString(b)
}

// decodeReversed decodes a hex string into dst in reversed byte order.
// Strings shorter than the full width are padded with leading zeros, as is
// conventional for numeric hash display.
func decodeReversed(dst []byte, src string) error {
	if len(src) > len(dst)*2 {
		return fmt.Errorf("max identifier string length is %d chars",
			len(dst)*2)
	}

	// Pad odd-length strings with a leading zero so hex decoding works on
	// whole bytes.
	var srcBytes []byte
	if len(src)%2 == 0 {
		srcBytes = []byte(src)
	} else {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}

	var reversed [Size512]byte
	_, err := hex.Decode(reversed[len(dst)-len(srcBytes)/2:len(dst)],
		srcBytes)
	if err != nil {
		return fmt.Errorf("invalid identifier string %q: %w", src, err)
	}

	for i, b := range reversed[:len(dst)] {
		dst[len(dst)-1-i] = b
	}
	return nil
}

// Blob160 is a 20-byte identifier, typically a 160-bit key hash.
type Blob160 [Size160]byte

// String returns the identifier as the hexadecimal string of the
// byte-reversed contents.
func (b Blob160) String() string {
	return encodeReversed(b[:])
}

// Bytes returns a copy of the bytes that represent the identifier.
func (b Blob160) Bytes() []byte {
	out := make([]byte, Size160)
	copy(out, b[:])
	return out
}

// IsZero returns whether every byte of the identifier is zero.
func (b Blob160) IsZero() bool {
	return b == Blob160{}
}

// Compare orders identifiers byte-wise.  It returns -1, 0, or 1 per
// bytes.Compare semantics.
func (b Blob160) Compare(other Blob160) int {
	return bytes.Compare(b[:], other[:])
}

// NewBlob160FromString creates a Blob160 from a hex string in display
// order.
func NewBlob160FromString(s string) (Blob160, error) {
	var b Blob160
	err := decodeReversed(b[:], s)
	return b, err
}

// Blob256 is a 32-byte identifier, typically a transaction or block hash.
type Blob256 [Size256]byte

// String returns the identifier as the hexadecimal string of the
// byte-reversed contents.
func (b Blob256) String() string {
	return encodeReversed(b[:])
}

// Bytes returns a copy of the bytes that represent the identifier.
func (b Blob256) Bytes() []byte {
	out := make([]byte, Size256)
	copy(out, b[:])
	return out
}

// IsZero returns whether every byte of the identifier is zero.
func (b Blob256) IsZero() bool {
	return b == Blob256{}
}

// Compare orders identifiers byte-wise.  It returns -1, 0, or 1 per
// bytes.Compare semantics.
func (b Blob256) Compare(other Blob256) int {
	return bytes.Compare(b[:], other[:])
}

// NewBlob256FromString creates a Blob256 from a hex string in display
// order.
func NewBlob256FromString(s string) (Blob256, error) {
	var b Blob256
	err := decodeReversed(b[:], s)
	return b, err
}

// Blob512 is a 64-byte identifier, typically a BLS signature or similar
// wide value.
type Blob512 [Size512]byte

// String returns the identifier as the hexadecimal string of the
// byte-reversed contents.
func (b Blob512) String() string {
	return encodeReversed(b[:])
}

// Bytes returns a copy of the bytes that represent the identifier.
func (b Blob512) Bytes() []byte {
	out := make([]byte, Size512)
	copy(out, b[:])
	return out
}

// IsZero returns whether every byte of the identifier is zero.
func (b Blob512) IsZero() bool {
	return b == Blob512{}
}

// Compare orders identifiers byte-wise.  It returns -1, 0, or 1 per
// bytes.Compare semantics.
func (b Blob512) Compare(other Blob512) int {
	return bytes.Compare(b[:], other[:])
}

// NewBlob512FromString creates a Blob512 from a hex string in display
// order.
func NewBlob512FromString(s string) (Blob512, error) {
	var b Blob512
	err := decodeReversed(b[:], s)
	return b, err
}
