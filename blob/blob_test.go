// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blob

import (
	"testing"
)

// TestBlob256String ensures identifiers render in byte-reversed display
// order and parse back to the identical value.
func TestBlob256String(t *testing.T) {
	var b Blob256
	for i := range b {
		b[i] = byte(i)
	}

	// Byte 0x1f is the most significant in display order.
	want := "1f1e1d1c1b1a191817161514131211100f0e0d0c0b0a" +
		"09080706050403020100"
	if got := b.String(); got != want {
		t.Fatalf("mismatched string -- got %s, want %s", got, want)
	}

	parsed, err := NewBlob256FromString(want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != b {
		t.Fatalf("string form did not round trip -- got %s", parsed)
	}
}

// TestBlobShortString ensures short strings parse as numeric values with
// implied leading zeros.
func TestBlobShortString(t *testing.T) {
	b, err := NewBlob160FromString("1f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var want Blob160
	want[0] = 0x1f
	if b != want {
		t.Fatalf("mismatched value -- got %s, want %s", b, want)
	}

	// Odd-length strings imply a leading zero nibble.
	b, err = NewBlob160FromString("f1f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = Blob160{}
	want[0] = 0x1f
	want[1] = 0x0f
	if b != want {
		t.Fatalf("mismatched odd-length value -- got %s, want %s", b, want)
	}
}

// TestBlobStringErrors ensures malformed identifier strings are rejected.
func TestBlobStringErrors(t *testing.T) {
	// Too long for the width.
	long := make([]byte, Size160*2+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := NewBlob160FromString(string(long)); err == nil {
		t.Error("over-length string parsed without error")
	}

	// Invalid hex digits.
	if _, err := NewBlob256FromString("banana"); err == nil {
		t.Error("invalid hex string parsed without error")
	}
}

// TestBlobCompare ensures ordering is byte-wise and IsZero reports only the
// zero value.
func TestBlobCompare(t *testing.T) {
	var a, b Blob512
	b[Size512-1] = 1

	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("identifier ordering is not byte-wise")
	}
	if !a.IsZero() {
		t.Error("zero identifier is not reported zero")
	}
	if b.IsZero() {
		t.Error("nonzero identifier is reported zero")
	}

	// Bytes returns a copy that does not alias the identifier.
	raw := b.Bytes()
	raw[0] = 0xff
	if b[0] == 0xff {
		t.Error("Bytes aliases the identifier")
	}
}
