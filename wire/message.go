// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// Message is an interface that describes an address gossip message.  A type
// that implements Message has complete control over the representation of
// its data and may therefore contain additional or fewer fields than those
// which appear on the wire.
type Message interface {
	Decode(io.Reader) error
	Encode(io.Writer) error
	Command() string
	MaxPayloadLength() uint32
}
