// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/TheRetroMike/mariacoin/netaddr"
)

// CmdAddrV2 is the protocol command string for the tagged variable-width
// address message.
const CmdAddrV2 = "addrv2"

// MsgAddrV2 implements the Message interface and represents an addrv2
// message.  It carries the same address list as MsgAddr but tags every
// entry with a network identifier and its native address width, which lets
// new address families join the gossip without another format change.
// Entries whose network identifier the decoder does not recognize are
// consumed and surface as invalid zero addresses rather than aborting the
// message.
//
// Use the AddAddress function to build up the list of known addresses when
// sending an addrv2 message to another peer.
type MsgAddrV2 struct {
	AddrList []*netaddr.NetAddress
}

// AddAddress adds a known active peer to the message.
func (msg *MsgAddrV2) AddAddress(na *netaddr.NetAddress) error {
	const op = "MsgAddrV2.AddAddress"
	if len(msg.AddrList)+1 > MaxAddrPerMsg {
		msg := fmt.Sprintf("too many addresses in message [max %v]",
			MaxAddrPerMsg)
		return messageError(op, ErrTooManyAddrs, msg)
	}

	msg.AddrList = append(msg.AddrList, na)
	return nil
}

// AddAddresses adds multiple known active peers to the message.
func (msg *MsgAddrV2) AddAddresses(netAddrs ...*netaddr.NetAddress) error {
	for _, na := range netAddrs {
		err := msg.AddAddress(na)
		if err != nil {
			return err
		}
	}
	return nil
}

// ClearAddresses removes all addresses from the message.
func (msg *MsgAddrV2) ClearAddresses() {
	msg.AddrList = []*netaddr.NetAddress{}
}

// Decode decodes r using the addrv2 encoding into the receiver.
func (msg *MsgAddrV2) Decode(r io.Reader) error {
	const op = "MsgAddrV2.Decode"
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	// Limit to max addresses per message.
	if count > MaxAddrPerMsg {
		msg := fmt.Sprintf("too many addresses for message [count %v, max %v]",
			count, MaxAddrPerMsg)
		return messageError(op, ErrTooManyAddrs, msg)
	}

	addrList := make([]netaddr.NetAddress, count)
	msg.AddrList = make([]*netaddr.NetAddress, 0, count)
	for i := uint64(0); i < count; i++ {
		na := &addrList[i]
		err := readAddressEntryV2(r, na)
		if err != nil {
			return err
		}
		msg.AddAddress(na)
	}
	return nil
}

// Encode encodes the receiver to w using the addrv2 encoding.
func (msg *MsgAddrV2) Encode(w io.Writer) error {
	const op = "MsgAddrV2.Encode"
	count := len(msg.AddrList)
	if count > MaxAddrPerMsg {
		msg := fmt.Sprintf("too many addresses for message [count %v, max %v]",
			count, MaxAddrPerMsg)
		return messageError(op, ErrTooManyAddrs, msg)
	}

	err := WriteVarInt(w, uint64(count))
	if err != nil {
		return err
	}

	for _, na := range msg.AddrList {
		err = writeAddressEntryV2(w, na)
		if err != nil {
			return err
		}
	}

	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgAddrV2) Command() string {
	return CmdAddrV2
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgAddrV2) MaxPayloadLength() uint32 {
	// Count varint 3 bytes + a max of 1000 entries at their largest
	// encoding (timestamp 4, services varint 9, network id 1, length
	// varint 1, address 16, port 2).
	return 3 + (MaxAddrPerMsg * 33)
}

// NewMsgAddrV2 returns a new addrv2 message that conforms to the Message
// interface.  See MsgAddrV2 for details.
func NewMsgAddrV2() *MsgAddrV2 {
	return &MsgAddrV2{
		AddrList: make([]*netaddr.NetAddress, 0, MaxAddrPerMsg),
	}
}
