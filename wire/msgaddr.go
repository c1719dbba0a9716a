// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/TheRetroMike/mariacoin/netaddr"
)

// MaxAddrPerMsg is the maximum number of addresses that can be in a single
// addr message.
const MaxAddrPerMsg = 1000

// CmdAddr is the protocol command string for the original fixed-width
// address message.
const CmdAddr = "addr"

// MsgAddr implements the Message interface and represents an addr message in
// the original fixed-width format.  It is used to provide a list of known
// active peers on the network.  Each message is limited to a maximum number
// of addresses, which is currently 1000.  As a result, multiple messages
// must be used to relay the full list.
//
// Use the AddAddress function to build up the list of known addresses when
// sending an addr message to another peer.
type MsgAddr struct {
	AddrList []*netaddr.NetAddress
}

// AddAddress adds a known active peer to the message.
func (msg *MsgAddr) AddAddress(na *netaddr.NetAddress) error {
	const op = "MsgAddr.AddAddress"
	if len(msg.AddrList)+1 > MaxAddrPerMsg {
		msg := fmt.Sprintf("too many addresses in message [max %v]",
			MaxAddrPerMsg)
		return messageError(op, ErrTooManyAddrs, msg)
	}

	msg.AddrList = append(msg.AddrList, na)
	return nil
}

// AddAddresses adds multiple known active peers to the message.
func (msg *MsgAddr) AddAddresses(netAddrs ...*netaddr.NetAddress) error {
	for _, na := range netAddrs {
		err := msg.AddAddress(na)
		if err != nil {
			return err
		}
	}
	return nil
}

// ClearAddresses removes all addresses from the message.
func (msg *MsgAddr) ClearAddresses() {
	msg.AddrList = []*netaddr.NetAddress{}
}

// Decode decodes r using the original fixed-width address encoding into the
// receiver.
func (msg *MsgAddr) Decode(r io.Reader) error {
	const op = "MsgAddr.Decode"
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
		err := readAddressEntry(r, na)
		if err != nil {
			return err
		}
		msg.AddAddress(na)
	}
	return nil
}

// Encode encodes the receiver to w using the original fixed-width address
// encoding.
func (msg *MsgAddr) Encode(w io.Writer) error {
	const op = "MsgAddr.Encode"
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
		err = writeAddressEntry(w, na)
		if err != nil {
			return err
		}
	}

	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgAddr) Command() string {
	return CmdAddr
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgAddr) MaxPayloadLength() uint32 {
	// Count varint 3 bytes + a max of 1000 entries at 30 bytes each
	// (timestamp 4, services 8, address 16, port 2).
	return 3 + (MaxAddrPerMsg * 30)
}

// NewMsgAddr returns a new addr message that conforms to the Message
// interface.  See MsgAddr for details.
func NewMsgAddr() *MsgAddr {
	return &MsgAddr{
		AddrList: make([]*netaddr.NetAddress, 0, MaxAddrPerMsg),
	}
}
