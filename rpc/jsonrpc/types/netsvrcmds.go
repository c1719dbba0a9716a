// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported
// by the network server.

package types

import (
	"github.com/decred/dcrd/dcrjson/v4"
)

// AddNodeSubCmd defines the type used in the addnode JSON-RPC command for the
// sub command field.
type AddNodeSubCmd string

const (
	// ANAdd indicates the specified host should be added as a persistent
	// peer.
	ANAdd AddNodeSubCmd = "add"

	// ANRemove indicates the specified peer should be removed.
	ANRemove AddNodeSubCmd = "remove"

	// ANOneTry indicates the specified host should try to connect once,
	// but it should not be made persistent.
	ANOneTry AddNodeSubCmd = "onetry"
)

// AddNodeCmd defines the addnode JSON-RPC command.
type AddNodeCmd struct {
	Addr   string
	SubCmd AddNodeSubCmd `jsonrpcusage:"\"add|remove|onetry\""`
}

// NewAddNodeCmd returns a new instance which can be used to issue an addnode
// JSON-RPC command.
func NewAddNodeCmd(addr string, subCmd AddNodeSubCmd) *AddNodeCmd {
	return &AddNodeCmd{
		Addr:   addr,
		SubCmd: subCmd,
	}
}

// ClearBannedCmd defines the clearbanned JSON-RPC command.
type ClearBannedCmd struct{}

// NewClearBannedCmd returns a new instance which can be used to issue a
// clearbanned JSON-RPC command.
func NewClearBannedCmd() *ClearBannedCmd {
	return &ClearBannedCmd{}
}

// DisconnectNodeCmd defines the disconnectnode JSON-RPC command.
type DisconnectNodeCmd struct {
	Address string
}

// NewDisconnectNodeCmd returns a new instance which can be used to issue a
// disconnectnode JSON-RPC command.
func NewDisconnectNodeCmd(address string) *DisconnectNodeCmd {
	return &DisconnectNodeCmd{
		Address: address,
	}
}

// GetConnectionCountCmd defines the getconnectioncount JSON-RPC command.
type GetConnectionCountCmd struct{}

// NewGetConnectionCountCmd returns a new instance which can be used to issue
// a getconnectioncount JSON-RPC command.
func NewGetConnectionCountCmd() *GetConnectionCountCmd {
	return &GetConnectionCountCmd{}
}

// GetNetTotalsCmd defines the getnettotals JSON-RPC command.
type GetNetTotalsCmd struct{}

// NewGetNetTotalsCmd returns a new instance which can be used to issue a
// getnettotals JSON-RPC command.
func NewGetNetTotalsCmd() *GetNetTotalsCmd {
	return &GetNetTotalsCmd{}
}

// GetNetworkInfoCmd defines the getnetworkinfo JSON-RPC command.
type GetNetworkInfoCmd struct{}

// NewGetNetworkInfoCmd returns a new instance which can be used to issue a
// getnetworkinfo JSON-RPC command.
func NewGetNetworkInfoCmd() *GetNetworkInfoCmd {
	return &GetNetworkInfoCmd{}
}

// GetPeerInfoCmd defines the getpeerinfo JSON-RPC command.
type GetPeerInfoCmd struct{}

// NewGetPeerInfoCmd returns a new instance which can be used to issue a
// getpeerinfo JSON-RPC command.
func NewGetPeerInfoCmd() *GetPeerInfoCmd {
	return &GetPeerInfoCmd{}
}

// ListBannedCmd defines the listbanned JSON-RPC command.
type ListBannedCmd struct{}

// NewListBannedCmd returns a new instance which can be used to issue a
// listbanned JSON-RPC command.
func NewListBannedCmd() *ListBannedCmd {
	return &ListBannedCmd{}
}

// PingCmd defines the ping JSON-RPC command.
type PingCmd struct{}

// NewPingCmd returns a new instance which can be used to issue a ping
// JSON-RPC command.
func NewPingCmd() *PingCmd {
	return &PingCmd{}
}

// SetBanSubCmd defines the type used in the setban JSON-RPC command for the
// sub command field.
type SetBanSubCmd string

const (
	// SBAdd indicates the specified subnet should be added to the ban
	// list.
	SBAdd SetBanSubCmd = "add"

	// SBRemove indicates the specified subnet should be removed from the
	// ban list.
	SBRemove SetBanSubCmd = "remove"
)

// SetBanCmd defines the setban JSON-RPC command.
type SetBanCmd struct {
	Subnet   string
	Command  SetBanSubCmd `jsonrpcusage:"\"add|remove\""`
	BanTime  *int64       `jsonrpcdefault:"0"`
	Absolute *bool        `jsonrpcdefault:"false"`
}

// NewSetBanCmd returns a new instance which can be used to issue a setban
// JSON-RPC command.
func NewSetBanCmd(subnet string, subCmd SetBanSubCmd, banTime *int64, absolute *bool) *SetBanCmd {
	return &SetBanCmd{
		Subnet:   subnet,
		Command:  subCmd,
		BanTime:  banTime,
		Absolute: absolute,
	}
}

func init() {
	// No special flags for commands in this file.
	flags := dcrjson.UsageFlag(0)

	dcrjson.MustRegister(Method("addnode"), (*AddNodeCmd)(nil), flags)
	dcrjson.MustRegister(Method("clearbanned"), (*ClearBannedCmd)(nil), flags)
	dcrjson.MustRegister(Method("disconnectnode"), (*DisconnectNodeCmd)(nil), flags)
	dcrjson.MustRegister(Method("getconnectioncount"), (*GetConnectionCountCmd)(nil), flags)
	dcrjson.MustRegister(Method("getnettotals"), (*GetNetTotalsCmd)(nil), flags)
	dcrjson.MustRegister(Method("getnetworkinfo"), (*GetNetworkInfoCmd)(nil), flags)
	dcrjson.MustRegister(Method("getpeerinfo"), (*GetPeerInfoCmd)(nil), flags)
	dcrjson.MustRegister(Method("listbanned"), (*ListBannedCmd)(nil), flags)
	dcrjson.MustRegister(Method("ping"), (*PingCmd)(nil), flags)
	dcrjson.MustRegister(Method("setban"), (*SetBanCmd)(nil), flags)
}
