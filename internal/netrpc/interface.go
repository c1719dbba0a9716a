// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netrpc

import (
	"net"
	"time"

	"github.com/TheRetroMike/mariacoin/banmgr"
	"github.com/TheRetroMike/mariacoin/blob"
	"github.com/TheRetroMike/mariacoin/netaddr"
)

// PeerStats is a snapshot of the flags and statistics of a peer at a point
// in time.
type PeerStats struct {
	// ID is the unique peer id.
	ID int32

	// Addr is the remote address of the peer.
	Addr string

	// Services is the service flags the peer advertised.
	Services netaddr.ServiceFlag

	// MappedAS is the autonomous system the peer address maps to when an
	// AS map is in use, or zero when there is none.
	MappedAS uint64

	// LastSend and LastRecv are the times of the last messages sent to
	// and received from the peer.
	LastSend time.Time
	LastRecv time.Time

	// BytesSent and BytesRecv are the running byte totals for the
	// connection.
	BytesSent uint64
	BytesRecv uint64

	// ConnTime is the time the connection was established.
	ConnTime time.Time

	// TimeOffset is the number of seconds the remote clock differs from
	// the local clock.
	TimeOffset int64

	// Version is the protocol version the peer negotiated.
	Version uint32

	// UserAgent is the user agent string the peer advertised.
	UserAgent string

	// Inbound is whether the peer initiated the connection.
	Inbound bool

	// StartingHeight is the chain height the peer reported when the
	// connection was negotiated.
	StartingHeight int64

	// LastPingTime is the time the last ping was sent to the peer.
	LastPingTime time.Time

	// LastPingMicros is the round trip time of the last completed ping in
	// microseconds.
	LastPingMicros int64
}

// MasternodeInfo describes the masternode identity of a peer connection.
// The zero value describes a regular peer.
type MasternodeInfo struct {
	// IsMasternode is whether the connection belongs to a masternode.
	IsMasternode bool

	// QuorumRelay is whether the connection participates in intra-quorum
	// relay.
	QuorumRelay bool

	// ProRegTxHash is the provider registration transaction hash of the
	// verified masternode, or the zero value when the connection has not
	// completed verification.
	ProRegTxHash blob.Blob256

	// OperatorKeyHash is the hash of the operator public key of the
	// verified masternode, or the zero value when the connection has not
	// completed verification.
	OperatorKeyHash blob.Blob160
}

// Peer represents a peer for use with the RPC handlers.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type Peer interface {
	// Addr returns the peer address.
	Addr() string

	// Connected returns whether or not the peer is currently connected.
	Connected() bool

	// ID returns the peer id.
	ID() int32

	// Inbound returns whether the peer is inbound.
	Inbound() bool

	// StatsSnapshot returns a snapshot of the current peer flags and
	// statistics.
	StatsSnapshot() *PeerStats

	// LocalAddr returns the local address of the connection or nil if the
	// peer is not currently connected.
	LocalAddr() net.Addr

	// LastPingNonce returns the last ping nonce of the remote peer.
	LastPingNonce() uint64

	// IsTxRelayDisabled returns whether or not the peer has disabled
	// transaction relay.
	IsTxRelayDisabled() bool

	// BanScore returns the current integer value that represents how
	// close the peer is to being banned.
	BanScore() uint32

	// Masternode returns the masternode identity of the connection.
	Masternode() MasternodeInfo
}

// ConnManager represents a connection manager for use with the RPC handlers.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type ConnManager interface {
	// Connect adds the provided address as a new outbound peer.  The
	// permanent flag indicates whether or not to make the peer persistent
	// and reconnect if the connection is lost.  Attempting to connect to
	// an already existing peer will return an error.
	Connect(addr string, permanent bool) error

	// RemoveByAddr removes the peer associated with the provided address
	// from the list of persistent peers.  Attempting to remove an address
	// that does not exist will return an error.
	RemoveByAddr(addr string) error

	// DisconnectByAddr disconnects the peer associated with the provided
	// address.  This applies to both inbound and outbound peers.
	// Attempting to remove an address that does not exist will return an
	// error.
	DisconnectByAddr(addr string) error

	// ConnectedCount returns the number of currently connected peers.
	ConnectedCount() int32

	// NetTotals returns the sum of all bytes received and sent across the
	// network for all peers.
	NetTotals() (uint64, uint64)

	// ConnectedPeers returns an array consisting of all connected peers.
	ConnectedPeers() []Peer

	// PersistentPeers returns an array consisting of all the persistent
	// peers.
	PersistentPeers() []Peer

	// BroadcastPing issues a ping to all currently connected peers.
	BroadcastPing() error
}

// BanManager represents a ban manager for use with the RPC handlers.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type BanManager interface {
	// Ban adds the provided subnet to the ban list.  The banTime and
	// absolute parameters follow the setban command semantics.
	Ban(subnet netaddr.Subnet, reason banmgr.BanReason, banTime int64, absolute bool) error

	// IsBannedSubnet returns whether the exact subnet has an unexpired
	// ban entry.
	IsBannedSubnet(subnet netaddr.Subnet) bool

	// Unban removes the provided subnet from the ban list and returns
	// whether an entry was removed.
	Unban(subnet netaddr.Subnet) bool

	// Clear removes all entries from the ban list.
	Clear()

	// List returns a snapshot of all unexpired ban entries.
	List() []banmgr.BanEntry
}

// LocalAddr is a local address and the score of its reachability as
// reported for the getnetworkinfo command.
type LocalAddr struct {
	Address string
	Port    uint16
	Score   int32
}

// AddrManager represents an address manager for use with the RPC handlers.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type AddrManager interface {
	// LocalAddresses returns a summary of local addresses information
	// for the getnetworkinfo rpc.
	LocalAddresses() []LocalAddr
}

// TimeSource represents a median time source for use with the RPC handlers.
//
// The interface contract requires that all of these methods are safe for
// concurrent access.
type TimeSource interface {
	// Offset returns the number of seconds to adjust the local clock
	// based upon the median of the time samples added by the associated
	// peers.
	Offset() time.Duration
}
