// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netrpc

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/decred/dcrd/dcrjson/v4"

	"github.com/TheRetroMike/mariacoin/banmgr"
	"github.com/TheRetroMike/mariacoin/netaddr"
	"github.com/TheRetroMike/mariacoin/rpc/jsonrpc/types"
)

// Config is a descriptor containing the network RPC configuration.
type Config struct {
	// ConnMgr defines the connection manager to use.  It may be nil when
	// peer-to-peer functionality is disabled, in which case all commands
	// that require it return an RPC error.
	ConnMgr ConnManager

	// BanMgr defines the ban manager to use.  It may be nil when the ban
	// list is not loaded, in which case the ban commands return an RPC
	// error.
	BanMgr BanManager

	// AddrManager defines the address manager to use for local address
	// reporting.  It may be nil.
	AddrManager AddrManager

	// TimeSource defines the median time source to use for clock offset
	// reporting.  It may be nil.
	TimeSource TimeSource

	// DefaultPort is the port appended to peer addresses specified
	// without one.
	DefaultPort uint16

	// Version is the application version encoded for the getnetworkinfo
	// version field.
	Version int32

	// UserAgent is the full user agent string including the version.
	UserAgent string

	// MaxProtocolVersion is the highest protocol version the server
	// speaks.
	MaxProtocolVersion uint32

	// Services is the service flags the local node advertises.
	Services netaddr.ServiceFlag

	// NetInfo is the summary of reachable networks for the getnetworkinfo
	// networks field.
	NetInfo []types.NetworksResult
}

// Server provides the handlers for the network-facing portion of the
// JSON-RPC command set.
type Server struct {
	cfg Config
}

// NewServer returns a new instance of the Server struct.
func NewServer(cfg *Config) *Server {
	return &Server{cfg: *cfg}
}

// commandHandler describes a callback function used to handle a specific
// command.
type commandHandler func(context.Context, *Server, interface{}) (interface{}, error)

// handlers maps network RPC command strings to appropriate handler
// functions.
var handlers = map[types.Method]commandHandler{
	"addnode":            handleAddNode,
	"clearbanned":        handleClearBanned,
	"disconnectnode":     handleDisconnectNode,
	"getconnectioncount": handleGetConnectionCount,
	"getnettotals":       handleGetNetTotals,
	"getnetworkinfo":     handleGetNetworkInfo,
	"getpeerinfo":        handleGetPeerInfo,
	"listbanned":         handleListBanned,
	"ping":               handlePing,
	"setban":             handleSetBan,
}

// HandleCommand dispatches the provided parsed command to its handler.  The
// command must be one of the concrete command types registered by the
// rpc/jsonrpc/types package.
func (s *Server) HandleCommand(ctx context.Context, method types.Method, cmd interface{}) (interface{}, error) {
	handler, ok := handlers[method]
	if !ok {
		return nil, dcrjson.ErrRPCMethodNotFound
	}
	return handler(ctx, s, cmd)
}

// rpcInternalError is a convenience function to convert an internal error to
// an RPC error with the appropriate code set.  It also logs the error to the
// RPC server subsystem since internal errors really should not occur.  The
// context parameter is only used in the log message and may be empty if it's
// not needed.
func rpcInternalError(errStr, context string) *dcrjson.RPCError {
	logStr := errStr
	if context != "" {
		logStr = context + ": " + errStr
	}
	log.Error(logStr)
	return dcrjson.NewRPCError(dcrjson.ErrRPCInternal.Code, errStr)
}

// rpcInvalidError is a convenience function to convert an invalid parameter
// error to an RPC error with the appropriate code set.
func rpcInvalidError(fmtStr string, args ...interface{}) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCInvalidParameter,
		fmt.Sprintf(fmtStr, args...))
}

// rpcMiscError is a convenience function for returning a nicely formatted RPC
// error which indicates there is an unquantifiable error.  Use this sparingly;
// misc return codes are a cop out.
func rpcMiscError(message string) *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCMisc, message)
}

// rpcP2PDisabledError is a convenience function for returning the RPC error
// used by every command that requires the connection manager when none is
// configured.
func rpcP2PDisabledError() *dcrjson.RPCError {
	return dcrjson.NewRPCError(dcrjson.ErrRPCClientNotConnected,
		"Peer-to-peer functionality missing or disabled")
}

// rpcNoBanListError is a convenience function for returning the RPC error
// used by the ban commands when no ban manager is configured.
func rpcNoBanListError() *dcrjson.RPCError {
	return rpcMiscError("Error: Ban list not loaded")
}

// normalizeAddress returns the passed address with the passed default port
// appended if there is not already a port specified.
func normalizeAddress(addr string, defaultPort uint16) string {
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort(addr, strconv.Itoa(int(defaultPort)))
	}
	return addr
}

// peerExists determines if a certain peer is currently connected given
// information about all currently connected peers.
func peerExists(connMgr ConnManager, addr string) bool {
	for _, p := range connMgr.ConnectedPeers() {
		if p.Addr() == addr {
			return true
		}
	}
	return false
}

// handleAddNode handles addnode commands.
func handleAddNode(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.AddNodeCmd)

	connMgr := s.cfg.ConnMgr
	if connMgr == nil {
		return nil, rpcP2PDisabledError()
	}

	addr := normalizeAddress(c.Addr, s.cfg.DefaultPort)
	var err error
	switch c.SubCmd {
	case types.ANAdd:
		err = connMgr.Connect(addr, true)
	case types.ANRemove:
		err = connMgr.RemoveByAddr(addr)
	case types.ANOneTry:
		err = connMgr.Connect(addr, false)
	default:
		return nil, rpcInvalidError("Invalid subcommand for addnode")
	}

	if err != nil {
		return nil, rpcInvalidError("%v: %v", c.SubCmd, err)
	}

	// no data returned unless an error.
	return nil, nil
}

// handleClearBanned handles clearbanned commands.
func handleClearBanned(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	banMgr := s.cfg.BanMgr
	if banMgr == nil {
		return nil, rpcNoBanListError()
	}

	banMgr.Clear()

	// no data returned unless an error.
	return nil, nil
}

// handleDisconnectNode handles disconnectnode commands.
func handleDisconnectNode(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.DisconnectNodeCmd)

	connMgr := s.cfg.ConnMgr
	if connMgr == nil {
		return nil, rpcP2PDisabledError()
	}

	addr := normalizeAddress(c.Address, s.cfg.DefaultPort)
	if err := connMgr.DisconnectByAddr(addr); err != nil {
		if peerExists(connMgr, addr) {
			return nil, rpcMiscError("can't disconnect a permanent " +
				"peer, use addnode remove")
		}
		return nil, rpcInvalidError("%v", err)
	}

	// no data returned unless an error.
	return nil, nil
}

// handleGetConnectionCount implements the getconnectioncount command.
func handleGetConnectionCount(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	connMgr := s.cfg.ConnMgr
	if connMgr == nil {
		return nil, rpcP2PDisabledError()
	}
	return connMgr.ConnectedCount(), nil
}

// handleGetNetTotals implements the getnettotals command.
func handleGetNetTotals(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	connMgr := s.cfg.ConnMgr
	if connMgr == nil {
		return nil, rpcP2PDisabledError()
	}

	totalBytesRecv, totalBytesSent := connMgr.NetTotals()
	reply := &types.GetNetTotalsResult{
		TotalBytesRecv: totalBytesRecv,
		TotalBytesSent: totalBytesSent,
		TimeMillis:     time.Now().UTC().UnixMilli(),
	}
	return reply, nil
}

// handleGetNetworkInfo implements the getnetworkinfo command.
func handleGetNetworkInfo(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	var localAddrs []types.LocalAddressesResult
	if s.cfg.AddrManager != nil {
		lAddrs := s.cfg.AddrManager.LocalAddresses()
		localAddrs = make([]types.LocalAddressesResult, len(lAddrs))
		for idx, entry := range lAddrs {
			localAddrs[idx] = types.LocalAddressesResult{
				Address: entry.Address,
				Port:    entry.Port,
				Score:   entry.Score,
			}
		}
	}

	var offset time.Duration
	if s.cfg.TimeSource != nil {
		offset = s.cfg.TimeSource.Offset()
	}

	var connections int32
	if s.cfg.ConnMgr != nil {
		connections = s.cfg.ConnMgr.ConnectedCount()
	}

	info := types.GetNetworkInfoResult{
		Version:         s.cfg.Version,
		SubVersion:      s.cfg.UserAgent,
		ProtocolVersion: int32(s.cfg.MaxProtocolVersion),
		LocalServices:   fmt.Sprintf("%016x", uint64(s.cfg.Services)),
		TimeOffset:      int64(offset.Seconds()),
		NetworkActive:   s.cfg.ConnMgr != nil,
		Connections:     connections,
		Networks:        s.cfg.NetInfo,
		LocalAddresses:  localAddrs,
	}

	return info, nil
}

// handleGetPeerInfo implements the getpeerinfo command.
func handleGetPeerInfo(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	connMgr := s.cfg.ConnMgr
	if connMgr == nil {
		return nil, rpcP2PDisabledError()
	}

	persistent := make(map[int32]struct{})
	for _, p := range connMgr.PersistentPeers() {
		persistent[p.ID()] = struct{}{}
	}

	peers := connMgr.ConnectedPeers()
	infos := make([]*types.GetPeerInfoResult, 0, len(peers))
	for _, p := range peers {
		statsSnap := p.StatsSnapshot()
		var addrLocalStr string
		if addrLocal := p.LocalAddr(); addrLocal != nil {
			addrLocalStr = addrLocal.String()
		}
		_, addNode := persistent[statsSnap.ID]
		mn := p.Masternode()
		info := &types.GetPeerInfoResult{
			ID:             statsSnap.ID,
			Addr:           statsSnap.Addr,
			AddrLocal:      addrLocalStr,
			MappedAS:       statsSnap.MappedAS,
			Services:       fmt.Sprintf("%016x", uint64(statsSnap.Services)),
			RelayTxes:      !p.IsTxRelayDisabled(),
			LastSend:       statsSnap.LastSend.Unix(),
			LastRecv:       statsSnap.LastRecv.Unix(),
			BytesSent:      statsSnap.BytesSent,
			BytesRecv:      statsSnap.BytesRecv,
			ConnTime:       statsSnap.ConnTime.Unix(),
			TimeOffset:     statsSnap.TimeOffset,
			PingTime:       float64(statsSnap.LastPingMicros),
			Version:        statsSnap.Version,
			SubVer:         statsSnap.UserAgent,
			Inbound:        statsSnap.Inbound,
			AddNode:        addNode,
			Masternode:     mn.IsMasternode,
			StartingHeight: statsSnap.StartingHeight,
			BanScore:       int32(p.BanScore()),
		}
		if p.LastPingNonce() != 0 {
			wait := float64(time.Since(statsSnap.LastPingTime).Nanoseconds())
			// We actually want microseconds.
			info.PingWait = wait / 1000
		}
		if mn.IsMasternode && !mn.ProRegTxHash.IsZero() {
			info.MasternodeIQRConn = mn.QuorumRelay
			info.VerifMNProRegTxHash = mn.ProRegTxHash.String()
			info.VerifMNOperatorKeyHash = mn.OperatorKeyHash.String()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

// handleListBanned implements the listbanned command.
func handleListBanned(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	banMgr := s.cfg.BanMgr
	if banMgr == nil {
		return nil, rpcNoBanListError()
	}

	entries := banMgr.List()
	results := make([]types.ListBannedResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, types.ListBannedResult{
			Address:     entry.Subnet.String(),
			BannedUntil: entry.BanUntil.Unix(),
			BanCreated:  entry.CreateTime.Unix(),
			BanReason:   entry.Reason.String(),
		})
	}
	return results, nil
}

// handlePing implements the ping command.
func handlePing(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	connMgr := s.cfg.ConnMgr
	if connMgr == nil {
		return nil, rpcP2PDisabledError()
	}

	if err := connMgr.BroadcastPing(); err != nil {
		return nil, rpcInternalError(err.Error(), "Not sending ping")
	}

	// no data returned unless an error.
	return nil, nil
}

// handleSetBan implements the setban command.
func handleSetBan(_ context.Context, s *Server, cmd interface{}) (interface{}, error) {
	c := cmd.(*types.SetBanCmd)

	banMgr := s.cfg.BanMgr
	if banMgr == nil {
		return nil, rpcNoBanListError()
	}

	subnet, err := netaddr.ParseSubnet(c.Subnet)
	if err != nil || !subnet.IsValid() {
		return nil, rpcInvalidError("Error: Invalid IP/Subnet")
	}

	switch c.Command {
	case types.SBAdd:
		if banMgr.IsBannedSubnet(subnet) {
			return nil, rpcMiscError("Error: IP/Subnet already banned")
		}

		// The optional parameters have their defaults assigned during
		// command parsing.
		var banTime int64
		if c.BanTime != nil {
			banTime = *c.BanTime
		}
		var absolute bool
		if c.Absolute != nil {
			absolute = *c.Absolute
		}
		err := banMgr.Ban(subnet, banmgr.BanReasonManuallyAdded, banTime,
			absolute)
		if err != nil {
			return nil, rpcInvalidError("Error: Invalid IP/Subnet")
		}
		log.Infof("Banned subnet %s", subnet)

	case types.SBRemove:
		if !banMgr.Unban(subnet) {
			return nil, rpcMiscError("Error: Unban failed. Requested " +
				"address/subnet was not previously banned.")
		}

	default:
		return nil, rpcInvalidError("Invalid subcommand for setban")
	}

	// no data returned unless an error.
	return nil, nil
}
