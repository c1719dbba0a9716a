// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netrpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrjson/v4"

	"github.com/TheRetroMike/mariacoin/banmgr"
	"github.com/TheRetroMike/mariacoin/blob"
	"github.com/TheRetroMike/mariacoin/netaddr"
	"github.com/TheRetroMike/mariacoin/rpc/jsonrpc/types"
)

// testPeer provides a mock peer by implementing the Peer interface.
type testPeer struct {
	addr              string
	connected         bool
	id                int32
	inbound           bool
	localAddr         net.Addr
	lastPingNonce     uint64
	isTxRelayDisabled bool
	banScore          uint32
	statsSnapshot     *PeerStats
	masternode        MasternodeInfo
}

// Addr returns a mocked peer address.
func (p *testPeer) Addr() string {
	return p.addr
}

// Connected returns a mocked bool representing whether or not the peer is
// currently connected.
func (p *testPeer) Connected() bool {
	return p.connected
}

// ID returns a mocked peer id.
func (p *testPeer) ID() int32 {
	return p.id
}

// Inbound returns a mocked bool representing whether the peer is inbound.
func (p *testPeer) Inbound() bool {
	return p.inbound
}

// StatsSnapshot returns a mocked snapshot of the current peer flags and
// statistics.
func (p *testPeer) StatsSnapshot() *PeerStats {
	return p.statsSnapshot
}

// LocalAddr returns a mocked local address of the connection.
func (p *testPeer) LocalAddr() net.Addr {
	return p.localAddr
}

// LastPingNonce returns a mocked last ping nonce of the remote peer.
func (p *testPeer) LastPingNonce() uint64 {
	return p.lastPingNonce
}

// IsTxRelayDisabled returns a mocked bool representing whether or not the
// peer has disabled transaction relay.
func (p *testPeer) IsTxRelayDisabled() bool {
	return p.isTxRelayDisabled
}

// BanScore returns a mocked ban score.
func (p *testPeer) BanScore() uint32 {
	return p.banScore
}

// Masternode returns a mocked masternode identity of the connection.
func (p *testPeer) Masternode() MasternodeInfo {
	return p.masternode
}

// testConnManager provides a mock connection manager by implementing the
// ConnManager interface.
type testConnManager struct {
	connectErr          error
	connectedAddr       string
	connectedPermanent  bool
	removeByAddrErr     error
	removedAddr         string
	disconnectByAddrErr error
	disconnectedAddr    string
	connectedCount      int32
	netTotalReceived    uint64
	netTotalSent        uint64
	connectedPeers      []Peer
	persistentPeers     []Peer
	broadcastPingErr    error
	broadcastPingCalls  int
}

// Connect provides a mock implementation for adding the provided address as
// a new outbound peer.
func (c *testConnManager) Connect(addr string, permanent bool) error {
	c.connectedAddr = addr
	c.connectedPermanent = permanent
	return c.connectErr
}

// RemoveByAddr provides a mock implementation for removing the peer
// associated with the provided address from the list of persistent peers.
func (c *testConnManager) RemoveByAddr(addr string) error {
	c.removedAddr = addr
	return c.removeByAddrErr
}

// DisconnectByAddr provides a mock implementation for disconnecting the peer
// associated with the provided address.
func (c *testConnManager) DisconnectByAddr(addr string) error {
	c.disconnectedAddr = addr
	return c.disconnectByAddrErr
}

// ConnectedCount provides a mock implementation for returning the number of
// currently connected peers.
func (c *testConnManager) ConnectedCount() int32 {
	return c.connectedCount
}

// NetTotals provides a mock implementation for returning the sum of all
// bytes received and sent across the network for all peers.
func (c *testConnManager) NetTotals() (uint64, uint64) {
	return c.netTotalReceived, c.netTotalSent
}

// ConnectedPeers provides a mock implementation for returning all connected
// peers.
func (c *testConnManager) ConnectedPeers() []Peer {
	return c.connectedPeers
}

// PersistentPeers provides a mock implementation for returning all
// persistent peers.
func (c *testConnManager) PersistentPeers() []Peer {
	return c.persistentPeers
}

// BroadcastPing provides a mock implementation for issuing a ping to all
// currently connected peers.
func (c *testConnManager) BroadcastPing() error {
	c.broadcastPingCalls++
	return c.broadcastPingErr
}

// testServer returns a server instance backed by the provided mocks with
// sensible defaults for the remaining configuration.
func testServer(connMgr ConnManager, banMgr BanManager) *Server {
	return NewServer(&Config{
		ConnMgr:            connMgr,
		BanMgr:             banMgr,
		DefaultPort:        41720,
		Version:            1000000,
		UserAgent:          "/mrd:1.0.0/",
		MaxProtocolVersion: 70926,
		Services:           netaddr.SFNodeNetwork,
	})
}

// rpcErrCode extracts the RPC error code from the provided error, or fails
// the test when the error is not an RPC error.
func rpcErrCode(t *testing.T, err error) dcrjson.RPCErrorCode {
	t.Helper()

	var rpcErr *dcrjson.RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error is not an RPC error: %v (%[1]T)", err)
	}
	return rpcErr.Code
}

// TestHandleCommandUnknownMethod ensures dispatching an unregistered method
// returns a method not found error.
func TestHandleCommandUnknownMethod(t *testing.T) {
	s := testServer(&testConnManager{}, nil)
	_, err := s.HandleCommand(context.Background(), "bogusmethod", nil)
	if !errors.Is(err, dcrjson.ErrRPCMethodNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestP2PDisabled ensures every command that requires the connection manager
// returns the client not connected error when none is configured.
func TestP2PDisabled(t *testing.T) {
	s := testServer(nil, nil)

	cmds := []struct {
		method types.Method
		cmd    interface{}
	}{
		{"addnode", types.NewAddNodeCmd("127.0.0.1", types.ANOneTry)},
		{"disconnectnode", types.NewDisconnectNodeCmd("127.0.0.1")},
		{"getconnectioncount", types.NewGetConnectionCountCmd()},
		{"getnettotals", types.NewGetNetTotalsCmd()},
		{"getpeerinfo", types.NewGetPeerInfoCmd()},
		{"ping", types.NewPingCmd()},
	}
	for _, test := range cmds {
		_, err := s.HandleCommand(context.Background(), test.method, test.cmd)
		if code := rpcErrCode(t, err); code != dcrjson.ErrRPCClientNotConnected {
			t.Errorf("%s: unexpected error code - got %d, want %d",
				test.method, code, dcrjson.ErrRPCClientNotConnected)
		}
	}
}

// TestHandleAddNode ensures the addnode subcommands are routed to the
// expected connection manager operations with normalized addresses.
func TestHandleAddNode(t *testing.T) {
	connMgr := &testConnManager{}
	s := testServer(connMgr, nil)

	// Addresses without a port have the default port appended.
	cmd := types.NewAddNodeCmd("127.0.0.1", types.ANAdd)
	if _, err := handleAddNode(context.Background(), s, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connMgr.connectedAddr != "127.0.0.1:41720" {
		t.Fatalf("unexpected connect addr: %s", connMgr.connectedAddr)
	}
	if !connMgr.connectedPermanent {
		t.Fatal("add subcommand must request a permanent peer")
	}

	cmd = types.NewAddNodeCmd("127.0.0.1:8888", types.ANOneTry)
	if _, err := handleAddNode(context.Background(), s, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connMgr.connectedAddr != "127.0.0.1:8888" {
		t.Fatalf("unexpected connect addr: %s", connMgr.connectedAddr)
	}
	if connMgr.connectedPermanent {
		t.Fatal("onetry subcommand must not request a permanent peer")
	}

	cmd = types.NewAddNodeCmd("127.0.0.1:8888", types.ANRemove)
	if _, err := handleAddNode(context.Background(), s, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connMgr.removedAddr != "127.0.0.1:8888" {
		t.Fatalf("unexpected remove addr: %s", connMgr.removedAddr)
	}

	// Connection manager failures surface as invalid parameter errors.
	connMgr.connectErr = errors.New("peer already connected")
	cmd = types.NewAddNodeCmd("127.0.0.1", types.ANAdd)
	_, err := handleAddNode(context.Background(), s, cmd)
	if code := rpcErrCode(t, err); code != dcrjson.ErrRPCInvalidParameter {
		t.Fatalf("unexpected error code - got %d, want %d", code,
			dcrjson.ErrRPCInvalidParameter)
	}
}

// TestHandleDisconnectNode ensures disconnect failures against a persistent
// peer produce the expected guidance.
func TestHandleDisconnectNode(t *testing.T) {
	connMgr := &testConnManager{}
	s := testServer(connMgr, nil)

	cmd := types.NewDisconnectNodeCmd("10.2.3.4:41720")
	if _, err := handleDisconnectNode(context.Background(), s, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connMgr.disconnectedAddr != "10.2.3.4:41720" {
		t.Fatalf("unexpected disconnect addr: %s", connMgr.disconnectedAddr)
	}

	// A failed disconnect of a peer that is still connected means the
	// peer is persistent.
	connMgr.disconnectByAddrErr = errors.New("peer is persistent")
	connMgr.connectedPeers = []Peer{&testPeer{addr: "10.2.3.4:41720"}}
	_, err := handleDisconnectNode(context.Background(), s, cmd)
	if code := rpcErrCode(t, err); code != dcrjson.ErrRPCMisc {
		t.Fatalf("unexpected error code - got %d, want %d", code,
			dcrjson.ErrRPCMisc)
	}

	// The same failure without a connected peer is an invalid parameter.
	connMgr.connectedPeers = nil
	_, err = handleDisconnectNode(context.Background(), s, cmd)
	if code := rpcErrCode(t, err); code != dcrjson.ErrRPCInvalidParameter {
		t.Fatalf("unexpected error code - got %d, want %d", code,
			dcrjson.ErrRPCInvalidParameter)
	}
}

// TestHandleGetConnectionCount ensures the connected peer count is returned
// unmodified.
func TestHandleGetConnectionCount(t *testing.T) {
	s := testServer(&testConnManager{connectedCount: 7}, nil)
	result, err := handleGetConnectionCount(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := result.(int32); count != 7 {
		t.Fatalf("unexpected count - got %d, want 7", count)
	}
}

// TestHandleGetNetTotals ensures the byte totals are reported per direction.
func TestHandleGetNetTotals(t *testing.T) {
	connMgr := &testConnManager{
		netTotalReceived: 9935,
		netTotalSent:     1331,
	}
	s := testServer(connMgr, nil)
	result, err := handleGetNetTotals(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	totals := result.(*types.GetNetTotalsResult)
	if totals.TotalBytesRecv != 9935 {
		t.Errorf("unexpected bytes received - got %d, want 9935",
			totals.TotalBytesRecv)
	}
	if totals.TotalBytesSent != 1331 {
		t.Errorf("unexpected bytes sent - got %d, want 1331",
			totals.TotalBytesSent)
	}
	if totals.TimeMillis == 0 {
		t.Error("timemillis was not populated")
	}
}

// TestHandleGetNetworkInfo ensures the static node information is rendered
// and that a missing connection manager reports an inactive network instead
// of an error.
func TestHandleGetNetworkInfo(t *testing.T) {
	s := testServer(&testConnManager{connectedCount: 3}, nil)
	result, err := handleGetNetworkInfo(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info := result.(types.GetNetworkInfoResult)
	if info.SubVersion != "/mrd:1.0.0/" {
		t.Errorf("unexpected subversion: %s", info.SubVersion)
	}
	if info.LocalServices != "0000000000000001" {
		t.Errorf("unexpected localservices: %s", info.LocalServices)
	}
	if !info.NetworkActive || info.Connections != 3 {
		t.Errorf("unexpected network state: active %v connections %d",
			info.NetworkActive, info.Connections)
	}

	s = testServer(nil, nil)
	result, err = handleGetNetworkInfo(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info = result.(types.GetNetworkInfoResult)
	if info.NetworkActive || info.Connections != 0 {
		t.Errorf("unexpected network state: active %v connections %d",
			info.NetworkActive, info.Connections)
	}
}

// TestHandleGetPeerInfo ensures peer statistics are rendered sorted by peer
// id with the masternode verification fields present only on verified
// masternode connections.
func TestHandleGetPeerInfo(t *testing.T) {
	now := time.Unix(0x61bc6649, 0)
	proRegTxHash, err := blob.NewBlob256FromString(
		"1f1e1d1c1b1a191817161514131211100f0e0d0c0b0a09080706050403020100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	operatorKeyHash, err := blob.NewBlob160FromString(
		"131211100f0e0d0c0b0a09080706050403020100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mnPeer := &testPeer{
		addr:      "10.0.0.2:41720",
		connected: true,
		id:        9,
		statsSnapshot: &PeerStats{
			ID:       9,
			Addr:     "10.0.0.2:41720",
			Services: netaddr.SFNodeNetwork,
			LastSend: now,
			LastRecv: now,
			ConnTime: now,
			Version:  70926,
		},
		masternode: MasternodeInfo{
			IsMasternode:    true,
			QuorumRelay:     true,
			ProRegTxHash:    proRegTxHash,
			OperatorKeyHash: operatorKeyHash,
		},
	}
	regularPeer := &testPeer{
		addr:      "10.0.0.3:41720",
		connected: true,
		id:        2,
		inbound:   true,
		banScore:  17,
		statsSnapshot: &PeerStats{
			ID:       2,
			Addr:     "10.0.0.3:41720",
			Inbound:  true,
			LastSend: now,
			LastRecv: now,
			ConnTime: now,
		},
	}
	connMgr := &testConnManager{
		connectedPeers:  []Peer{mnPeer, regularPeer},
		persistentPeers: []Peer{regularPeer},
	}
	s := testServer(connMgr, nil)

	result, err := handleGetPeerInfo(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	infos := result.([]*types.GetPeerInfoResult)
	if len(infos) != 2 {
		t.Fatalf("unexpected result count: %d", len(infos))
	}
	if infos[0].ID != 2 || infos[1].ID != 9 {
		t.Fatalf("results not sorted by id: %d, %d", infos[0].ID,
			infos[1].ID)
	}

	if !infos[0].Inbound || infos[0].BanScore != 17 || !infos[0].AddNode {
		t.Errorf("unexpected regular peer info: %+v", infos[0])
	}
	if infos[0].Masternode || infos[0].VerifMNProRegTxHash != "" {
		t.Errorf("regular peer has masternode fields: %+v", infos[0])
	}

	if !infos[1].Masternode || !infos[1].MasternodeIQRConn {
		t.Errorf("unexpected masternode peer info: %+v", infos[1])
	}
	if infos[1].VerifMNProRegTxHash != proRegTxHash.String() {
		t.Errorf("unexpected proregtx hash: %s",
			infos[1].VerifMNProRegTxHash)
	}
	if infos[1].VerifMNOperatorKeyHash != operatorKeyHash.String() {
		t.Errorf("unexpected operator key hash: %s",
			infos[1].VerifMNOperatorKeyHash)
	}
	if infos[1].Services != "0000000000000001" {
		t.Errorf("unexpected services: %s", infos[1].Services)
	}
}

// TestHandlePing ensures the ping request is broadcast to the connected
// peers and that broadcast failures become internal errors.
func TestHandlePing(t *testing.T) {
	connMgr := &testConnManager{}
	s := testServer(connMgr, nil)
	if _, err := handlePing(context.Background(), s, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if connMgr.broadcastPingCalls != 1 {
		t.Fatalf("unexpected broadcast count: %d",
			connMgr.broadcastPingCalls)
	}

	connMgr.broadcastPingErr = errors.New("no peers")
	_, err := handlePing(context.Background(), s, nil)
	if code := rpcErrCode(t, err); code != dcrjson.ErrRPCInternal.Code {
		t.Fatalf("unexpected error code - got %d, want %d", code,
			dcrjson.ErrRPCInternal.Code)
	}
}

// TestHandleSetBan exercises the setban add and remove subcommands against a
// real ban manager.
func TestHandleSetBan(t *testing.T) {
	banMgr := banmgr.New(&banmgr.Config{})
	s := testServer(&testConnManager{}, banMgr)

	// Adding a new subnet ban succeeds and is visible to listbanned.
	cmd := types.NewSetBanCmd("172.16.0.0/12", types.SBAdd,
		dcrjson.Int64(86400), nil)
	if _, err := handleSetBan(context.Background(), s, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := handleListBanned(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	banned := result.([]types.ListBannedResult)
	if len(banned) != 1 {
		t.Fatalf("unexpected ban list length: %d", len(banned))
	}
	if banned[0].Address != "172.16.0.0/12" {
		t.Errorf("unexpected banned address: %s", banned[0].Address)
	}
	if banned[0].BanReason != "manually added" {
		t.Errorf("unexpected ban reason: %s", banned[0].BanReason)
	}
	if banned[0].BannedUntil-banned[0].BanCreated != 86400 {
		t.Errorf("unexpected ban window: %d seconds",
			banned[0].BannedUntil-banned[0].BanCreated)
	}

	// Banning the same subnet again fails.
	_, err = handleSetBan(context.Background(), s, cmd)
	if code := rpcErrCode(t, err); code != dcrjson.ErrRPCMisc {
		t.Fatalf("unexpected error code - got %d, want %d", code,
			dcrjson.ErrRPCMisc)
	}

	// A bare address bans the exact-match subnet.
	cmd = types.NewSetBanCmd("192.168.1.9", types.SBAdd, nil, nil)
	if _, err := handleSetBan(context.Background(), s, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Removing a banned subnet succeeds exactly once.
	cmd = types.NewSetBanCmd("172.16.0.0/12", types.SBRemove, nil, nil)
	if _, err := handleSetBan(context.Background(), s, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = handleSetBan(context.Background(), s, cmd)
	if code := rpcErrCode(t, err); code != dcrjson.ErrRPCMisc {
		t.Fatalf("unexpected error code - got %d, want %d", code,
			dcrjson.ErrRPCMisc)
	}

	// Garbage input is rejected up front.
	cmd = types.NewSetBanCmd("not a subnet", types.SBAdd, nil, nil)
	_, err = handleSetBan(context.Background(), s, cmd)
	if code := rpcErrCode(t, err); code != dcrjson.ErrRPCInvalidParameter {
		t.Fatalf("unexpected error code - got %d, want %d", code,
			dcrjson.ErrRPCInvalidParameter)
	}

	// All ban commands fail without a ban manager.
	s = testServer(&testConnManager{}, nil)
	for _, method := range []types.Method{"setban", "listbanned", "clearbanned"} {
		var cmd interface{}
		if method == "setban" {
			cmd = types.NewSetBanCmd("172.16.0.0/12", types.SBAdd, nil, nil)
		}
		_, err := s.HandleCommand(context.Background(), method, cmd)
		if code := rpcErrCode(t, err); code != dcrjson.ErrRPCMisc {
			t.Errorf("%s: unexpected error code - got %d, want %d",
				method, code, dcrjson.ErrRPCMisc)
		}
	}
}

// TestHandleClearBanned ensures clearing the ban list removes all entries.
func TestHandleClearBanned(t *testing.T) {
	banMgr := banmgr.New(&banmgr.Config{})
	s := testServer(&testConnManager{}, banMgr)

	cmd := types.NewSetBanCmd("2001:db8::/32", types.SBAdd, nil, nil)
	if _, err := handleSetBan(context.Background(), s, cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := handleClearBanned(context.Background(), s, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := handleListBanned(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if banned := result.([]types.ListBannedResult); len(banned) != 0 {
		t.Fatalf("ban list not cleared: %d entries", len(banned))
	}
}
