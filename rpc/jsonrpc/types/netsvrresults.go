// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package types

// GetPeerInfoResult models the data returned from the getpeerinfo command.
type GetPeerInfoResult struct {
	ID             int32   `json:"id"`
	Addr           string  `json:"addr"`
	AddrLocal      string  `json:"addrlocal,omitempty"`
	MappedAS       uint64  `json:"mapped_as,omitempty"`
	Services       string  `json:"services"`
	RelayTxes      bool    `json:"relaytxes"`
	LastSend       int64   `json:"lastsend"`
	LastRecv       int64   `json:"lastrecv"`
	BytesSent      uint64  `json:"bytessent"`
	BytesRecv      uint64  `json:"bytesrecv"`
	ConnTime       int64   `json:"conntime"`
	TimeOffset     int64   `json:"timeoffset"`
	PingTime       float64 `json:"pingtime"`
	PingWait       float64 `json:"pingwait,omitempty"`
	Version        uint32  `json:"version"`
	SubVer         string  `json:"subver"`
	Inbound        bool    `json:"inbound"`
	AddNode        bool    `json:"addnode"`
	Masternode     bool    `json:"masternode"`
	StartingHeight int64   `json:"startingheight"`
	BanScore       int32   `json:"banscore,omitempty"`
	SyncedHeaders  int64   `json:"synced_headers,omitempty"`
	SyncedBlocks   int64   `json:"synced_blocks,omitempty"`
	Whitelisted    bool    `json:"whitelisted"`

	// The masternode quorum fields are only present on verified
	// masternode connections.
	MasternodeIQRConn      bool   `json:"masternode_iqr_conn,omitempty"`
	VerifMNProRegTxHash    string `json:"verif_mn_proreg_tx_hash,omitempty"`
	VerifMNOperatorKeyHash string `json:"verif_mn_operator_pubkey_hash,omitempty"`
}

// ListBannedResult models an entry of the data returned from the listbanned
// command.
type ListBannedResult struct {
	Address     string `json:"address"`
	BannedUntil int64  `json:"banned_until"`
	BanCreated  int64  `json:"ban_created"`
	BanReason   string `json:"ban_reason"`
}

// GetNetTotalsResult models the data returned from the getnettotals
// command.
type GetNetTotalsResult struct {
	TotalBytesRecv uint64 `json:"totalbytesrecv"`
	TotalBytesSent uint64 `json:"totalbytessent"`
	TimeMillis     int64  `json:"timemillis"`
}

// NetworksResult models the networks data of the getnetworkinfo command.
type NetworksResult struct {
	Name      string `json:"name"`
	Limited   bool   `json:"limited"`
	Reachable bool   `json:"reachable"`
	Proxy     string `json:"proxy"`
}

// LocalAddressesResult models the localaddresses data of the getnetworkinfo
// command.
type LocalAddressesResult struct {
	Address string `json:"address"`
	Port    uint16 `json:"port"`
	Score   int32  `json:"score"`
}

// GetNetworkInfoResult models the data returned from the getnetworkinfo
// command.
type GetNetworkInfoResult struct {
	Version         int32                  `json:"version"`
	SubVersion      string                 `json:"subversion"`
	ProtocolVersion int32                  `json:"protocolversion"`
	LocalServices   string                 `json:"localservices"`
	TimeOffset      int64                  `json:"timeoffset"`
	NetworkActive   bool                   `json:"networkactive"`
	Connections     int32                  `json:"connections"`
	Networks        []NetworksResult       `json:"networks"`
	LocalAddresses  []LocalAddressesResult `json:"localaddresses"`
	Warnings        string                 `json:"warnings"`
}
