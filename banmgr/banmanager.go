// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package banmgr provides a manager for tracking banned peer subnets.
package banmgr

import (
	"sort"
	"sync"
	"time"

	"github.com/TheRetroMike/mariacoin/netaddr"
)

// DefaultBanDuration is the duration a subnet stays banned for when no
// explicit ban time is provided.
const DefaultBanDuration = time.Hour * 24

// BanReason records why a subnet was added to the ban list.
type BanReason int

// Constants for the reason a subnet was banned.
const (
	// BanReasonUnknown is the reason for ban entries whose provenance has
	// been lost, such as entries loaded from an older serialization.
	BanReasonUnknown BanReason = iota

	// BanReasonNodeMisbehaving identifies bans applied automatically in
	// response to protocol misbehavior.
	BanReasonNodeMisbehaving

	// BanReasonManuallyAdded identifies bans applied by the operator.
	BanReasonManuallyAdded
)

// String returns the BanReason in human-readable form.
func (r BanReason) String() string {
	switch r {
	case BanReasonNodeMisbehaving:
		return "node misbehaving"
	case BanReasonManuallyAdded:
		return "manually added"
	}
	return "unknown"
}

// BanEntry houses a banned subnet along with the lifetime and provenance of
// the ban.
type BanEntry struct {
	// Subnet is the banned subnet.  Single-host bans are exact-match
	// subnets.
	Subnet netaddr.Subnet

	// CreateTime is the time the ban was added.
	CreateTime time.Time

	// BanUntil is the time the ban expires.
	BanUntil time.Time

	// Reason records why the ban was added.
	Reason BanReason
}

// Config is the configuration struct for the ban manager.
type Config struct {
	// DefaultBanDuration is the duration bans without an explicit ban
	// time stay active for.  A zero value means DefaultBanDuration.
	DefaultBanDuration time.Duration
}

// BanManager tracks banned subnets.  It is safe for concurrent use by
// multiple goroutines: all operations are serialized by a single mutex, so
// a ban observed by one goroutine is observed by every later admission
// check.
type BanManager struct {
	cfg    Config
	mtx    sync.Mutex
	banned map[string]BanEntry
}

// New initializes a new subnet banning manager.
func New(cfg *Config) *BanManager {
	bm := BanManager{
		cfg:    *cfg,
		banned: make(map[string]BanEntry),
	}
	if bm.cfg.DefaultBanDuration == 0 {
		bm.cfg.DefaultBanDuration = DefaultBanDuration
	}
	return &bm
}

// banUntil converts the provided ban time to the absolute expiry of a ban
// starting now.  A positive ban time is an offset in seconds, or with
// absolute set a unix timestamp taken verbatim.  A zero or negative ban
// time always means the configured default duration, even when absolute is
// set, so an omitted ban time can never produce an already-expired ban.
func (bm *BanManager) banUntil(now time.Time, banTime int64, absolute bool) time.Time {
	if banTime <= 0 {
		return now.Add(bm.cfg.DefaultBanDuration)
	}
	if absolute {
		return time.Unix(banTime, 0)
	}
	return now.Add(time.Duration(banTime) * time.Second)
}

// Ban adds the provided subnet to the ban list.  banTime is the ban
// lifetime in seconds from now; when absolute is set, banTime is instead
// the unix timestamp the ban expires at.  A zero or negative banTime means
// the configured default lifetime in either form.  Re-banning an already
// banned subnet replaces the existing entry.
func (bm *BanManager) Ban(subnet netaddr.Subnet, reason BanReason, banTime int64, absolute bool) error {
	if !subnet.IsValid() {
		return netaddr.Error{Err: netaddr.ErrInvalidSubnet,
			Description: "unable to ban invalid subnet"}
	}

	now := time.Now()
	entry := BanEntry{
		Subnet:     subnet,
		CreateTime: now,
		BanUntil:   bm.banUntil(now, banTime, absolute),
		Reason:     reason,
	}

	bm.mtx.Lock()
	bm.banned[subnet.String()] = entry
	bm.mtx.Unlock()

	log.Infof("Banned %s until %v (%s)", subnet, entry.BanUntil,
		reason)
	return nil
}

// BanAddress adds the exact-match subnet of the provided address to the ban
// list.  See Ban for the ban time semantics.
func (bm *BanManager) BanAddress(addr netaddr.NetAddress, reason BanReason, banTime int64, absolute bool) error {
	return bm.Ban(netaddr.NewSubnetFromAddress(addr), reason, banTime,
		absolute)
}

// Unban removes the provided subnet from the ban list and returns whether
// an entry was removed.  Only the identical subnet is removed; unbanning a
// single address does not carve it out of a wider banned subnet.
func (bm *BanManager) Unban(subnet netaddr.Subnet) bool {
	key := subnet.String()

	bm.mtx.Lock()
	_, exists := bm.banned[key]
	if exists {
		delete(bm.banned, key)
	}
	bm.mtx.Unlock()

	if exists {
		log.Infof("Removed ban for %s", subnet)
	}
	return exists
}

// UnbanAddress removes the exact-match subnet of the provided address from
// the ban list and returns whether an entry was removed.
func (bm *BanManager) UnbanAddress(addr netaddr.NetAddress) bool {
	return bm.Unban(netaddr.NewSubnetFromAddress(addr))
}

// IsBanned returns whether the provided address is covered by any active
// ban.  Expired entries encountered during the scan are purged.
func (bm *BanManager) IsBanned(addr netaddr.NetAddress) bool {
	now := time.Now()

	bm.mtx.Lock()
	defer bm.mtx.Unlock()

	banned := false
	for key, entry := range bm.banned {
		if !now.Before(entry.BanUntil) {
			delete(bm.banned, key)
			log.Debugf("Expired ban for %s", key)
			continue
		}
		if entry.Subnet.Matches(addr) {
			banned = true
		}
	}
	return banned
}

// IsBannedSubnet returns whether the identical subnet has an active ban
// entry.  It does not consider overlap with wider or narrower bans.
func (bm *BanManager) IsBannedSubnet(subnet netaddr.Subnet) bool {
	now := time.Now()
	key := subnet.String()

	bm.mtx.Lock()
	defer bm.mtx.Unlock()

	entry, exists := bm.banned[key]
	if !exists {
		return false
	}
	if !now.Before(entry.BanUntil) {
		delete(bm.banned, key)
		return false
	}
	return true
}

// Clear removes every entry from the ban list.
func (bm *BanManager) Clear() {
	bm.mtx.Lock()
	bm.banned = make(map[string]BanEntry)
	bm.mtx.Unlock()

	log.Infof("Cleared all banned subnets")
}

// List returns a snapshot of the active ban entries sorted by subnet.
// Expired entries are purged rather than returned.
func (bm *BanManager) List() []BanEntry {
	now := time.Now()

	bm.mtx.Lock()
	entries := make([]BanEntry, 0, len(bm.banned))
	for key, entry := range bm.banned {
		if !now.Before(entry.BanUntil) {
			delete(bm.banned, key)
			continue
		}
		entries = append(entries, entry)
	}
	bm.mtx.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Subnet.String() < entries[j].Subnet.String()
	})
	return entries
}
