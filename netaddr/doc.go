// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package netaddr implements the peer network-address model.

Every address a node learns about, whether from configuration, RPC
parameters, or the peer-to-peer wire protocol, is normalized into a single
canonical 16-byte form: IPv4 addresses are stored IPv6-mapped, v2 onion
services are stored in the OnionCat range (fd87:d87e:eb43::/48), and
internal bookkeeping names are hashed into a reserved range
(fd6b:88c0:8724::/48) that can never collide with a routable address.  Two
semantically equal addresses always compare byte-equal, so addresses can be
used directly as map keys and sorted deterministically.

The package provides classification predicates for every reserved range the
node cares about (RFC1918, RFC4193, the OnionCat block, and friends),
canonical subnet representation with contiguous-netmask validation, and the
anti-Sybil group bucketing used to diversify peer selection.  Malformed or
adversarial input never panics; it either yields a typed error or an
address/subnet value whose IsValid method reports false and which matches
nothing.
*/
package netaddr
