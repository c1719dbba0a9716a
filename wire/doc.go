// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the peer-to-peer address gossip serialization.

Two wire generations are supported.  The original addr format (MsgAddr)
carries every address as a fixed 16-byte field, which limits gossip to
address families that embed in IPv6.  The addrv2 format (MsgAddrV2) tags
each entry with a network identifier and a native-width address so new
families can be introduced without another format change; decoders skip
entries whose network identifier they do not recognize and keep reading
the stream.

All integers are little endian except ports, which are big endian, and
variable length integers use the compact size encoding with canonical form
enforced on decode.
*/
package wire
