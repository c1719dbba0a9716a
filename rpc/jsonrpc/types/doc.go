// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package types implements concrete types for marshalling to and from the
network-facing JSON-RPC commands, return values, and notifications.  When
communicating via the JSON-RPC protocol, all commands and results are
marshalled into valid JSON-RPC request and response objects.

The types in this package are registered with the dcrjson package at init
time so callers can use dcrjson.MarshalCmd and dcrjson.ParseParams with the
method names directly.
*/
package types
