// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// addrcheck is a small operator tool for inspecting peer addresses: it
// classifies address literals, evaluates subnet matches, and decodes
// hex-encoded addr and addrv2 message payloads.
package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"

	"github.com/TheRetroMike/mariacoin/netaddr"
	"github.com/TheRetroMike/mariacoin/wire"
)

var log = slog.Disabled

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func usage(parser *flags.Parser) {
	parser.WriteHelp(os.Stderr)
	os.Exit(2)
}

type config struct {
	Subnet  string `short:"s" long:"subnet" description:"match each address against this subnet (CIDR, netmask literal, or bare address)"`
	Decode  string `short:"d" long:"decode" description:"treat each argument as a hex payload of the named message instead of an address literal (one of: addr, addrv2)"`
	Verbose bool   `short:"v" long:"verbose" description:"enable debug output"`
}

// rfcChecks names the special-purpose ranges an address can fall in.  The
// order follows the range tables of the netaddr package.
var rfcChecks = []struct {
	name  string
	check func(netaddr.NetAddress) bool
}{
	{"local", netaddr.NetAddress.IsLocal},
	{"RFC1918", netaddr.NetAddress.IsRFC1918},
	{"RFC2471", netaddr.NetAddress.IsRFC2471},
	{"RFC2544", netaddr.NetAddress.IsRFC2544},
	{"RFC3849", netaddr.NetAddress.IsRFC3849},
	{"RFC3927", netaddr.NetAddress.IsRFC3927},
	{"RFC3964", netaddr.NetAddress.IsRFC3964},
	{"RFC4193", netaddr.NetAddress.IsRFC4193},
	{"RFC4380", netaddr.NetAddress.IsRFC4380},
	{"RFC4843", netaddr.NetAddress.IsRFC4843},
	{"RFC4862", netaddr.NetAddress.IsRFC4862},
	{"RFC5737", netaddr.NetAddress.IsRFC5737},
	{"RFC6052", netaddr.NetAddress.IsRFC6052},
	{"RFC6145", netaddr.NetAddress.IsRFC6145},
	{"RFC6598", netaddr.NetAddress.IsRFC6598},
	{"RFC7343", netaddr.NetAddress.IsRFC7343},
}

// family returns the human readable address family name.
func family(addr netaddr.NetAddress) string {
	switch {
	case addr.IsIPv4():
		return "ipv4"
	case addr.IsOnion():
		return "onion"
	case addr.IsInternal():
		return "internal"
	}
	return "ipv6"
}

// classify prints the classification summary of a single address literal.
func classify(arg string, subnet *netaddr.Subnet) error {
	addr, err := netaddr.ParseAddress(arg)
	if err != nil {
		return err
	}

	fmt.Printf("%s:\n", addr)
	fmt.Printf("  family:   %s\n", family(addr))
	fmt.Printf("  valid:    %v\n", addr.IsValid())
	fmt.Printf("  routable: %v\n", addr.IsRoutable())
	for _, rfc := range rfcChecks {
		if rfc.check(addr) {
			fmt.Printf("  range:    %s\n", rfc.name)
		}
	}
	fmt.Printf("  group:    %x\n", addr.GroupKey(nil))
	if subnet != nil {
		fmt.Printf("  in %s: %v\n", subnet, subnet.Matches(addr))
	}
	return nil
}

// decodePayload decodes the hex payload of an addr or addrv2 message and
// prints its entries.
func decodePayload(arg, format string) error {
	payload, err := hex.DecodeString(arg)
	if err != nil {
		return fmt.Errorf("invalid hex payload: %w", err)
	}

	var list []*netaddr.NetAddress
	switch format {
	case "addr":
		msg := wire.NewMsgAddr()
		if err := msg.Decode(bytes.NewReader(payload)); err != nil {
			return err
		}
		list = msg.AddrList
	case "addrv2":
		msg := wire.NewMsgAddrV2()
		if err := msg.Decode(bytes.NewReader(payload)); err != nil {
			return err
		}
		list = msg.AddrList
	default:
		return fmt.Errorf("unknown message format %q", format)
	}

	fmt.Printf("%d entries:\n", len(list))
	for _, addr := range list {
		fmt.Printf("  %-40s services %s, stamped %s\n", addr.Key(),
			addr.Services, addr.Timestamp.UTC().Format(time.RFC3339))
	}
	return nil
}

func main() {
	var cfg config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.Usage = "[OPTIONS] address-or-payload..."
	args, err := parser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) {
			if e.Type != flags.ErrHelp {
				os.Exit(1)
			}
			os.Exit(0)
		}
		os.Exit(1)
	}

	if len(args) == 0 {
		usage(parser)
	}

	if cfg.Verbose {
		backend := slog.NewBackend(os.Stderr)
		log = backend.Logger("MAIN")
		log.SetLevel(slog.LevelDebug)
	}

	var subnet *netaddr.Subnet
	if cfg.Subnet != "" {
		s, err := netaddr.ParseSubnet(cfg.Subnet)
		if err != nil || !s.IsValid() {
			fatalf("invalid subnet %q: %v\n", cfg.Subnet, err)
		}
		log.Debugf("Matching against subnet %s", s)
		subnet = &s
	}

	failed := false
	for _, arg := range args {
		var err error
		if cfg.Decode != "" {
			err = decodePayload(arg, cfg.Decode)
		} else {
			err = classify(arg, subnet)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
