// Copyright (c) 2024 The MARIA developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import "testing"

// TestValidateIP ensures acceptable masternode service addresses are
// well-formed routable literals and everything else is rejected.
func TestValidateIP(t *testing.T) {
	valid := []string{
		// IPv4.
		"11.12.13.14",
		"50.168.168.150",
		"72.31.250.250",

		// IPv6.
		"1111:2222:3333:4444:5555:6666::8888",
		"2001:0002:6c::430",
		"2002:cb0a:3cdd:1::1",

		// Onion, both as hostname and onion-cat literal.
		"5wyqrzbvrdsumnok.onion",
		"FD87:D87E:EB43:edb1:8e4:3588:e546:35ca",
	}
	for _, text := range valid {
		if !ValidateIP(text) {
			t.Errorf("%q: acceptable address rejected", text)
		}
	}

	invalid := []string{
		// Malformed IPv4.
		"11.12.13.14.15",
		"11.12.13.330",
		"30.168.1.255.1",

		// Private and broadcast IPv4.
		"192.168.1.1",
		"10.1.2.3",
		"255.255.255.255",

		// Malformed IPv6.
		"1111:2222:3333:4444:5555:6666:7777:8888:9999",
		"2002:cb0a:3cdd::1::1",
		"1111:2222:3333:::5555:6666:7777:8888",

		// Malformed onion and unroutable space.
		"5wyqrzbvrdsumnok.noonion",
		"127.0.0.1",
		"::1",
		"fe80::1",
		"",
	}
	for _, text := range invalid {
		if ValidateIP(text) {
			t.Errorf("%q: unacceptable address accepted", text)
		}
	}
}
