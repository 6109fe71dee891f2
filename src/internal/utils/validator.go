/*
The MIT License (MIT)

Copyright (c) 2014-2020 Alex Saskevich

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

Credits: https://github.com/asaskevich/govalidator
*/

package utils

import (
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

var rxDNSName = regexp.MustCompile(`^([a-zA-Z0-9_]{1}[a-zA-Z0-9_-]{0,62}){1}(\.[a-zA-Z0-9_]{1}[a-zA-Z0-9_-]{0,62})*[\._]?$`)

// IsDNSName will validate the given string as a DNS name
func IsDNSName(str string) bool {
	if str == "" || len(str) > 253 {
		// constraints already violated
		return false
	}
	return !IsIP(str) && rxDNSName.MatchString(str)
}

// IsIP reports whether str is an IPv4 or IPv6 literal (zones are rejected).
func IsIP(str string) bool {
	addr, err := netip.ParseAddr(str)
	return err == nil && addr.Zone() == ""
}

// IsIPv4 reports whether str is an IPv4 literal. IPv4-mapped IPv6 is not IPv4.
func IsIPv4(str string) bool {
	addr, err := netip.ParseAddr(str)
	return err == nil && addr.Is4()
}

// IsIPv6 reports whether str is an IPv6 literal, optionally wrapped in brackets.
func IsIPv6(str string) bool {
	str = strings.TrimSuffix(strings.TrimPrefix(str, "["), "]")
	addr, err := netip.ParseAddr(str)
	return err == nil && addr.Is6() && addr.Zone() == ""
}

// IsValidPort checks if the given string is a valid port number (1-65535)
func IsValidPort(str string) bool {
	port, err := strconv.Atoi(str)
	return err == nil && port >= 1 && port <= 65535
}
