/*
 * COPYRIGHT 2018 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package network contains small helpers for working with the MAC and IP
// addresses that show up in observations: validating hostnames pulled out of
// DNS payloads, and normalizing hardware addresses parsed from ARP/DHCP text.
package network

import (
	"bytes"
	"net"
	"regexp"
	"strings"
)

// Well known addresses, used to filter out observations that don't describe
// a real device.
var (
	MacZero  = net.HardwareAddr([]byte{0, 0, 0, 0, 0, 0})
	MacBcast = net.HardwareAddr([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

	macMcast = net.HardwareAddr([]byte{0x01, 0x00, 0x5E})
)

// IsMacMulticast checks if the supplied MAC address begins 01:00:5E and lies
// in the IPv4 multicast range (high bit of the fourth byte clear).
func IsMacMulticast(a net.HardwareAddr) bool {
	return len(a) >= 4 && a[3]&0x80 == 0 && bytes.HasPrefix(a, macMcast)
}

// IsDeviceAddr reports whether a is plausibly a single real device's
// hardware address, as opposed to a zero, broadcast, or multicast address.
func IsDeviceAddr(a net.HardwareAddr) bool {
	if len(a) == 0 {
		return false
	}
	return !bytes.Equal(a, MacZero) && !bytes.Equal(a, MacBcast) && !IsMacMulticast(a)
}

// NormalizeMAC parses a MAC address string and re-renders it in the
// canonical colon-separated lowercase hex form used throughout observations.
// It returns "" if s does not parse as a hardware address, or if the parsed
// address isn't a real device address (see IsDeviceAddr).
func NormalizeMAC(s string) string {
	hwaddr, err := net.ParseMAC(s)
	if err != nil || !IsDeviceAddr(hwaddr) {
		return ""
	}
	return hwaddr.String()
}

var legalHostname = regexp.MustCompile(`^([a-z0-9]|[a-z0-9][a-z0-9\-]*[a-z0-9])$`)

// ValidHostname checks whether the provided hostname is RFC1123-compliant.
// A hostname may contain only letters, digits, and hyphens.  It may neither
// start nor end with hyphen.
func ValidHostname(hostname string) bool {
	if len(hostname) == 0 || len(hostname) > 63 {
		return false
	}

	lower := []byte(strings.ToLower(hostname))
	return legalHostname.Match(lower)
}

var legalDNSlabel = regexp.MustCompile(`^([a-z0-9_]|[_a-z0-9][_a-z0-9\-]*[_a-z0-9])$`)
var minimalDNSlabel = regexp.MustCompile(`[a-z0-9]`)

// ValidDNSLabel checks whether the provided string is a valid DNS label.
func ValidDNSLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}

	lower := []byte(strings.ToLower(label))
	return legalDNSlabel.Match(lower) && minimalDNSlabel.Match(lower)
}

// ValidDNSName checks whether the provided name is a valid DNS name.  A DNS
// name may have multiple labels.  Each label must satisfy the same
// constraints as a hostname, but the underscore character may be used
// anywhere, since service-discovery names like "_services._dns-sd._udp.local"
// rely on it.
func ValidDNSName(name string) bool {
	if name == "" {
		return false
	}
	labels := strings.Split(name, ".")
	for _, label := range labels {
		if !ValidDNSLabel(label) {
			return false
		}
	}

	return true
}
