/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package dnsssdp holds lenient, best-effort decoders for the two wire
// formats the multicast listener sees on the wire: SSDP's HTTP-style text
// headers, and binary DNS (RFC 1035) messages. Both decoders are built to
// degrade gracefully on truncated or malformed input rather than error out,
// since packets off the wire are never guaranteed well-formed.
package dnsssdp

import "strings"

// SSDPFields holds the handful of SSDP headers the agent cares about.
type SSDPFields struct {
	Server string
	ST     string
	USN    string
}

// ParseSSDP decodes an SSDP datagram's text headers. Input is treated as
// UTF-8, lossily. Lines are split on CR/LF; for each line containing a ":",
// the part before is the key (lowercased, trimmed) and the part after is the
// value (trimmed). Later occurrences of a header win.
func ParseSSDP(payload []byte) SSDPFields {
	var f SSDPFields

	text := string(payload)
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\r' || r == '\n' }) {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		val := strings.TrimSpace(line[idx+1:])

		switch key {
		case "server":
			f.Server = val
		case "st":
			f.ST = val
		case "usn":
			f.USN = val
		}
	}

	return f
}
