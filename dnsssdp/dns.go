/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

package dnsssdp

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// DNSFields holds the handful of fields the listener pulls out of a decoded
// DNS message: the first question or answer name seen, and its record type
// rendered as a string (e.g. "A", "PTR", or the TYPEn fallback for anything
// this agent doesn't special-case).
type DNSFields struct {
	Name  string
	RType string
}

const maxPointerDepth = 5

// decodeName reads a (possibly compressed) DNS name starting at offset off
// in buf. It returns the joined dotted name and the offset immediately past
// the name as it appears in the message (i.e. not following any pointer).
// An out-of-bounds read (truncated label, dangling pointer, or a pointer
// chain that exceeds maxPointerDepth) stops decoding and returns whatever
// labels were collected before that point, rather than discarding them.
func decodeName(buf []byte, off int) (name string, next int) {
	var labels []string
	depth := 0
	cur := off
	// next tracks where the *uncompressed* portion of the name ends; once we
	// follow a pointer for the first time, the caller's cursor stops there.
	followedPointer := false
	afterFirstPointer := cur

	for {
		if cur >= len(buf) {
			if !followedPointer {
				afterFirstPointer = len(buf)
			}
			break
		}
		length := int(buf[cur])

		if length == 0 {
			cur++
			if !followedPointer {
				afterFirstPointer = cur
			}
			break
		}

		if length&0xC0 == 0xC0 {
			if cur+1 >= len(buf) {
				if !followedPointer {
					afterFirstPointer = len(buf)
				}
				break
			}
			if depth >= maxPointerDepth {
				if !followedPointer {
					afterFirstPointer = cur + 2
				}
				break
			}
			ptr := (int(length&0x3F) << 8) | int(buf[cur+1])
			if !followedPointer {
				afterFirstPointer = cur + 2
				followedPointer = true
			}
			depth++
			cur = ptr
			continue
		}

		start := cur + 1
		end := start + length
		if end > len(buf) {
			if !followedPointer {
				afterFirstPointer = len(buf)
			}
			break
		}
		labels = append(labels, string(buf[start:end]))
		cur = end
	}

	if len(labels) == 0 {
		return "", afterFirstPointer
	}
	return strings.Join(labels, "."), afterFirstPointer
}

// rtypeString renders a DNS TYPE value the way the agent wants it: the
// well-known mnemonic for the handful of types it cares about, or the
// generic TYPEn fallback for everything else, including codes (e.g. NS,
// CNAME, SOA, MX, NSEC) that have a well-known mnemonic of their own — this
// agent only special-cases the five types it actually hints on.
func rtypeString(t uint16) string {
	switch t {
	case 1:
		return "A"
	case 12:
		return "PTR"
	case 16:
		return "TXT"
	case 28:
		return "AAAA"
	case 33:
		return "SRV"
	default:
		return fmt.Sprintf("TYPE%d", t)
	}
}

// ParseDNS decodes the minimum needed from a binary DNS message to produce a
// hostname/type hint: the name and type of the first question, or failing
// that, of the first answer record. It never errors; a header shorter than
// 12 bytes yields a zero-value DNSFields, and a name or type truncated
// mid-buffer yields whatever was decoded before the truncation.
func ParseDNS(msg []byte) DNSFields {
	if len(msg) < 12 {
		return DNSFields{}
	}

	qdcount := binary.BigEndian.Uint16(msg[4:6])
	ancount := binary.BigEndian.Uint16(msg[6:8])

	off := 12

	if qdcount > 0 {
		name, next := decodeName(msg, off)
		if len(msg)-next >= 4 {
			qtype := binary.BigEndian.Uint16(msg[next : next+2])
			return DNSFields{Name: name, RType: rtypeString(qtype)}
		}
		return DNSFields{Name: name}
	}

	if ancount > 0 {
		name, next := decodeName(msg, off)
		if len(msg)-next >= 10 {
			rtype := binary.BigEndian.Uint16(msg[next : next+2])
			return DNSFields{Name: name, RType: rtypeString(rtype)}
		}
		return DNSFields{Name: name}
	}

	return DNSFields{}
}
