/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package observation defines the uniform record shape produced by every
// sensor in the agent, and carried through the queue to the batching sender.
package observation

// Observation is the atomic unit the agent produces. Every producer
// (multicast listeners, the ARP and DHCP pollers, the self-heartbeat) builds
// one of these and hands it to the queue. An Observation is immutable once
// built: nothing downstream of enqueue ever mutates it.
type Observation struct {
	// Source identifies the producer that generated this observation.
	// It is the only required field.
	Source string `json:"source"`

	IPAddress   string `json:"ipAddress,omitempty"`
	MACAddress  string `json:"macAddress,omitempty"`
	Hostname    string `json:"hostname,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	TypeHint    string `json:"typeHint,omitempty"`
	ServiceHint string `json:"serviceHint,omitempty"`
}

// Known source tags.
const (
	SourceMDNS        = "mdns"
	SourceLLMNR       = "llmnr"
	SourceSSDPPassive = "ssdp-passive"
	SourceARPTable    = "arp-table"
	SourceDHCPLease   = "dhcp-lease"
	SourceKaliAgent   = "kali-agent"
)
