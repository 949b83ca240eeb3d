/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package dhcplease periodically parses an ISC dhcpd-style lease file and
// turns each completed lease block into an Observation. The file is treated
// as opaque text with a documented line grammar; there is no protocol
// decoding here, only text scanning, following the same shot-per-tick,
// errors-swallowed shape as arptable's poller.
package dhcplease

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"netwatch/aputil"
	"netwatch/network"
	"netwatch/observation"
	"netwatch/obsqueue"
)

// Poller periodically reads a lease file and enqueues an Observation for
// each completed lease block it finds.
type Poller struct {
	Path     string
	Interval time.Duration
}

// Run polls until the done channel is closed.
func (p Poller) Run(done <-chan struct{}, q *obsqueue.Queue) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.tick(q)
		}
	}
}

func (p Poller) tick(q *obsqueue.Queue) {
	if !aputil.FileExists(p.Path) {
		return
	}

	f, err := os.Open(p.Path)
	if err != nil {
		return
	}
	defer f.Close()

	for _, e := range parseLeases(f) {
		q.Enqueue(observation.Observation{
			Source:     observation.SourceDHCPLease,
			IPAddress:  e.IP,
			MACAddress: e.MAC,
			TypeHint:   observation.SourceDHCPLease,
		})
	}
}

type lease struct {
	IP  string
	MAC string
}

// parseLeases scans dhcpd.leases-shaped text. No state is retained across
// blocks: an incomplete block (missing IP or MAC by the time its closing
// brace appears) is simply discarded.
func parseLeases(r io.Reader) []lease {
	var leases []lease
	var ip, mac string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "lease "):
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				ip = fields[1]
			}
		case strings.HasPrefix(trimmed, "hardware ethernet"):
			fields := strings.Fields(trimmed)
			if len(fields) >= 3 {
				mac = network.NormalizeMAC(strings.TrimSuffix(fields[2], ";"))
			}
		case trimmed == "}":
			if ip != "" && mac != "" {
				leases = append(leases, lease{IP: ip, MAC: mac})
			}
			ip, mac = "", ""
		}
	}

	return leases
}
