/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package mcast runs the UDP multicast listeners that feed the agent's three
// passive sensors (mDNS, LLMNR, SSDP). The socket setup is the same shape as
// ap.relayd's initListener: a net.ListenPacket wrapped in an
// golang.org/x/net/ipv4.PacketConn, joined to its multicast group. Unlike
// relayd, this agent never forwards or re-injects traffic; each listener
// only ever turns datagrams into Observations.
package mcast

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"netwatch/aputil"
	"netwatch/dnsssdp"
	"netwatch/network"
	"netwatch/observation"
	"netwatch/obsqueue"
)

// malformedSeen suppresses repeat "couldn't parse this listener's payload"
// warnings: one per listener per window, regardless of how many malformed
// datagrams actually arrive in that window. This is a tighter, per-listener
// complement to aputil.ThrottledLogger's global exponential backoff, which
// would otherwise let a single noisy listener's delay climb to maxDelay and
// stay there even after the bad traffic stops.
var malformedSeen = cache.New(30*time.Second, time.Minute)

// BroadcastAddr is the sentinel group value meaning "no multicast group to
// join, just listen on the wildcard address".
const BroadcastAddr = "255.255.255.255"

// Listener is one configured multicast sensor: a name, the multicast group
// to join (or BroadcastAddr to skip joining), and the port to bind.
type Listener struct {
	Name  string
	Group string
	Port  int
}

// Default returns the three listeners the agent runs out of the box.
func Default() []Listener {
	return []Listener{
		{Name: observation.SourceMDNS, Group: "224.0.0.251", Port: 5353},
		{Name: observation.SourceLLMNR, Group: "224.0.0.252", Port: 5355},
		{Name: "ssdp-passive", Group: "239.255.255.250", Port: 1900},
	}
}

func reuseAddrControl(_, _ string, c syscall.RawConn) error {
	var setErr error
	err := c.Control(func(fd uintptr) {
		setErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return setErr
}

func (l Listener) open(ctx context.Context) (*ipv4.PacketConn, error) {
	lc := net.ListenConfig{Control: reuseAddrControl}

	addr := "0.0.0.0:" + strconv.Itoa(l.Port)
	c, err := lc.ListenPacket(ctx, "udp4", addr)
	if err != nil {
		return nil, err
	}

	p := ipv4.NewPacketConn(c)

	if l.Group != BroadcastAddr {
		group := net.ParseIP(l.Group)
		ifaces, err := net.Interfaces()
		if err != nil {
			p.Close()
			return nil, err
		}

		joined := false
		var joinErr error
		for _, iface := range ifaces {
			if err := p.JoinGroup(&iface, &net.UDPAddr{IP: group}); err == nil {
				joined = true
			} else {
				joinErr = err
			}
		}
		if !joined {
			p.Close()
			if joinErr == nil {
				joinErr = errors.New("no interface to join group " + l.Group)
			}
			return nil, joinErr
		}
	}

	return p, nil
}

// Run listens for datagrams until the socket dies, building an Observation
// for each one and enqueueing it. Any socket error (bind failure, read
// failure) terminates the listener silently; the caller is expected to have
// started this in its own goroutine and not wait on it.
func (l Listener) Run(ctx context.Context, q *obsqueue.Queue, log *aputil.ThrottledLogger) {
	conn, err := l.open(ctx)
	if err != nil {
		if log != nil {
			log.Errorf("%s: failed to open listener: %v", l.Name, err)
		}
		return
	}
	defer conn.Close()

	buf := make([]byte, 4096)
	for {
		n, _, src, err := conn.ReadFrom(buf)
		if err != nil {
			if log != nil {
				log.Errorf("%s: listener terminating: %v", l.Name, err)
			}
			return
		}

		obs := l.buildObservation(buf[:n], src, log)
		q.Enqueue(obs)
	}
}

func hostFromAddr(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

func (l Listener) buildObservation(payload []byte, src net.Addr, log *aputil.ThrottledLogger) observation.Observation {
	obs := observation.Observation{
		Source:      l.Name,
		IPAddress:   hostFromAddr(src),
		TypeHint:    l.Name,
		ServiceHint: "udp/" + strconv.Itoa(l.Port),
	}

	switch l.Name {
	case "ssdp-passive":
		f := dnsssdp.ParseSSDP(payload)
		if f == (dnsssdp.SSDPFields{}) {
			l.logMalformed(log)
		}
		if f.Server != "" {
			obs.Vendor = f.Server
		}
		if f.ST != "" {
			obs.ServiceHint = f.ST
		}
		if f.USN != "" {
			obs.Hostname = f.USN
		}
	case observation.SourceMDNS, observation.SourceLLMNR:
		f := dnsssdp.ParseDNS(payload)
		if f == (dnsssdp.DNSFields{}) {
			l.logMalformed(log)
		}
		if f.Name != "" && network.ValidDNSName(f.Name) {
			obs.Hostname = f.Name
		}
		if f.RType != "" {
			obs.ServiceHint = f.RType
		}
	}

	return obs
}

// logMalformed warns, at most once per listener per cache window, that a
// payload failed to yield any recognizable field.
func (l Listener) logMalformed(log *aputil.ThrottledLogger) {
	if log == nil {
		return
	}
	if _, seen := malformedSeen.Get(l.Name); seen {
		return
	}
	malformedSeen.SetDefault(l.Name, struct{}{})
	log.Warnf("%s: payload did not parse as %s", l.Name, l.Name)
}
