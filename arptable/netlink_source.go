/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

package arptable

import (
	"github.com/vishvananda/netlink"
)

// netlinkSource reads the neighbor table directly through the kernel's
// netlink socket instead of shelling out to "ip neigh". It is an
// alternative to execSource; netwatchd wires execSource and does not use
// this source.
type netlinkSource struct{}

// NewNetlinkSource returns a Source backed by vishvananda/netlink's
// NeighList, covering every link and both address families.
func NewNetlinkSource() Source {
	return netlinkSource{}
}

func (netlinkSource) Neighbors() ([]Entry, error) {
	neighs, err := netlink.NeighList(0, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(neighs))
	for _, n := range neighs {
		if n.IP == nil || len(n.HardwareAddr) == 0 {
			continue
		}
		entries = append(entries, Entry{
			IP:  n.IP.String(),
			MAC: n.HardwareAddr.String(),
		})
	}

	return entries, nil
}
