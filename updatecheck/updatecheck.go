/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package updatecheck periodically polls a local version-manifest file and
// updates the shared status record with whether a newer version is
// available.
package updatecheck

import (
	"encoding/json"
	"os"
	"time"

	"netwatch/aputil"
	"netwatch/status"
)

type manifest struct {
	Version string `json:"version"`
}

// Checker polls File every Interval, comparing its version to Current.
type Checker struct {
	File     string
	Current  string
	Interval time.Duration
	Status   *status.Status
}

// Run polls until done is closed.
func (c Checker) Run(done <-chan struct{}) {
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick always updates lastUpdateCheckUtc, even when there is no manifest
// file configured or it can't be read - the tick itself is the liveness
// signal, independent of whether it found anything.
func (c Checker) tick() {
	available, version := c.check()
	c.Status.SetUpdateCheck(time.Now(), available, version)
}

func (c Checker) check() (available bool, version string) {
	if c.File == "" || !aputil.FileExists(c.File) {
		return false, ""
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return false, ""
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return false, ""
	}

	if m.Version == "" || m.Version == c.Current {
		return false, ""
	}

	return true, m.Version
}
