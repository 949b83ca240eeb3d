/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package status holds the process-wide mutable record read by the status
// HTTP endpoint and written by producers, the sender, and the update
// checker. The monotonic counters (errors, dropped) are prometheus.Counters
// - the same primitive ap.dns4d uses for its own request/error counts -
// used here purely as an atomic cell (incremented with Inc(), read back
// through Write() in counterValue), never registered with a /metrics
// handler. Other fields are protected by a plain mutex; readers of
// Snapshot may observe a torn read across fields, which the design
// explicitly accepts for a stats endpoint.
package status

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// timeFormat is the ISO-8601 "Z" form spec.md's Status record uses for its
// UTC timestamp fields.
const timeFormat = "2006-01-02T15:04:05Z"

// Status is the shared, mutable process status.
type Status struct {
	version string

	errors  prometheus.Counter
	dropped prometheus.Counter

	mu                 sync.Mutex
	token              string
	lastPostUtc        string
	updateAvailable    bool
	updateVersion      string
	lastUpdateCheckUtc string
}

// New returns a Status for the given version string, with all counters at
// zero and all timestamps empty.
func New(version string) *Status {
	return &Status{
		version: version,
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netwatch_errors_total",
			Help: "observation send/parse/registration failures",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netwatch_dropped_total",
			Help: "observations evicted by the bounded queue",
		}),
	}
}

// IncErrors increments the errors counter.
func (s *Status) IncErrors() { s.errors.Inc() }

// IncDropped increments the dropped counter. Wired as the obsqueue.Queue's
// onDrop callback.
func (s *Status) IncDropped() { s.dropped.Inc() }

// SetLastPostUtc records the time of the most recent successful batch post.
func (s *Status) SetLastPostUtc(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPostUtc = t.UTC().Format(timeFormat)
}

// SetToken records the bearer token to attach to future requests, as
// updated by the registration bootstrap.
func (s *Status) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current bearer token, or "" if none has been issued.
func (s *Status) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetUpdateCheck records the result of one update-checker tick.
func (s *Status) SetUpdateCheck(now time.Time, available bool, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdateCheckUtc = now.UTC().Format(timeFormat)
	s.updateAvailable = available
	s.updateVersion = version
}

// counterValue reads the current value out of a prometheus.Counter via its
// Write method; this is the only way to observe a Counter's value without
// registering it with a collector/registry.
func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// Snapshot is the JSON-serializable view of Status returned by /stats.
type Snapshot struct {
	Version            string  `json:"version"`
	LastPostUtc        string  `json:"lastPostUtc,omitempty"`
	Errors             float64 `json:"errors"`
	Dropped            float64 `json:"dropped"`
	UpdateAvailable    bool    `json:"updateAvailable"`
	UpdateVersion      *string `json:"updateVersion"`
	LastUpdateCheckUtc string  `json:"lastUpdateCheckUtc,omitempty"`
}

// Snapshot returns a copy of the current status suitable for JSON encoding.
func (s *Status) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updateVersion *string
	if s.updateVersion != "" {
		updateVersion = &s.updateVersion
	}

	return Snapshot{
		Version:            s.version,
		LastPostUtc:        s.lastPostUtc,
		Errors:             counterValue(s.errors),
		Dropped:            counterValue(s.dropped),
		UpdateAvailable:    s.updateAvailable,
		UpdateVersion:      updateVersion,
		LastUpdateCheckUtc: s.lastUpdateCheckUtc,
	}
}
