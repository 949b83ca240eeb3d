/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package heartbeat emits the agent's own periodic liveness observation.
package heartbeat

import (
	"time"

	"netwatch/observation"
	"netwatch/obsqueue"
)

const (
	minBackoff = time.Second
	maxBackoff = 60 * time.Second
)

// Enqueuer is the subset of *obsqueue.Queue the heartbeat needs. Enqueue on
// the real queue never fails (see obsqueue), but the interface preserves
// the original agent's enqueue-can-fail/backoff structure for anything that
// wraps the queue with its own failure mode (e.g. a future bounded-memory
// guard).
type Enqueuer interface {
	Enqueue(obs observation.Observation) error
}

// QueueEnqueuer adapts *obsqueue.Queue (whose Enqueue cannot fail) to the
// Enqueuer interface.
type QueueEnqueuer struct {
	Queue *obsqueue.Queue
}

// Enqueue always succeeds: obsqueue.Queue.Enqueue never blocks and never
// returns an error.
func (q QueueEnqueuer) Enqueue(obs observation.Observation) error {
	q.Queue.Enqueue(obs)
	return nil
}

// Loop runs the self-heartbeat: every interval it enqueues a liveness
// observation. On failure it calls onError and waits out a backoff that
// starts at minBackoff and doubles on each consecutive failure (capped at
// maxBackoff); on success it resets the backoff to minBackoff and waits the
// base interval again.
type Loop struct {
	Enqueuer Enqueuer
	Interval time.Duration
	OnError  func()
}

// Run blocks until done is closed.
func (l Loop) Run(done <-chan struct{}) {
	delay := l.Interval
	if delay <= 0 {
		delay = time.Second
	}
	backoff := minBackoff

	for {
		select {
		case <-done:
			return
		case <-time.After(delay):
		}

		err := l.Enqueuer.Enqueue(observation.Observation{
			Source:   observation.SourceKaliAgent,
			Hostname: observation.SourceKaliAgent,
			TypeHint: "defensive-sensor",
		})

		if err != nil {
			if l.OnError != nil {
				l.OnError()
			}
			delay = backoff
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		} else {
			delay = l.Interval
			backoff = minBackoff
		}
	}
}
