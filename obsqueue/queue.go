/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package obsqueue implements the bounded, multi-producer/single-consumer
// queue that sits between the sensors and the batching sender. It is a
// fixed-capacity ring buffer (the same shape as ap_common/aputil's
// circularBuf, generalized from bytes to Observations): when full, enqueue
// evicts the oldest entry to make room for the newest one. The eviction and
// the insert happen under a single lock, so there is no window in which a
// freed slot can be claimed by another producer before the new item lands.
package obsqueue

import (
	"sync"
	"time"

	"netwatch/observation"
)

// Queue is a bounded FIFO of Observations with drop-oldest overflow.
// Safe for many concurrent producers; Dequeue/DequeueTimeout are meant to be
// called from a single consumer goroutine.
type Queue struct {
	mu     sync.Mutex
	buf    []observation.Observation
	head   int
	count  int
	notify chan struct{}

	onDrop func()
}

// New creates a Queue with the given capacity. onDrop, if non-nil, is called
// every time enqueue evicts an element to make room for a new one; the
// caller typically wires this to increment a status counter.
func New(capacity int, onDrop func()) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		buf:    make([]observation.Observation, capacity),
		notify: make(chan struct{}, 1),
		onDrop: onDrop,
	}
}

func (q *Queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Enqueue inserts obs at the tail of the queue. It never blocks: if the
// queue is full, the oldest element is discarded and onDrop is invoked.
func (q *Queue) Enqueue(obs observation.Observation) {
	q.mu.Lock()
	dropped := false
	if q.count == len(q.buf) {
		// Evict the head to make room. Because this happens under the
		// same lock as the insert below, no concurrent producer can
		// observe the freed slot before the new tail lands in it.
		q.head = (q.head + 1) % len(q.buf)
		q.count--
		dropped = true
	}

	tail := (q.head + q.count) % len(q.buf)
	q.buf[tail] = obs
	q.count++
	q.mu.Unlock()

	if dropped && q.onDrop != nil {
		q.onDrop()
	}
	q.wake()
}

// Shutdown is the sentinel Observation used to unblock and terminate the
// consumer. A zero-value Source distinguishes it from any real observation,
// which must always carry a non-empty Source.
var Shutdown = observation.Observation{}

// EnqueueShutdown enqueues the shutdown sentinel.
func (q *Queue) EnqueueShutdown() {
	q.Enqueue(Shutdown)
}

// IsShutdown reports whether obs is the shutdown sentinel.
func IsShutdown(obs observation.Observation) bool {
	return obs.Source == ""
}

func (q *Queue) pop() (observation.Observation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return observation.Observation{}, false
	}
	obs := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return obs, true
}

// Dequeue blocks until at least one element is available, then returns it.
func (q *Queue) Dequeue() observation.Observation {
	for {
		if obs, ok := q.pop(); ok {
			return obs
		}
		<-q.notify
	}
}

// DequeueTimeout blocks until an element is available or timeout elapses. It
// returns ok=false if the timeout expires first.
func (q *Queue) DequeueTimeout(timeout time.Duration) (obs observation.Observation, ok bool) {
	if obs, ok = q.pop(); ok {
		return obs, true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-q.notify:
			if obs, ok = q.pop(); ok {
				return obs, true
			}
		case <-timer.C:
			return observation.Observation{}, false
		}
	}
}

// Len returns the number of observations currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}
