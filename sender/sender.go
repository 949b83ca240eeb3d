/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package sender implements the single-consumer batching drain of the
// observation queue: it accumulates observations into batches (bounded by
// size or by a wall-clock window) and POSTs each batch to the collector,
// signed per reqsign, discarding on any failure.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"netwatch/observation"
	"netwatch/obsqueue"
	"netwatch/reqsign"
	"netwatch/status"
)

const (
	pollInterval = 100 * time.Millisecond
	postTimeout  = 5 * time.Second
)

// Sender drains the queue in batches and posts each one to the collector.
type Sender struct {
	Queue  *obsqueue.Queue
	Status *status.Status
	Log    *zap.SugaredLogger

	APIBase              string
	HMACSecret           string
	BatchSize            int
	BatchIntervalSeconds int

	client *http.Client
}

// New returns a Sender ready to Run.
func New(q *obsqueue.Queue, st *status.Status, log *zap.SugaredLogger, apiBase, hmacSecret string, batchSize, batchIntervalSeconds int) *Sender {
	return &Sender{
		Queue:                q,
		Status:               st,
		Log:                  log,
		APIBase:              apiBase,
		HMACSecret:           hmacSecret,
		BatchSize:            batchSize,
		BatchIntervalSeconds: batchIntervalSeconds,
		client:               &http.Client{Timeout: postTimeout},
	}
}

// Run drains the queue until a shutdown sentinel is dequeued.
func (s *Sender) Run() {
	for {
		first := s.Queue.Dequeue()
		if obsqueue.IsShutdown(first) {
			return
		}

		batch := s.collectBatch(first)
		s.post(batch)
	}
}

// collectBatch accumulates observations starting with first until the
// configured batch size is reached or the batch interval elapses.
func (s *Sender) collectBatch(first observation.Observation) []observation.Observation {
	batch := []observation.Observation{first}
	start := time.Now()

	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	window := time.Duration(s.BatchIntervalSeconds) * time.Second

	for len(batch) < batchSize && time.Since(start) < window {
		obs, ok := s.Queue.DequeueTimeout(pollInterval)
		if !ok {
			continue
		}
		if obsqueue.IsShutdown(obs) {
			// Let the next Run() iteration see the sentinel and exit; the
			// batch collected so far is still posted.
			s.Queue.EnqueueShutdown()
			break
		}
		batch = append(batch, obs)
	}

	return batch
}

func (s *Sender) post(batch []observation.Observation) {
	if len(batch) == 0 {
		return
	}

	body, err := json.Marshal(batch)
	if err != nil {
		if s.Log != nil {
			s.Log.Errorf("failed to marshal batch of %d: %v", len(batch), err)
		}
		s.Status.IncErrors()
		return
	}

	const path = "/api/observations/batch"
	req, err := http.NewRequest(http.MethodPost, s.APIBase+path, bytes.NewReader(body))
	if err != nil {
		s.Status.IncErrors()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	reqsign.Apply(req, s.HMACSecret, timestamp, body, s.Status.Token())

	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := s.client.Do(req)
	if err != nil {
		if s.Log != nil {
			s.Log.Warnf("posting batch of %d failed: %v", len(batch), err)
		}
		s.Status.IncErrors()
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if s.Log != nil {
			s.Log.Warnf("posting batch of %d rejected: %s", len(batch), resp.Status)
		}
		s.Status.IncErrors()
		return
	}

	s.Status.SetLastPostUtc(time.Now())
}
