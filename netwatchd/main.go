/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// netwatchd is the passive network-discovery agent: it wires together the
// sensors, the bounded queue, the batching sender, and the status endpoint,
// and runs until signaled to stop.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"netwatch/agentcfg"
	"netwatch/aputil"
	"netwatch/arptable"
	"netwatch/dhcplease"
	"netwatch/heartbeat"
	"netwatch/mcast"
	"netwatch/observation"
	"netwatch/obsqueue"
	"netwatch/registration"
	"netwatch/sender"
	"netwatch/status"
	"netwatch/statussrv"
	"netwatch/updatecheck"
)

const pname = "netwatchd"

// VERSION is the compiled-in agent version, compared against update
// manifests by the update checker.
const VERSION = "1.0.0"

var logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")

func main() {
	flag.Parse()

	slog := aputil.NewLogger(pname)
	defer slog.Sync()

	if err := aputil.LogSetLevel(*logLevel); err != nil {
		slog.Warnf("invalid -log-level %q, leaving default: %v", *logLevel, err)
	}

	cfg, err := agentcfg.Load(agentcfg.ConfigPath())
	if err != nil {
		slog.Fatalf("failed to load config: %v", err)
	}

	registration.Bootstrap(&cfg)

	st := status.New(VERSION)
	st.SetToken(cfg.Token)

	queue := obsqueue.New(cfg.QueueMax, st.IncDropped)
	done := make(chan struct{})

	send := sender.New(queue, st, slog, cfg.APIBase, cfg.HMACSecret, cfg.BatchSize, cfg.BatchIntervalSeconds)
	go send.Run()

	srv := statussrv.New(cfg.StatusHost, cfg.StatusPort, st)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			slog.Errorf("status server stopped: %v", err)
		}
	}()

	startListeners(cfg, queue, slog)
	startPollers(cfg, queue, done)

	go updatecheck.Checker{
		File:     cfg.UpdateCheckFile,
		Current:  VERSION,
		Interval: time.Duration(cfg.UpdateCheckIntervalSeconds) * time.Second,
		Status:   st,
	}.Run(done)

	go waitForSignal(slog, done, queue)

	heartbeat.Loop{
		Enqueuer: heartbeat.QueueEnqueuer{Queue: queue},
		Interval: time.Duration(cfg.IntervalSeconds) * time.Second,
		OnError:  st.IncErrors,
	}.Run(done)
}

// startListeners starts one goroutine per enabled multicast listener. A
// listener that hits a socket error terminates silently (see mcast); the
// supervisor does not restart it, per spec §9.
func startListeners(cfg agentcfg.Config, queue *obsqueue.Queue, slog *zap.SugaredLogger) {
	ctx := context.Background()
	for _, l := range mcast.Default() {
		if !listenerEnabled(cfg, l.Name) {
			continue
		}
		log := aputil.GetThrottledLogger(slog, time.Second, time.Minute)
		go l.Run(ctx, queue, log)
	}
}

func listenerEnabled(cfg agentcfg.Config, name string) bool {
	switch name {
	case observation.SourceMDNS:
		return cfg.EnableMdns
	case observation.SourceLLMNR:
		return cfg.EnableLlmnr
	case "ssdp-passive":
		return cfg.EnableSsdp
	}
	return false
}

func startPollers(cfg agentcfg.Config, queue *obsqueue.Queue, done <-chan struct{}) {
	interval := time.Duration(cfg.ArpIntervalSeconds) * time.Second

	if cfg.EnableArpTable {
		p := arptable.Poller{Source: arptable.NewExecSource(), Interval: interval}
		go p.Run(done, queue)
	}

	if cfg.EnableDhcpLease {
		p := dhcplease.Poller{Path: cfg.DhcpLeasePath, Interval: interval}
		go p.Run(done, queue)
	}
}

// waitForSignal blocks until SIGINT/SIGTERM, then closes done (stopping
// every ticker-driven goroutine) and enqueues the shutdown sentinel so the
// sender drains cleanly and the heartbeat loop in main() returns.
func waitForSignal(slog *zap.SugaredLogger, done chan struct{}, queue *obsqueue.Queue) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	slog.Infof("received signal %v, shutting down", s)
	close(done)
	queue.EnqueueShutdown()
}
