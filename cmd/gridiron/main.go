// Package main is a minimal driver that stands up the collaborators a
// distributed gridiron run needs — transport, worker pool, metrics
// registry — from a config.Config, and reports readiness. Wiring an
// actual Automaton flow through exec.Distributed is the caller's domain
// code; this binary exists to exercise config, comm/tcp, comm/hpc, pool,
// sys, and metrics together the way a real launcher would, not to run a
// specific task.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/clemson-cal/gridiron-go/comm"
	"github.com/clemson-cal/gridiron-go/comm/hpc"
	"github.com/clemson-cal/gridiron-go/comm/tcp"
	"github.com/clemson-cal/gridiron-go/config"
	"github.com/clemson-cal/gridiron-go/internal/nlog"
	"github.com/clemson-cal/gridiron-go/metrics"
	"github.com/clemson-cal/gridiron-go/pool"
	"github.com/clemson-cal/gridiron-go/sys"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "path to a gridiron JSON config file")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		nlog.Errorf("gridiron: %v", err)
		os.Exit(1)
	}

	p := pool.New(cfg.PoolSize, cfg.Affinity)
	defer p.Close()

	cm, closeTransport, err := dial(cfg)
	if err != nil {
		nlog.Errorf("gridiron: %v", err)
		os.Exit(1)
	}
	defer closeTransport()

	reg := prometheus.NewRegistry()
	collectors := metrics.NewCollectors("gridiron", "coordinator")
	if err := collectors.Register(reg); err != nil {
		nlog.Errorf("gridiron: registering metrics: %v", err)
		os.Exit(1)
	}

	nlog.Infof("gridiron: rank %d/%d transport=%s pool=%d workers containerized=%v numcpu=%d",
		cm.Rank(), cm.Size(), cfg.Transport, p.NumWorkers(), sys.Containerized(), sys.NumCPU())

	installSignalHandler(closeTransport)

	// A driver embedding this package as a library wires its own
	// Automaton flow and Work function here, instrumenting them with
	// metrics.WrapWork/WrapSink before handing them to exec.Distributed
	// alongside cm, p, and a coder.Coder. This binary only proves the
	// collaborators stand up and stay up.
	select {}
}

func dial(cfg config.Config) (comm.Communicator, func(), error) {
	switch cfg.Transport {
	case config.TransportHPC:
		c, err := hpc.New(cfg.Rank, cfg.Peers)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		c, err := tcp.New(cfg.Rank, cfg.Peers, tcp.OnePerDest)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
}

func installSignalHandler(closeTransport func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		closeTransport()
		os.Exit(0)
	}()
}
