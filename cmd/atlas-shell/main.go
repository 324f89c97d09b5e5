package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexllenaf/interview-atlas/journal"
	"github.com/alexllenaf/interview-atlas/supervisor"
)

// Version is stamped at build time via -ldflags.
var Version = "0.0.0-dev"

func main() {
	sidecarPath := flag.String("sidecar", "interview-atlas-backend", "path to the bundled backend binary")
	journalPath := flag.String("journal", "", "optional sqlite file recording launch attempts")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := supervisor.FromEnv(*sidecarPath, Version)
	cfg.Logger = logger

	if *journalPath != "" {
		j, err := journal.Open(*journalPath)
		if err != nil {
			logger.Warn("Failed to open launch journal", "path", *journalPath, "error", err)
		} else {
			defer j.Close()
			cfg.Recorder = j
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sup := supervisor.New(cfg)
	if !sup.EnsureRunning(ctx) {
		// The shell keeps running; backend-dependent features will fail
		// when invoked.
		logger.Error("Desktop backend failed to initialize correctly.")
	}

	// Block until the shell is told to quit, then take the sidecar down
	// with us.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received signal, shutting down", "signal", sig.String())

	sup.Stop()
	cancel()
}
