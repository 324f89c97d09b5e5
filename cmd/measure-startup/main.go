// Command measure-startup times how long the backend takes to become
// network-reachable. Each round picks a free port, spawns the backend
// through the supervisor, waits for readiness, prints the latency, and
// stops the child. Results can optionally be appended to the launch
// journal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/alexllenaf/interview-atlas/journal"
	"github.com/alexllenaf/interview-atlas/supervisor"
)

func main() {
	sidecarPath := flag.String("sidecar", "interview-atlas-backend", "path to the backend binary to measure")
	rounds := flag.Int("rounds", 3, "number of launches to measure")
	timeout := flag.Duration("timeout", 15*time.Second, "readiness deadline per round")
	journalPath := flag.String("journal", "", "optional sqlite file recording each round")
	flag.Parse()

	// Keep supervisor chatter out of the measurement output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var recorder supervisor.Recorder
	if *journalPath != "" {
		j, err := journal.Open(*journalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "journal: %v\n", err)
			os.Exit(1)
		}
		defer j.Close()
		recorder = j
	}

	picker, err := supervisor.NewPortPicker(supervisor.DefaultPortRangeStart, supervisor.DefaultPortRangeEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "port picker: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	failures := 0
	for round := 1; round <= *rounds; round++ {
		port, err := picker.Pick(0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "round %d: %v\n", round, err)
			os.Exit(1)
		}

		sup := supervisor.New(supervisor.Config{
			Port:         strconv.Itoa(port),
			SidecarPath:  *sidecarPath,
			Version:      "measure",
			ReadyTimeout: *timeout,
			Logger:       logger,
			Recorder:     recorder,
		})

		start := time.Now()
		ok := sup.EnsureRunning(ctx)
		elapsed := time.Since(start)

		if ok {
			fmt.Printf("round %d: ready in %.1f ms (port %d)\n", round, float64(elapsed.Microseconds())/1000.0, port)
		} else {
			fmt.Printf("round %d: backend did not become ready within %s (port %d)\n", round, *timeout, port)
			failures++
		}

		sup.Stop()
		picker.Release(port)
	}

	if failures > 0 {
		os.Exit(1)
	}
}
