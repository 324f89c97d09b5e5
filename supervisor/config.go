package supervisor

import (
	"log/slog"
	"os"
	"time"
)

const (
	// BackendHost is the loopback address the backend always listens on.
	BackendHost = "127.0.0.1"

	// DefaultPort matches the backend binary's own default listen port.
	DefaultPort = "8000"

	// DefaultFeedURL is the release feed handed to the backend for its
	// update checks.
	DefaultFeedURL = "https://github.com/alexllenaf/INTERLENA-updates/releases/latest/download/latest.json"

	defaultReadyTimeout      = 15 * time.Second
	defaultPollInterval      = 120 * time.Millisecond
	defaultReuseProbeTimeout = 250 * time.Millisecond
	defaultStopGracePeriod   = 5 * time.Second
)

// Recorder persists the outcome of a single launch attempt. It is called
// from the startup path, so implementations should be quick; errors are
// logged by the supervisor, never fatal.
type Recorder interface {
	RecordLaunch(outcome, port, version string, readyAfter time.Duration) error
}

// Config holds all inputs to the Supervisor. Fields left at their zero
// value are defaulted by New; environment variables are only consulted in
// FromEnv, never inside the supervisor itself.
type Config struct {
	Port        string // backend TCP port, defaults to DefaultPort
	SidecarPath string // path to (or name of) the bundled backend binary
	FeedURL     string // update feed URL passed to the backend, defaults to DefaultFeedURL
	Version     string // application version passed to the backend

	ReadyTimeout      time.Duration // deadline for the post-spawn readiness poll, defaults to 15s
	PollInterval      time.Duration // sleep between probes, defaults to 120ms
	ReuseProbeTimeout time.Duration // deadline for the pre-spawn reuse probe, defaults to 250ms
	StopGracePeriod   time.Duration // wait after signalling the child before killing it, defaults to 5s

	Logger   *slog.Logger // Optional, defaults to slog.Default()
	Prober   Prober       // Optional, defaults to TCPProber
	Recorder Recorder     // Optional launch journal
}

// FromEnv builds a Config for the given sidecar binary from the process
// environment: APP_PORT selects the backend port and UPDATE_FEED_URL
// overrides the update feed passed through to the backend.
func FromEnv(sidecarPath, version string) Config {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = DefaultPort
	}
	feedURL := os.Getenv("UPDATE_FEED_URL")
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return Config{
		Port:        port,
		SidecarPath: sidecarPath,
		FeedURL:     feedURL,
		Version:     version,
	}
}
