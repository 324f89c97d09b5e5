// Package supervisor ensures the bundled backend process is reachable on
// its TCP port before the application proceeds. It reuses an already
// running backend when one is listening, otherwise spawns the sidecar
// binary, relays its output to the application log, and enforces a startup
// deadline. All failure paths resolve to a boolean result plus a logged
// diagnostic; the shell degrades instead of crashing.
package supervisor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"
)

// Supervisor drives one backend through the
// Unchecked -> {Reused | Spawning} -> {Ready | Failed} lifecycle.
type Supervisor struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	status Status
	cmd    *exec.Cmd
	exited chan struct{} // closed by the reaper once a spawned child is gone

	relayWg sync.WaitGroup
}

// New creates a Supervisor, applying defaults for unset Config fields.
func New(cfg Config) *Supervisor {
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
	}
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = defaultReadyTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.ReuseProbeTimeout == 0 {
		cfg.ReuseProbeTimeout = defaultReuseProbeTimeout
	}
	if cfg.StopGracePeriod == 0 {
		cfg.StopGracePeriod = defaultStopGracePeriod
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Prober == nil {
		cfg.Prober = TCPProber{}
	}
	return &Supervisor{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "supervisor"),
		status: StatusUnchecked,
	}
}

// Status returns the current lifecycle state thread-safely.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Supervisor) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// EnsureRunning confirms a backend is reachable on the configured port,
// spawning the sidecar if nothing is listening yet. It returns true once a
// TCP connect to the backend succeeds and false on any failure: sidecar
// resolution, spawn error, or readiness deadline expiry. It never returns
// an error; callers treat false as "proceed without the backend".
func (s *Supervisor) EnsureRunning(ctx context.Context) bool {
	start := time.Now()

	// Sub-second pre-probe: launching the shell against a backend that is
	// already listening must not spawn a duplicate process.
	if WaitUntilReady(s.cfg.Prober, BackendHost, s.cfg.Port, s.cfg.ReuseProbeTimeout, s.cfg.PollInterval) {
		s.setStatus(StatusReused)
		s.logger.Info(fmt.Sprintf("backend: reusing existing backend on %s:%s", BackendHost, s.cfg.Port))
		s.record("reused", time.Since(start))
		return true
	}

	if !s.spawn(ctx) {
		s.setStatus(StatusFailed)
		s.record("spawn_failed", time.Since(start))
		return false
	}
	s.setStatus(StatusSpawning)

	if !WaitUntilReady(s.cfg.Prober, BackendHost, s.cfg.Port, s.cfg.ReadyTimeout, s.cfg.PollInterval) {
		s.logger.Error(fmt.Sprintf("backend: sidecar did not become ready on %s:%s within %s", BackendHost, s.cfg.Port, s.cfg.ReadyTimeout))
		s.setStatus(StatusFailed)
		s.record("timeout", time.Since(start))
		return false
	}

	s.setStatus(StatusReady)
	s.logger.Info(fmt.Sprintf("backend: ready on %s:%s after %s", BackendHost, s.cfg.Port, time.Since(start).Round(time.Millisecond)))
	s.record("ready", time.Since(start))
	return true
}

// spawn resolves and starts the sidecar binary and wires up the output
// relay and reaper goroutines. It returns false if the binary cannot be
// resolved or the process cannot be started; it does not wait for
// readiness.
func (s *Supervisor) spawn(ctx context.Context) bool {
	if s.cfg.SidecarPath == "" {
		s.logger.Error("backend: no sidecar binary configured")
		return false
	}

	binPath, err := exec.LookPath(s.cfg.SidecarPath)
	if err != nil {
		s.logger.Error(fmt.Sprintf("backend: failed to resolve sidecar %q: %v", s.cfg.SidecarPath, err))
		return false
	}

	cmd := exec.CommandContext(ctx, binPath, "--host", BackendHost, "--port", s.cfg.Port)
	cmd.Env = append(os.Environ(),
		"APP_VERSION="+s.cfg.Version,
		"UPDATE_FEED_URL="+s.cfg.FeedURL,
	)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		s.logger.Error(fmt.Sprintf("backend: failed to get stdout pipe: %v", err))
		return false
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		stdoutPipe.Close()
		s.logger.Error(fmt.Sprintf("backend: failed to get stderr pipe: %v", err))
		return false
	}

	if err := cmd.Start(); err != nil {
		s.logger.Error(fmt.Sprintf("backend: failed to spawn sidecar: %v", err))
		return false
	}

	exited := make(chan struct{})
	s.mu.Lock()
	s.cmd = cmd
	s.exited = exited
	s.mu.Unlock()

	s.logger.Info(fmt.Sprintf("backend: sidecar started (pid %d), waiting for %s:%s", cmd.Process.Pid, BackendHost, s.cfg.Port))

	// Fire-and-forget relay: runs until the child closes its streams,
	// independent of readiness determination.
	s.relayWg.Add(2)
	go s.relay(stdoutPipe, "stdout")
	go s.relay(stderrPipe, "stderr")

	// Reap the child once the streams are drained.
	go func() {
		s.relayWg.Wait()
		err := cmd.Wait()
		if err != nil {
			s.logger.Info(fmt.Sprintf("backend: sidecar exited: %v", err))
		} else {
			s.logger.Info("backend: sidecar exited")
		}
		close(exited)
	}()

	return true
}

// relay forwards the child's output lines to the application log until the
// stream closes.
func (s *Supervisor) relay(r io.ReadCloser, source string) {
	defer s.relayWg.Done()
	defer r.Close()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.logger.Info("backend: " + scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		s.logger.Error(fmt.Sprintf("backend: error reading sidecar %s: %v", source, err))
	}
}

// Stop terminates a spawned backend: signal first, then kill after the
// grace period. It is a no-op when nothing was spawned (reuse path or
// failed resolution) or the child has already exited.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cmd := s.cmd
	exited := s.exited
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}
	select {
	case <-exited:
		return
	default:
	}

	s.logger.Info(fmt.Sprintf("backend: stopping sidecar (pid %d)", cmd.Process.Pid))
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		s.logger.Warn(fmt.Sprintf("backend: failed to signal sidecar: %v", err))
	}

	timer := time.NewTimer(s.cfg.StopGracePeriod)
	defer timer.Stop()
	select {
	case <-exited:
	case <-timer.C:
		s.logger.Warn("backend: sidecar did not exit after signal, killing")
		if err := cmd.Process.Kill(); err != nil {
			s.logger.Error(fmt.Sprintf("backend: failed to kill sidecar: %v", err))
			return
		}
		<-exited
	}
}

func (s *Supervisor) record(outcome string, readyAfter time.Duration) {
	if s.cfg.Recorder == nil {
		return
	}
	if err := s.cfg.Recorder.RecordLaunch(outcome, s.cfg.Port, s.cfg.Version, readyAfter); err != nil {
		s.logger.Warn(fmt.Sprintf("backend: failed to record launch attempt: %v", err))
	}
}
