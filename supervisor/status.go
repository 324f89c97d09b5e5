package supervisor

// Status represents the lifecycle state of the backend supervision routine.
type Status int

const (
	// StatusUnchecked means no probe or spawn attempt has been made yet.
	StatusUnchecked Status = iota
	// StatusReused means an already-listening backend was detected and
	// adopted without spawning a new process.
	StatusReused
	// StatusSpawning means a backend child process has been started and is
	// being polled for readiness.
	StatusSpawning
	// StatusReady means the spawned backend opened its port within the
	// startup deadline.
	StatusReady
	// StatusFailed means the backend could not be made reachable, either
	// because the spawn failed or the startup deadline expired.
	StatusFailed
)

// String returns a string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusUnchecked:
		return "Unchecked"
	case StatusReused:
		return "Reused"
	case StatusSpawning:
		return "Spawning"
	case StatusReady:
		return "Ready"
	case StatusFailed:
		return "Failed"
	default:
		return "InvalidStatus"
	}
}
