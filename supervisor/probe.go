package supervisor

import (
	"net"
	"time"
)

// Prober performs a single backend readiness check. The default
// implementation dials the backend's TCP port; tests can substitute
// scripted outcomes.
type Prober interface {
	// ProbeOnce attempts a single connection to host:port. It returns true
	// if the connection succeeds and false on any error. No retries.
	ProbeOnce(host, port string) bool
}

// dialProbeTimeout bounds a single connect attempt so a blackholed address
// cannot stall the poll loop past its deadline.
const dialProbeTimeout = 500 * time.Millisecond

// TCPProber probes readiness by dialing host:port.
type TCPProber struct{}

func (TCPProber) ProbeOnce(host, port string) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), dialProbeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// WaitUntilReady repeatedly probes host:port until a probe succeeds or the
// elapsed time exceeds timeout, sleeping interval between attempts. It
// returns true as soon as a probe succeeds and false once the deadline
// passes.
func WaitUntilReady(p Prober, host, port string, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if p.ProbeOnce(host, port) {
			return true
		}
		time.Sleep(interval)
	}
	return false
}
