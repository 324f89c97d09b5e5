package supervisor

import (
	"fmt"
	"net"
	"sync"
)

// Default scan range for development ports. The shell itself always uses
// the configured APP_PORT; this range serves tooling that needs a free
// port, like the startup measurement command.
const (
	DefaultPortRangeStart = 8501
	DefaultPortRangeEnd   = 8519
)

// PortPicker finds free TCP ports on the loopback interface within a fixed
// range. Availability is verified by actually listening on the candidate
// port.
type PortPicker struct {
	mu    sync.Mutex
	start int
	end   int
	taken map[int]bool
}

// NewPortPicker creates a PortPicker for the inclusive range [start, end].
func NewPortPicker(start, end int) (*PortPicker, error) {
	if start <= 0 || end <= 0 || start > end {
		return nil, fmt.Errorf("invalid port range: %d-%d", start, end)
	}
	return &PortPicker{
		start: start,
		end:   end,
		taken: make(map[int]bool),
	}, nil
}

// Pick returns preferred when it is positive and free, otherwise the first
// free port in the range. Picked ports are held until Release so repeated
// calls hand out distinct ports even before anything listens on them.
func (p *PortPicker) Pick(preferred int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if preferred > 0 && !p.taken[preferred] && portFree(preferred) {
		p.taken[preferred] = true
		return preferred, nil
	}

	for port := p.start; port <= p.end; port++ {
		if p.taken[port] {
			continue
		}
		if portFree(port) {
			p.taken[port] = true
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free port found between %d-%d", p.start, p.end)
}

// Release marks a previously picked port as available again.
func (p *PortPicker) Release(port int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.taken, port)
}

func portFree(port int) bool {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", BackendHost, port))
	if err != nil {
		return false
	}
	l.Close()
	return true
}
