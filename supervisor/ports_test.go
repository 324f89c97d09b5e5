package supervisor

import (
	"strconv"
	"testing"
)

func TestNewPortPickerRejectsInvalidRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"zero start", 0, 8519},
		{"zero end", 8501, 0},
		{"inverted", 8519, 8501},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPortPicker(tt.start, tt.end); err == nil {
				t.Errorf("Expected error for range %d-%d", tt.start, tt.end)
			}
		})
	}
}

func TestPortPickerPickAndRelease(t *testing.T) {
	portStr, ln := freePort(t)
	ln.Close()
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("bad port %q: %v", portStr, err)
	}

	picker, err := NewPortPicker(port, port)
	if err != nil {
		t.Fatalf("NewPortPicker: %v", err)
	}

	got, err := picker.Pick(0)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got != port {
		t.Errorf("Expected port %d, got %d", port, got)
	}

	// The single port in the range is held, so a second pick must fail.
	if _, err := picker.Pick(0); err == nil {
		t.Error("Expected Pick to fail once the range is exhausted")
	}

	picker.Release(got)
	if again, err := picker.Pick(0); err != nil || again != port {
		t.Errorf("Expected released port %d to be pickable again, got %d, %v", port, again, err)
	}
}

func TestPortPickerHonorsPreferredPort(t *testing.T) {
	preferredStr, ln := freePort(t)
	ln.Close()
	preferred, err := strconv.Atoi(preferredStr)
	if err != nil {
		t.Fatalf("bad port %q: %v", preferredStr, err)
	}

	picker, err := NewPortPicker(DefaultPortRangeStart, DefaultPortRangeEnd)
	if err != nil {
		t.Fatalf("NewPortPicker: %v", err)
	}

	got, err := picker.Pick(preferred)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got != preferred {
		t.Errorf("Expected preferred port %d, got %d", preferred, got)
	}
}

func TestPortPickerSkipsBusyPreferredPort(t *testing.T) {
	busyStr, ln := freePort(t)
	defer ln.Close() // keep the preferred port occupied
	busy, err := strconv.Atoi(busyStr)
	if err != nil {
		t.Fatalf("bad port %q: %v", busyStr, err)
	}

	picker, err := NewPortPicker(DefaultPortRangeStart, DefaultPortRangeEnd)
	if err != nil {
		t.Fatalf("NewPortPicker: %v", err)
	}

	got, err := picker.Pick(busy)
	if err != nil {
		t.Skipf("no free port in default range: %v", err)
	}
	if got == busy {
		t.Errorf("Expected a port other than busy preferred %d", busy)
	}
	if got < DefaultPortRangeStart || got > DefaultPortRangeEnd {
		t.Errorf("Expected fallback port within %d-%d, got %d", DefaultPortRangeStart, DefaultPortRangeEnd, got)
	}
}
