package checkout

import (
	"sync"
	"time"
)

// DefaultScanCooldown is how long scanning stays disabled after a scan
// finished.
const DefaultScanCooldown = time.Second

// ScanGate lets one scan through at a time and keeps the gate closed for a
// cooldown after the scan completes, whatever its result.
type ScanGate struct {
	mu        sync.Mutex
	busy      bool
	cooldown  time.Duration
	afterFunc func(d time.Duration, f func())
}

func NewScanGate(cooldown time.Duration) *ScanGate {
	return &ScanGate{
		cooldown: cooldown,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// TryAcquire closes the gate. It returns false when a scan is in flight or
// cooling down; the caller must then ignore the scan.
func (g *ScanGate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Release reopens the gate once the cooldown elapsed.
func (g *ScanGate) Release() {
	if g.cooldown <= 0 {
		g.open()
		return
	}
	g.afterFunc(g.cooldown, g.open)
}

// Busy reports whether scans are currently ignored.
func (g *ScanGate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

func (g *ScanGate) open() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
