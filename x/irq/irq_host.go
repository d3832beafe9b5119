//go:build !(rp2040 || rp2350)

package irq

import "sync"

// Host builds have no interrupt controller. "Interrupt" contexts are
// goroutines, so the mask is emulated with one global lock. Critical
// sections must not nest.
var mask sync.Mutex

type State struct{}

func Disable() State {
	mask.Lock()
	return State{}
}

func Restore(State) { mask.Unlock() }
