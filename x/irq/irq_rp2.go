//go:build rp2040 || rp2350

package irq

import (
	"runtime/interrupt"
	"sync/atomic"
)

// lock excludes the other core. Interrupts are masked first so an IRQ on
// this core can never spin on a lock its own core holds.
var lock atomic.Uint32

// State is the saved interrupt mask.
type State = interrupt.State

// Disable masks interrupts on the calling core, then spins until the
// cross-core lock is free. It returns the previous mask.
func Disable() State {
	s := interrupt.Disable()
	for !lock.CompareAndSwap(0, 1) {
	}
	return s
}

// Restore releases the cross-core lock and re-applies a state returned by
// Disable.
func Restore(s State) {
	lock.Store(0)
	interrupt.Restore(s)
}
