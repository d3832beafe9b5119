// Package irq provides the critical section shared by interrupt handlers,
// timer callbacks and service goroutines:
//
//	s := irq.Disable()
//	// read-modify-write shared state
//	irq.Restore(s)
//
// On RP2040/RP2350 goroutines may run on either core, so masking interrupts
// alone is not enough. Disable masks interrupts on the calling core and then
// takes one global spinlock, which also excludes the other core. Sections
// must not nest and should stay a few loads and stores long; the other core
// busy-waits for the whole section.
package irq
