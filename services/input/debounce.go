// Package input turns raw falling-edge interrupts into debounced, one-shot
// button presses.
//
// Three contexts touch a Button: the edge interrupt (Edge), the periodic
// debounce timer (Tick) and the main loop (Consume/Pressed). Every
// read-modify-write of shared button state happens inside an irq section,
// which also excludes the other core.
package input

import (
	"context"
	"time"

	"envpanel-go/errcode"
	"envpanel-go/x/irq"
)

// Button is the per-pin debounce state.
type Button struct {
	Pin int

	// disabledCount is decremented once per tick; edges are ignored while it
	// is non-zero.
	disabledCount uint32
	resetValue    uint32
	pressed       bool
	// stamp orders accepted edges across buttons.
	stamp uint32
}

// Debouncer owns a fixed set of buttons. The slice is never resized after
// New, so interrupt handlers can index it without locking the slice header.
type Debouncer struct {
	buttons []Button
	stamp   uint32 // last edge stamp, guarded by irq
}

// New creates one Button per pin with a debounce window of resetTicks timer
// ticks. resetTicks == 0 disables debouncing.
func New(pins []int, resetTicks uint32) (*Debouncer, error) {
	if len(pins) == 0 {
		return nil, errcode.Wrap(errcode.InvalidParams, "input.New", "no buttons", nil)
	}
	d := &Debouncer{buttons: make([]Button, len(pins))}
	for i, p := range pins {
		for j := 0; j < i; j++ {
			if pins[j] == p {
				return nil, errcode.Wrap(errcode.InvalidParams, "input.New", "duplicate pin", nil)
			}
		}
		d.buttons[i] = Button{Pin: p, resetValue: resetTicks}
	}
	return d, nil
}

// Len returns the number of buttons.
func (d *Debouncer) Len() int { return len(d.buttons) }

// Index returns the button index for a pin.
func (d *Debouncer) Index(pin int) (int, bool) {
	for i := range d.buttons {
		if d.buttons[i].Pin == pin {
			return i, true
		}
	}
	return -1, false
}

// Tick runs from the periodic debounce timer.
func (d *Debouncer) Tick() {
	s := irq.Disable()
	for i := range d.buttons {
		if b := &d.buttons[i]; b.disabledCount > 0 {
			b.disabledCount--
		}
	}
	irq.Restore(s)
}

// RunTicker calls Tick once per period until ctx is done. It stands in for
// the periodic timer interrupt.
func (d *Debouncer) RunTicker(ctx context.Context, period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			d.Tick()
		}
	}
}

// Edge runs from the falling-edge interrupt for pin. It reports whether the
// edge was accepted as a new press. Must not block or allocate.
func (d *Debouncer) Edge(pin int) bool {
	accepted := false
	s := irq.Disable()
	for i := range d.buttons {
		b := &d.buttons[i]
		if b.Pin != pin {
			continue
		}
		if b.disabledCount == 0 {
			d.stamp++
			b.stamp = d.stamp
			b.pressed = true
			b.disabledCount = b.resetValue
			accepted = true
		}
		break
	}
	irq.Restore(s)
	return accepted
}

// Pressed reads and clears the press flag of button idx.
func (d *Debouncer) Pressed(idx int) bool {
	if idx < 0 || idx >= len(d.buttons) {
		return false
	}
	s := irq.Disable()
	b := &d.buttons[idx]
	p := b.pressed
	b.pressed = false
	irq.Restore(s)
	return p
}

// maxStack is the button count Consume sorts without allocating.
const maxStack = 8

type press struct {
	idx   int
	stamp uint32
}

// Consume reads and clears every pressed button in one critical section and
// calls fn once per press, in the order the edges were accepted. fn runs with
// interrupts enabled.
func (d *Debouncer) Consume(fn func(idx int)) int {
	var stack [maxStack]press
	got := stack[:0]
	if len(d.buttons) > maxStack {
		got = make([]press, 0, len(d.buttons))
	}

	s := irq.Disable()
	for i := range d.buttons {
		if b := &d.buttons[i]; b.pressed {
			b.pressed = false
			got = append(got, press{i, b.stamp})
		}
	}
	irq.Restore(s)

	// Insertion sort; stamps compare modulo 2^32 so wraparound keeps order.
	for i := 1; i < len(got); i++ {
		for j := i; j > 0 && int32(got[j].stamp-got[j-1].stamp) < 0; j-- {
			got[j], got[j-1] = got[j-1], got[j]
		}
	}
	for _, p := range got {
		fn(p.idx)
	}
	return len(got)
}
