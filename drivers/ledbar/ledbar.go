// Package ledbar drives a row of discrete LEDs as a bar graph.
package ledbar

import (
	"envpanel-go/errcode"
	"envpanel-go/x/mathx"
)

// MaxLEDs bounds the bar length.
const MaxLEDs = 8

// Pin is one LED output. machine.Pin satisfies it on the MCU.
type Pin interface {
	Set(on bool)
}

type Bar struct {
	pins  []Pin
	state []bool
	level uint8
	init  bool
}

func New(pins ...Pin) (*Bar, error) {
	if len(pins) == 0 || len(pins) > MaxLEDs {
		return nil, errcode.Wrap(errcode.InvalidParams, "ledbar.New", "need 1..8 pins", nil)
	}
	for _, p := range pins {
		if p == nil {
			return nil, errcode.Wrap(errcode.InvalidParams, "ledbar.New", "nil pin", nil)
		}
	}
	return &Bar{pins: pins, state: make([]bool, len(pins))}, nil
}

// Len is the number of LEDs in the bar.
func (b *Bar) Len() int { return len(b.pins) }

// Level is the last level set.
func (b *Bar) Level() uint8 { return b.level }

// SetLevel lights the first n LEDs and turns the rest off. n is clamped to
// Len. Only pins whose state changes are written, except on the first call.
func (b *Bar) SetLevel(n uint8) {
	n = mathx.Min(n, uint8(len(b.pins)))
	for i, p := range b.pins {
		on := i < int(n)
		if b.init && b.state[i] == on {
			continue
		}
		p.Set(on)
		b.state[i] = on
	}
	b.init = true
	b.level = n
}

// LevelFromPercent scales 0..100 onto 0..n LEDs. The step is 100/(n+1), so
// the top LED needs more than n/(n+1) of full scale and 0% is always dark.
func LevelFromPercent(pct uint32, n int) uint8 {
	if n <= 0 {
		return 0
	}
	pct = mathx.Min(pct, 100)
	step := mathx.Max(uint32(100/(n+1)), 1)
	return uint8(mathx.Min(pct/step, uint32(n)))
}
