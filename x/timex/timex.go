// Package timex holds the millisecond clock the services share.
package timex

import "time"

// Clock returns milliseconds on a monotonic timeline. Services take a Clock
// so tests can drive time by hand.
type Clock func() int64

var boot = time.Now()

// SinceBootMs returns milliseconds since process start (monotonic).
func SinceBootMs() int64 { return time.Since(boot).Milliseconds() }

// PeriodFromHz returns the tick period for a rate. freqHz==0 is coerced
// to 1.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Second / time.Duration(freqHz)
}

// Manual is a hand-driven Clock for tests and simulations.
type Manual struct{ ms int64 }

func (m *Manual) Now() int64              { return m.ms }
func (m *Manual) Set(ms int64)            { m.ms = ms }
func (m *Manual) Advance(d time.Duration) { m.ms += d.Milliseconds() }
