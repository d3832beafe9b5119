// Package display decides when and what to draw on the 16x2 LCD.
//
// The engine keeps the last frame it wrote and only touches the hardware
// when a freshly formatted frame differs from it. Changed frames are
// rate-limited to one write per MinInterval unless a redraw was forced (a
// mode or view change); a rate-limited frame stays pending and is written by
// the first Render call after the interval, using whatever state is current
// then.
package display

import (
	"time"

	"envpanel-go/errcode"
	"envpanel-go/types"
	"envpanel-go/x/timex"
)

// LineWriter is the LCD text interface. WriteLine is synchronous.
type LineWriter interface {
	WriteLine(row uint8, text Line) error
}

type Config struct {
	// MinInterval between two hardware writes of changed content.
	MinInterval time.Duration
	// ADCNoise is the largest raw ADC delta the photoresistor view ignores.
	ADCNoise uint16
}

const (
	DefaultMinInterval = 1000 * time.Millisecond
	DefaultADCNoise    = 15
)

type Engine struct {
	out   LineWriter
	clock timex.Clock

	minIntervalMs int64
	noise         uint16

	cache    Frame
	cached   bool
	lastMs   int64
	forced   bool
	pending  bool
	renders  uint32
	failures uint32

	// Photoresistor value on screen, used for the noise threshold.
	shownADC   uint16
	shownLight uint8
	shownOK    bool
}

func New(cfg Config, out LineWriter, clock timex.Clock) (*Engine, error) {
	if out == nil || clock == nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "display.New", "nil writer or clock", nil)
	}
	e := &Engine{out: out, clock: clock}
	e.Configure(cfg)
	return e, nil
}

// Configure changes the rate limit and noise threshold. It applies from the
// next Render; a zero MinInterval means DefaultMinInterval.
func (e *Engine) Configure(cfg Config) {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	e.minIntervalMs = cfg.MinInterval.Milliseconds()
	e.noise = cfg.ADCNoise
}

// Force makes the next changed frame bypass the rate limit.
func (e *Engine) Force() { e.forced = true }

// Pending reports whether a changed frame is waiting for the rate limit.
func (e *Engine) Pending() bool { return e.pending }

// Renders is the number of successful two-line writes.
func (e *Engine) Renders() uint32 { return e.renders }

// Failures is the number of writes the LCD rejected.
func (e *Engine) Failures() uint32 { return e.failures }

// Frame returns the last frame written.
func (e *Engine) Frame() (Frame, bool) { return e.cache, e.cached }

// Render formats st and writes it if it changed and is due. It reports
// whether the hardware was written.
func (e *Engine) Render(st types.UIState) (bool, error) {
	st = e.suppressNoise(st)
	f := Format(st)

	if e.cached && f == e.cache {
		// Nothing to draw; a deferred frame has been superseded.
		e.pending = false
		e.forced = false
		return false, nil
	}

	now := e.clock()
	if e.cached && !e.forced && now-e.lastMs < e.minIntervalMs {
		e.pending = true
		return false, nil
	}

	for row := range f {
		if err := e.out.WriteLine(uint8(row), f[row]); err != nil {
			e.failures++
			e.pending = true
			return false, err
		}
	}

	e.cache = f
	e.cached = true
	e.lastMs = now
	e.forced = false
	e.pending = false
	e.renders++

	e.shownOK = isLightView(st)
	if e.shownOK {
		e.shownADC = st.Sample.ADCRaw
		e.shownLight = st.LightPct
	}
	return true, nil
}

// suppressNoise pins the photoresistor reading to the value on screen while
// the raw delta stays within the noise threshold.
func (e *Engine) suppressNoise(st types.UIState) types.UIState {
	if e.forced || !e.shownOK || !isLightView(st) {
		return st
	}
	d := int32(st.Sample.ADCRaw) - int32(e.shownADC)
	if d < 0 {
		d = -d
	}
	if d <= int32(e.noise) {
		st.Sample.ADCRaw = e.shownADC
		st.LightPct = e.shownLight
	}
	return st
}

func isLightView(st types.UIState) bool {
	return st.Mode == types.ModeNormal && st.View == types.ViewPhotoresistor && st.HasSample
}
