// Package control is the UI-core orchestrator. Each Step consumes debounced
// button presses, drains the sample ring, updates the UI state and LED bar,
// and hands the state to the display engine. Only WaitFirstSample blocks.
package control

import (
	"context"
	"time"

	"envpanel-go/bus"
	"envpanel-go/drivers/ledbar"
	"envpanel-go/errcode"
	"envpanel-go/services/config"
	"envpanel-go/services/display"
	"envpanel-go/services/input"
	"envpanel-go/types"
	"envpanel-go/x/mathx"
	"envpanel-go/x/shmring"
	"envpanel-go/x/timex"
)

// Bus topics owned by the control loop.
var (
	TopicSample = bus.T("env", "sample") // every drained sample
	TopicMode   = bus.T("env", "mode")   // retained, on change
)

var topicConfig = config.Topic(bus.Single)

const (
	errLine1 = "ERROR"
	errLine2 = "No sensor data"
)

// LEDSink lights the first n bar LEDs. *ledbar.Bar satisfies it.
type LEDSink interface {
	SetLevel(n uint8)
	Len() int
}

// Renderer is the display policy engine.
type Renderer interface {
	Render(st types.UIState) (bool, error)
	Force()
	Configure(cfg display.Config)
}

type Config struct {
	Period time.Duration
	// StaleAfter enters Error mode when no sample arrived for this long.
	// Zero disables the check.
	StaleAfter time.Duration
	// Raw ADC bounds mapped to 0..100% light.
	ADCMin, ADCMax uint16
	// Text view lines.
	Line1, Line2 string
}

type Deps struct {
	Ring    *shmring.Ring[types.Sample]
	Buttons *input.Debouncer
	// Actions binds button indexes to actions; missing entries do nothing.
	Actions []input.Action
	Display Renderer
	LEDs    LEDSink
	Clock   timex.Clock
	// Conn is optional. When set, drained samples and mode changes are
	// published and config/text and config/display updates are applied.
	Conn *bus.Connection
}

type Loop struct {
	cfg Config
	d   Deps

	st      types.UIState
	ledsOn  bool
	lastMs  int64 // clock time of the newest sample
	lastSeq uint64
	missed  uint64
	drained uint64
	failing bool
	cfgSub  *bus.Subscription
}

func New(cfg Config, d Deps) (*Loop, error) {
	if d.Ring == nil || d.Buttons == nil || d.Display == nil || d.LEDs == nil || d.Clock == nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "control.New", "nil dependency", nil)
	}
	if cfg.ADCMax <= cfg.ADCMin {
		return nil, errcode.Wrap(errcode.InvalidParams, "control.New", "adc bounds", nil)
	}
	if cfg.Period <= 0 {
		cfg.Period = 20 * time.Millisecond
	}
	l := &Loop{cfg: cfg, d: d, ledsOn: true}
	if d.Conn != nil {
		l.cfgSub = d.Conn.Subscribe(topicConfig)
	}
	return l, nil
}

// State returns a copy of the current UI state.
func (l *Loop) State() types.UIState { return l.st }

// LEDsOn reports whether the LED bar is enabled.
func (l *Loop) LEDsOn() bool { return l.ledsOn }

// Missed counts samples the producer numbered but the ring never delivered.
func (l *Loop) Missed() uint64 { return l.missed }

// Drained counts samples taken off the ring.
func (l *Loop) Drained() uint64 { return l.drained }

// Boot shows the loading screen and clears the LED bar.
func (l *Loop) Boot() {
	l.setMode(types.ModeLoading)
	l.d.LEDs.SetLevel(0)
	l.render()
}

// WaitFirstSample blocks until the ring delivers a sample or ctx is done,
// then switches to Normal mode and renders.
func (l *Loop) WaitFirstSample(ctx context.Context) error {
	for {
		if l.drain() {
			l.lastMs = l.d.Clock()
			l.setMode(types.ModeNormal)
			l.Step()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.d.Ring.Readable():
		}
	}
}

// Step runs one loop iteration. It never blocks.
func (l *Loop) Step() {
	l.applyConfig()
	l.d.Buttons.Consume(l.apply)

	now := l.d.Clock()
	if l.drain() {
		l.lastMs = now
		if l.st.Mode == types.ModeError {
			println("Info: control: samples resumed")
			l.setMode(types.ModeNormal)
		}
	} else if l.stale(now) {
		println("Warn: control: no sample for", (now-l.lastMs)/1000, "s")
		l.setMode(types.ModeError)
	}

	l.d.LEDs.SetLevel(l.ledLevel())
	l.render()
}

// Run boots, waits for the first sample and then steps once per period
// until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.close()

	l.Boot()
	if err := l.WaitFirstSample(ctx); err != nil {
		return err
	}
	t := time.NewTicker(l.cfg.Period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			println("Info: control loop stopping")
			return nil
		case <-t.C:
			l.Step()
		}
	}
}

func (l *Loop) close() {
	if l.cfgSub != nil {
		l.d.Conn.Unsubscribe(l.cfgSub)
		l.cfgSub = nil
	}
}

func (l *Loop) apply(idx int) {
	if idx >= len(l.d.Actions) {
		return
	}
	switch l.d.Actions[idx] {
	case input.ActionNextView:
		l.st.View = l.st.View.Next()
		l.d.Display.Force()
	case input.ActionToggleUnit:
		if l.st.Unit == types.Celsius {
			l.st.Unit = types.Fahrenheit
		} else {
			l.st.Unit = types.Celsius
		}
		l.d.Display.Force()
	case input.ActionToggleLEDs:
		l.ledsOn = !l.ledsOn
	}
}

// drain takes every published sample off the ring, forwards each to the
// bus and keeps the newest. It reports whether anything was drained.
func (l *Loop) drain() bool {
	var newest types.Sample
	got := false
	for s := range l.d.Ring.Drain() {
		if l.lastSeq != 0 && s.Seq > l.lastSeq+1 {
			l.missed += s.Seq - l.lastSeq - 1
		}
		l.lastSeq = s.Seq
		l.drained++
		if l.d.Conn != nil {
			l.d.Conn.Publish(l.d.Conn.NewMessage(TopicSample, s, false))
		}
		newest = s
		got = true
	}
	if got {
		l.st.Sample = newest
		l.st.HasSample = true
		l.st.LightPct = mathx.Percent(newest.ADCRaw, l.cfg.ADCMin, l.cfg.ADCMax)
	}
	return got
}

func (l *Loop) stale(now int64) bool {
	return l.cfg.StaleAfter > 0 &&
		l.st.Mode == types.ModeNormal &&
		now-l.lastMs > l.cfg.StaleAfter.Milliseconds()
}

func (l *Loop) setMode(m types.Mode) {
	if l.st.Mode == m && m != types.ModeLoading {
		return
	}
	l.st.Mode = m
	l.d.Display.Force()
	if l.d.Conn != nil {
		l.d.Conn.Publish(l.d.Conn.NewMessage(TopicMode, m, true))
	}
}

func (l *Loop) ledLevel() uint8 {
	if !l.ledsOn || !l.st.HasSample || l.st.Mode != types.ModeNormal {
		return 0
	}
	n := l.d.LEDs.Len()
	if l.st.View == types.ViewPhotoresistor {
		return ledbar.LevelFromPercent(uint32(l.st.LightPct), n)
	}
	if !l.st.Sample.Valid {
		return 0
	}
	return ledbar.LevelFromPercent(l.st.Sample.HumCentiPct/100, n)
}

func (l *Loop) render() {
	if l.st.Mode == types.ModeError {
		l.st.Line1, l.st.Line2 = errLine1, errLine2
	} else {
		l.st.Line1, l.st.Line2 = l.cfg.Line1, l.cfg.Line2
	}
	if _, err := l.d.Display.Render(l.st); err != nil {
		if !l.failing {
			println("Error: control: display write failed:", err.Error())
		}
		l.failing = true
		return
	}
	l.failing = false
}

// applyConfig picks up one config/text or config/display update without
// blocking. Other sections are ignored.
func (l *Loop) applyConfig() {
	if l.cfgSub == nil {
		return
	}
	select {
	case m, ok := <-l.cfgSub.Channel():
		if !ok {
			l.cfgSub = nil
			return
		}
		switch v := m.Payload.(type) {
		case config.Text:
			l.cfg.Line1, l.cfg.Line2 = v.Line1, v.Line2
		case config.Display:
			l.d.Display.Configure(display.Config{MinInterval: v.MinInterval, ADCNoise: v.ADCNoise})
		}
	default:
	}
}

var _ Renderer = (*display.Engine)(nil)
