// Package diag writes a serial debug log of the samples the control loop
// drains. It listens on the bus and never touches the ring or the display,
// so a slow UART cannot stall the UI.
package diag

import (
	"context"
	"io"
	"time"

	"envpanel-go/bus"
	"envpanel-go/services/config"
	"envpanel-go/types"
	"envpanel-go/x/timex"
)

var (
	topicEnv        = bus.T("env", bus.Single)
	topicConfigDiag = config.Topic(config.SectionDiag)
)

type Service struct {
	out     io.Writer
	enabled bool
	period  time.Duration

	newest  types.Sample
	fresh   bool
	written uint32
	buf     [64]byte
}

func New(out io.Writer, cfg config.Diag) *Service {
	s := &Service{out: out}
	s.configure(cfg)
	return s
}

func (s *Service) configure(cfg config.Diag) {
	s.enabled = cfg.Enabled
	hz := cfg.RateHz
	if hz == 0 {
		hz = 5
	}
	s.period = timex.PeriodFromHz(hz)
}

// Written is the number of lines written so far.
func (s *Service) Written() uint32 { return s.written }

// Start runs the service loop in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.Run(ctx, conn)
	return nil
}

// Run logs the newest sample once per period until ctx is cancelled. A
// period with no new sample writes nothing.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	envSub := conn.Subscribe(topicEnv)
	defer conn.Unsubscribe(envSub)
	cfgSub := conn.Subscribe(topicConfigDiag)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(s.period)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: diag service stopping")
			return
		case <-tick.C:
			s.flush()
		case msg := <-envSub.Channel():
			switch p := msg.Payload.(type) {
			case types.Sample:
				s.newest, s.fresh = p, true
			case types.Mode:
				println("Info: diag: mode", p.String())
			}
		case msg := <-cfgSub.Channel():
			if c, ok := msg.Payload.(config.Diag); ok {
				s.configure(c)
				tick.Reset(s.period)
				println("Info: diag: enabled", c.Enabled, "rate", c.RateHz, "Hz")
			}
		}
	}
}

func (s *Service) flush() {
	if !s.enabled || !s.fresh {
		return
	}
	s.fresh = false
	line := FormatLine(s.buf[:0], s.newest)
	if _, err := s.out.Write(line); err != nil {
		println("Warn: diag: write failed:", err.Error())
		return
	}
	s.written++
}
