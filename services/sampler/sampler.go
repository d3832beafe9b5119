// Package sampler is the producer side of the sample pipeline. It runs on
// the sampling core, reads the environment sensor and the light sensor once
// per period and commits one types.Sample to the ring. It never blocks on
// the consumer: a full ring drops the sample.
package sampler

import (
	"context"
	"time"

	"envpanel-go/errcode"
	"envpanel-go/types"
	"envpanel-go/x/shmring"
	"envpanel-go/x/timex"
)

// Sensor reads temperature and humidity in hundredths. *dht20.Device
// satisfies it.
type Sensor interface {
	Measure() (tempCentiC int32, humCentiPct uint32, err error)
}

// LightSource returns a raw 12-bit photoresistor reading. It cannot fail.
type LightSource interface {
	ReadLight() uint16
}

type Config struct {
	Period time.Duration
}

type Sampler struct {
	period time.Duration
	sensor Sensor
	light  LightSource
	ring   *shmring.Ring[types.Sample]
	clock  timex.Clock

	seq       uint64
	faults    uint32
	lastFault errcode.Code
}

func New(cfg Config, sensor Sensor, light LightSource, ring *shmring.Ring[types.Sample], clock timex.Clock) (*Sampler, error) {
	if sensor == nil || light == nil || ring == nil || clock == nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "sampler.New", "nil dependency", nil)
	}
	if cfg.Period <= 0 {
		cfg.Period = time.Second
	}
	return &Sampler{
		period: cfg.Period,
		sensor: sensor,
		light:  light,
		ring:   ring,
		clock:  clock,

		lastFault: errcode.OK,
	}, nil
}

// Faults counts failed sensor reads.
func (s *Sampler) Faults() uint32 { return s.faults }

// Sample acquires one reading and commits it. It reports whether the ring
// accepted it. The sequence number advances either way, so the consumer can
// see gaps.
func (s *Sampler) Sample() bool {
	temp, hum, err := s.sensor.Measure()
	adc := s.light.ReadLight()
	s.seq++

	fault := errcode.OK
	if err != nil {
		s.faults++
		fault = errcode.MapDriverErr(err)
	}
	if fault != s.lastFault {
		if fault == errcode.OK {
			println("Info: sampler: sensor recovered")
		} else {
			println("Warn: sampler: sensor fault:", string(fault))
		}
		s.lastFault = fault
	}

	slot, ok := s.ring.TryReserve()
	if !ok {
		return false
	}
	*slot = types.Sample{
		Seq:         s.seq,
		TimestampMs: uint64(s.clock()),
		ADCRaw:      adc,
		Valid:       err == nil,
	}
	if err == nil {
		slot.TempCentiC = temp
		slot.HumCentiPct = hum
	} else {
		slot.Fault = fault
	}
	s.ring.Commit()
	return true
}

// Run samples immediately and then once per period until ctx is done.
func (s *Sampler) Run(ctx context.Context) {
	t := time.NewTicker(s.period)
	defer t.Stop()

	s.Sample()
	for {
		select {
		case <-ctx.Done():
			println("Info: sampler stopping")
			return
		case <-t.C:
			s.Sample()
		}
	}
}
