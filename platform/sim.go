//go:build !(rp2040 || rp2350)

package platform

import (
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"envpanel-go/drivers/dht20"
	"envpanel-go/services/display"
	"envpanel-go/x/mathx"
)

var errNack = errors.New("sim: i2c nack")

// SimDHT20 emulates a DHT20 on an I2C bus: it answers the status, init,
// reset and trigger commands, reports busy for the conversion time and
// returns CRC-protected frames of a slowly drifting climate.
type SimDHT20 struct {
	mu  sync.Mutex
	now func() time.Time
	rng *rand.Rand

	tempCentiC  int32
	humCentiPct uint32

	triggered time.Time
	measuring bool
	frames    int

	// CorruptEvery flips a CRC bit on every n-th frame. Zero disables.
	CorruptEvery int
}

const simConversion = 80 * time.Millisecond

func NewSimDHT20(seed uint64, now func() time.Time) *SimDHT20 {
	return &SimDHT20{
		now:         now,
		rng:         rand.New(rand.NewPCG(seed, 0x44485432)),
		tempCentiC:  2150,
		humCentiPct: 4500,
	}
}

// Tx implements drivers.I2C.
func (s *SimDHT20) Tx(addr uint16, w, r []byte) error {
	if addr != dht20.Address {
		return errNack
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	busy := s.measuring && s.now().Sub(s.triggered) < simConversion
	switch {
	case len(w) == 1 && w[0] == 0x71:
		if len(r) > 0 {
			r[0] = s.status(busy)
		}
		return nil
	case len(w) == 3 && w[0] == 0xAC:
		s.triggered = s.now()
		s.measuring = true
		s.drift()
		return nil
	case len(w) > 0:
		// Init and soft reset need no emulation.
		return nil
	}

	if len(r) == 0 {
		return nil
	}
	if busy || !s.measuring {
		r[0] = s.status(true)
		return nil
	}
	s.frame(r)
	return nil
}

func (s *SimDHT20) status(busy bool) byte {
	st := byte(0x18)
	if busy {
		st |= 0x80
	}
	return st
}

func (s *SimDHT20) drift() {
	s.tempCentiC = mathx.Clamp(s.tempCentiC+int32(s.rng.IntN(21))-10, 1500, 3000)
	s.humCentiPct = uint32(mathx.Clamp(int32(s.humCentiPct)+int32(s.rng.IntN(41))-20, 2000, 8000))
}

func (s *SimDHT20) frame(r []byte) {
	var f [7]byte
	hum := uint32(uint64(s.humCentiPct) << 20 / 10000)
	temp := uint32(uint64(s.tempCentiC+5000) << 20 / 20000)
	f[0] = s.status(false)
	f[1] = byte(hum >> 12)
	f[2] = byte(hum >> 4)
	f[3] = byte(hum<<4) | byte(temp>>16&0x0F)
	f[4] = byte(temp >> 8)
	f[5] = byte(temp)
	f[6] = dht20.CRC8(f[:6])

	s.frames++
	if s.CorruptEvery > 0 && s.frames%s.CorruptEvery == 0 {
		f[6] ^= 0x01
	}
	copy(r, f[:])
}

// Climate returns the values the next frame will encode.
func (s *SimDHT20) Climate() (int32, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempCentiC, s.humCentiPct
}

// SimLight is a photoresistor wandering over the 12-bit ADC range.
type SimLight struct {
	mu  sync.Mutex
	rng *rand.Rand
	v   int32
}

func NewSimLight(seed uint64) *SimLight {
	return &SimLight{rng: rand.New(rand.NewPCG(seed, 0x4c494748)), v: 1600}
}

func (l *SimLight) ReadLight() uint16 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.v = mathx.Clamp(l.v+int32(l.rng.IntN(61))-30, 0, 4095)
	return uint16(l.v)
}

// ledStrip is the shared state of the simulated LED pins.
type ledStrip struct {
	mu sync.Mutex
	on []bool
}

func (s *ledStrip) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, len(s.on))
	for i, on := range s.on {
		b[i] = '-'
		if on {
			b[i] = '#'
		}
	}
	return string(b)
}

type simLED struct {
	strip *ledStrip
	i     int
}

func (l simLED) Set(on bool) {
	l.strip.mu.Lock()
	l.strip.on[l.i] = on
	l.strip.mu.Unlock()
}

// termPanel draws a 16x2 character LCD on a terminal. It redraws the whole
// panel after the bottom row is printed.
type termPanel struct {
	out  io.Writer
	leds *ledStrip
	x, y uint8
	rows [2][display.Width]byte
}

func (p *termPanel) SetCursor(x, y uint8) { p.x, p.y = x, y%2 }

func (p *termPanel) Print(data []byte) {
	for _, c := range data {
		if int(p.x) < display.Width {
			p.rows[p.y][p.x] = c
		}
		p.x++
	}
	if p.y == 1 {
		p.draw()
	}
}

func (p *termPanel) draw() {
	const border = "+----------------+"
	buf := make([]byte, 0, 96)
	buf = append(buf, border...)
	buf = append(buf, '\n', '|')
	buf = append(buf, p.rows[0][:]...)
	buf = append(buf, "|  leds "...)
	buf = append(buf, p.leds.String()...)
	buf = append(buf, '\n', '|')
	buf = append(buf, p.rows[1][:]...)
	buf = append(buf, '|', '\n')
	buf = append(buf, border...)
	buf = append(buf, '\n')
	_, _ = p.out.Write(buf)
}
