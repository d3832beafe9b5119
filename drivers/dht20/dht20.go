// Package dht20 provides a driver for the DHT20 temperature/humidity sensor
// (an AHT20 core with a CRC-protected frame). It exposes a two-phase
// measurement API:
//
//	d.Trigger()              // start a measurement (fast)
//	err := d.Collect(&r)     // fetch when ready; returns ErrNotReady while busy
//
// For convenience, d.Read() performs trigger + bounded polling until ready.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
//
// The driver avoids floating-point; conversions return hundredths of units
// (centi-°C and centi-%RH).
package dht20

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"envpanel-go/errcode"
)

// I2C address.
const Address = 0x38

const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy  = 0x80
	statusReady = 0x18 // calibration bits; both set after a good power-up
)

// Errors returned by the driver.
var (
	ErrTimeout  = errors.New("dht20: timeout")
	ErrNotReady = errors.New("dht20: not ready")
	ErrCRC      = errors.New("dht20: crc mismatch")
)

func init() {
	errcode.RegisterClassifier(func(err error) (errcode.Code, bool) {
		switch {
		case errors.Is(err, ErrTimeout):
			return errcode.Timeout, true
		case errors.Is(err, ErrNotReady):
			return errcode.NotReady, true
		case errors.Is(err, ErrCRC):
			return errcode.CRCMismatch, true
		}
		return "", false
	})
}

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x38 if zero.
	Address uint16
	// TriggerHint is slept once after Trigger in Read. Default 80 ms.
	TriggerHint time.Duration
	// PollInterval is used by Read() between Collect() attempts. Default 10 ms.
	PollInterval time.Duration
	// CollectTimeout bounds the polling in Read(). Default 250 ms.
	CollectTimeout time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Device wraps an I2C connection to a DHT20.
type Device struct {
	bus drivers.I2C
	cfg Config
	buf [7]byte // reused to avoid allocations
}

// New creates a DHT20 handle. The I2C bus must already be configured.
// This function does not touch the device.
func New(bus drivers.I2C, cfg Config) *Device {
	if cfg.Address == 0 {
		cfg.Address = Address
	}
	if cfg.TriggerHint <= 0 {
		cfg.TriggerHint = 80 * time.Millisecond
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Millisecond
	}
	if cfg.CollectTimeout <= 0 {
		cfg.CollectTimeout = 250 * time.Millisecond
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	return &Device{bus: bus, cfg: cfg}
}

// Configure initialises the calibration registers if the status byte says
// the device has not done so itself.
func (d *Device) Configure() error {
	st, err := d.Status()
	if err != nil {
		return err
	}
	if st&statusReady == statusReady {
		return nil
	}
	if err := d.bus.Tx(d.cfg.Address, []byte{cmdInitialize, 0x08, 0x00}, nil); err != nil {
		return err
	}
	d.cfg.Sleep(10 * time.Millisecond)
	return nil
}

// Reset issues a soft reset. Give the device ~20ms afterwards before using.
func (d *Device) Reset() error {
	return d.bus.Tx(d.cfg.Address, []byte{cmdSoftReset}, nil)
}

// Status reads the status byte.
func (d *Device) Status() (byte, error) {
	data := d.buf[:1]
	if err := d.bus.Tx(d.cfg.Address, []byte{cmdStatus}, data); err != nil {
		return 0, err
	}
	return data[0], nil
}

// Trigger starts a measurement. It does not wait for the conversion.
func (d *Device) Trigger() error {
	return d.bus.Tx(d.cfg.Address, []byte{cmdTrigger, 0x33, 0x00}, nil)
}

// Collect reads one frame into out. ErrNotReady is returned while the device
// is busy and ErrCRC when the frame checksum does not match. Bus errors are
// returned as-is.
func (d *Device) Collect(out *Reading) error {
	data := d.buf[:]
	if err := d.bus.Tx(d.cfg.Address, nil, data); err != nil {
		return err
	}
	if data[0]&statusBusy != 0 {
		return ErrNotReady
	}
	if CRC8(data[:6]) != data[6] {
		return ErrCRC
	}
	out.RawHumidity = (uint32(data[1]) << 12) | (uint32(data[2]) << 4) | (uint32(data[3]) >> 4)
	out.RawTemp = (uint32(data[3]&0x0F) << 16) | (uint32(data[4]) << 8) | uint32(data[5])
	return nil
}

// Read performs a full measurement cycle: Trigger, the conversion wait, then
// bounded polling until Collect succeeds.
func (d *Device) Read() (Reading, error) {
	var r Reading
	if err := d.Trigger(); err != nil {
		return r, err
	}
	d.cfg.Sleep(d.cfg.TriggerHint)

	polls := int(d.cfg.CollectTimeout / d.cfg.PollInterval)
	for i := 0; ; i++ {
		err := d.Collect(&r)
		if err != ErrNotReady {
			return r, err
		}
		if i >= polls {
			return r, ErrTimeout
		}
		d.cfg.Sleep(d.cfg.PollInterval)
	}
}

// Measure reads one sample and returns it in hundredths.
func (d *Device) Measure() (int32, uint32, error) {
	r, err := d.Read()
	if err != nil {
		return 0, 0, err
	}
	return r.CentiCelsius(), r.CentiRelHumidity(), nil
}

// Reading holds the two 20-bit raw values of one frame.
type Reading struct {
	RawHumidity uint32
	RawTemp     uint32
}

// CentiRelHumidity returns hundredths of %RH, rounded.
func (r Reading) CentiRelHumidity() uint32 {
	return uint32((uint64(r.RawHumidity)*10000 + 1<<19) >> 20)
}

// CentiCelsius returns hundredths of °C, rounded.
func (r Reading) CentiCelsius() int32 {
	return int32((uint64(r.RawTemp)*20000 + 1<<19) >> 20) - 5000
}

// CRC8 is the frame checksum: polynomial 0x31, initial value 0xFF, MSB first.
func CRC8(data []byte) byte {
	crc := byte(0xFF)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
