//go:build !(rp2040 || rp2350)

package platform

import (
	"bufio"
	"io"
	"os"
	"time"

	"envpanel-go/drivers/dht20"
	"envpanel-go/drivers/lcd"
	"envpanel-go/drivers/ledbar"
	"envpanel-go/services/config"
)

const BootDelay time.Duration = 0

// ConfigPath names the YAML overlay, if any.
func ConfigPath() string { return os.Getenv("ENVPANEL_CONFIG") }

// Open builds a simulated board: a DHT20 emulator behind the real driver, a
// drifting light sensor, the LCD and LED bar drawn on stdout, and buttons
// read from stdin ("1", "2", "3" + Enter).
func Open(cfg config.Config) (*Board, error) {
	return openSim(cfg, os.Stdin, os.Stdout, time.Now, uint64(time.Now().UnixNano()))
}

func openSim(cfg config.Config, in io.Reader, out io.Writer, now func() time.Time, seed uint64) (*Board, error) {
	sim := NewSimDHT20(seed, now)
	sensor := dht20.New(sim, dht20.Config{Address: cfg.Sensor.Address})
	if err := sensor.Configure(); err != nil {
		return nil, err
	}

	strip := &ledStrip{on: make([]bool, len(cfg.Pins.LEDs))}
	leds := make([]ledbar.Pin, len(cfg.Pins.LEDs))
	for i := range leds {
		leds[i] = simLED{strip: strip, i: i}
	}

	return &Board{
		Sensor: sensor,
		Light:  NewSimLight(seed),
		LCD:    lcd.New(&termPanel{out: out, leds: strip}, 2),
		LEDs:   leds,
		Diag:   out,
		watch: func(pins []int, edge func(pin int)) error {
			go readKeys(in, pins, edge)
			return nil
		},
	}, nil
}

// readKeys maps digit keys to button pins. Each key fires a short burst of
// edges, like a bouncing contact.
func readKeys(in io.Reader, pins []int, edge func(pin int)) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		for _, c := range sc.Bytes() {
			i := int(c - '1')
			if i < 0 || i >= len(pins) {
				continue
			}
			for n := 0; n < 3; n++ {
				edge(pins[i])
				time.Sleep(2 * time.Millisecond)
			}
		}
	}
}
