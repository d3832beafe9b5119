// Package config holds every board and behaviour tunable of the panel.
//
// Default returns the shipped board configuration. Host builds can overlay
// a YAML file with Load; MCU builds always run the defaults. Publish puts
// each section on the bus as a retained config/<section> message so
// services can pick up their settings the same way at boot and on change.
package config

import (
	"time"

	"envpanel-go/bus"
	"envpanel-go/errcode"
	"envpanel-go/services/input"
)

const configPrefix = "config"

// Section names, also the second token of the config topics.
const (
	SectionDiag    = "diag"
	SectionDisplay = "display"
	SectionText    = "text"
)

type Config struct {
	Pins    Pins    `yaml:"pins"`
	Sensor  Sensor  `yaml:"sensor"`
	Input   Input   `yaml:"input"`
	Display Display `yaml:"display"`
	Control Control `yaml:"control"`
	Diag    Diag    `yaml:"diag"`
	Text    Text    `yaml:"text"`
}

// Pins are RP2040 GPIO numbers.
type Pins struct {
	Buttons   []int `yaml:"buttons"`
	LEDs      []int `yaml:"leds"`
	LCDSDA    int   `yaml:"lcd_sda"`
	LCDSCL    int   `yaml:"lcd_scl"`
	SensorSDA int   `yaml:"sensor_sda"`
	SensorSCL int   `yaml:"sensor_scl"`
	Light     int   `yaml:"light_adc"`
}

type Sensor struct {
	Address uint16        `yaml:"address"`
	Period  time.Duration `yaml:"period"`
	// Raw ADC bounds mapped to 0% and 100% light.
	ADCMin uint16 `yaml:"adc_min"`
	ADCMax uint16 `yaml:"adc_max"`
	// RingCapacity is the sample ring size; one slot is never used.
	RingCapacity int `yaml:"ring_capacity"`
}

type Input struct {
	Tick   time.Duration `yaml:"tick"`
	Window uint32        `yaml:"window_ticks"`
	// Actions binds each button (same order as Pins.Buttons) to an action name.
	Actions []string `yaml:"actions"`
}

type Display struct {
	Address     uint8         `yaml:"address"`
	MinInterval time.Duration `yaml:"min_interval"`
	ADCNoise    uint16        `yaml:"adc_noise"`
}

type Control struct {
	Period time.Duration `yaml:"period"`
	// StaleAfter switches to the error screen when no sample arrived for
	// this long. Zero disables the check.
	StaleAfter time.Duration `yaml:"stale_after"`
}

type Diag struct {
	Enabled bool   `yaml:"enabled"`
	RateHz  uint32 `yaml:"rate_hz"`
}

type Text struct {
	Line1 string `yaml:"line1"`
	Line2 string `yaml:"line2"`
}

// Default is the board as wired on the reference hardware.
func Default() Config {
	return Config{
		Pins: Pins{
			Buttons:   []int{16, 17, 18},
			LEDs:      []int{10, 11, 12, 13, 14, 15},
			LCDSDA:    2,
			LCDSCL:    3,
			SensorSDA: 4,
			SensorSCL: 5,
			Light:     26,
		},
		Sensor: Sensor{
			Address:      0x38,
			Period:       time.Second,
			ADCMin:       100,
			ADCMax:       3200,
			RingCapacity: 100,
		},
		Input: Input{
			Tick:    20 * time.Millisecond,
			Window:  5,
			Actions: []string{"next_view", "toggle_unit", "toggle_leds"},
		},
		Display: Display{
			Address:     0x27,
			MinInterval: time.Second,
			ADCNoise:    15,
		},
		Control: Control{
			Period:     20 * time.Millisecond,
			StaleAfter: 5 * time.Second,
		},
		Diag: Diag{
			Enabled: false,
			RateHz:  5,
		},
		Text: Text{
			Line1: "Env Panel",
			Line2: "RP2040 dual core",
		},
	}
}

// Validate reports the first setting the firmware cannot run with.
func (c Config) Validate() error {
	bad := func(msg string) error {
		return errcode.Wrap(errcode.InvalidConfig, "config.Validate", msg, nil)
	}
	switch {
	case len(c.Pins.Buttons) == 0:
		return bad("no buttons")
	case len(c.Pins.LEDs) < 1 || len(c.Pins.LEDs) > 8:
		return bad("leds must be 1..8")
	case c.Sensor.Period <= 0:
		return bad("sensor period must be positive")
	case c.Sensor.RingCapacity < 2:
		return bad("ring capacity must be >= 2")
	case c.Sensor.ADCMax <= c.Sensor.ADCMin:
		return bad("adc_max must exceed adc_min")
	case c.Input.Tick <= 0:
		return bad("input tick must be positive")
	case len(c.Input.Actions) > len(c.Pins.Buttons):
		return bad("more actions than buttons")
	case c.Display.MinInterval <= 0:
		return bad("display min_interval must be positive")
	case c.Control.Period <= 0:
		return bad("control period must be positive")
	case c.Control.StaleAfter < 0:
		return bad("stale_after must not be negative")
	case c.Diag.Enabled && c.Diag.RateHz == 0:
		return bad("diag rate_hz must be positive")
	}
	seen := make(map[int]bool)
	for _, p := range c.Pins.Buttons {
		if seen[p] {
			return bad("duplicate button pin")
		}
		seen[p] = true
	}
	for _, name := range c.Input.Actions {
		if _, err := input.ParseAction(name); err != nil {
			return err
		}
	}
	return nil
}

// ButtonActions resolves Input.Actions; buttons without a name get ActionNone.
func (c Config) ButtonActions() []input.Action {
	out := make([]input.Action, len(c.Pins.Buttons))
	for i, name := range c.Input.Actions {
		if i >= len(out) {
			break
		}
		out[i], _ = input.ParseAction(name)
	}
	return out
}

// Publish puts the runtime-adjustable sections on the bus as retained
// messages: config/diag, config/display and config/text.
func Publish(conn *bus.Connection, c Config) {
	conn.Publish(conn.NewMessage(bus.T(configPrefix, SectionDiag), c.Diag, true))
	conn.Publish(conn.NewMessage(bus.T(configPrefix, SectionDisplay), c.Display, true))
	conn.Publish(conn.NewMessage(bus.T(configPrefix, SectionText), c.Text, true))
}

// Topic returns the retained topic of a section.
func Topic(section string) bus.Topic { return bus.T(configPrefix, section) }
