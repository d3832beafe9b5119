// Package lcd adapts a character LCD to the display engine's line interface.
package lcd

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"

	"envpanel-go/errcode"
	"envpanel-go/services/display"
)

// Common PCF8574 backpack addresses.
const (
	AddrPCF8574  = 0x27
	AddrPCF8574A = 0x3F
)

// Panel is the subset of a character LCD driver the sink uses.
// *hd44780i2c.Device satisfies it.
type Panel interface {
	SetCursor(x, y uint8)
	Print(data []byte)
}

// Sink writes whole 16-character rows to a Panel.
type Sink struct {
	panel Panel
	rows  uint8
}

func New(p Panel, rows uint8) *Sink {
	return &Sink{panel: p, rows: rows}
}

// NewHD44780 configures a 16x2 HD44780 behind a PCF8574 I2C backpack.
// The bus must already be configured.
func NewHD44780(bus drivers.I2C, addr uint8) *Sink {
	dev := hd44780i2c.New(bus, addr)
	dev.Configure(hd44780i2c.Config{Width: display.Width, Height: 2})
	return New(&dev, 2)
}

// WriteLine overwrites row with text. Every row write covers all columns, so
// no clear is needed and the panel does not flicker.
func (s *Sink) WriteLine(row uint8, text display.Line) error {
	if row >= s.rows {
		return errcode.Wrap(errcode.InvalidParams, "lcd.WriteLine", "row out of range", nil)
	}
	s.panel.SetCursor(0, row)
	s.panel.Print(text[:])
	return nil
}
