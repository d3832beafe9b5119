// Package platform builds the hardware collaborators for the current target.
// RP2040/RP2350 builds use the machine package; every other build gets a
// simulated board driven from the terminal.
package platform

import (
	"io"

	"envpanel-go/errcode"

	"envpanel-go/drivers/ledbar"
	"envpanel-go/services/display"
	"envpanel-go/services/sampler"
)

// Board bundles what the services need from the hardware.
type Board struct {
	Sensor sampler.Sensor
	Light  sampler.LightSource
	LCD    display.LineWriter
	LEDs   []ledbar.Pin
	// Diag receives the serial debug log.
	Diag io.Writer
	// Warnings are the non-fatal setup failures, already logged.
	Warnings []error

	watch func(pins []int, edge func(pin int)) error
}

// WatchButtons calls edge from interrupt context on every falling edge of
// one of pins. edge must not block or allocate.
func (b *Board) WatchButtons(pins []int, edge func(pin int)) error {
	return b.watch(pins, edge)
}

// warn logs a non-fatal setup failure and records it. A nil err is ignored.
func warn(warns []error, op string, err error) []error {
	if err == nil {
		return warns
	}
	println("Warn:", op+":", err.Error())
	return append(warns, errcode.Wrap(errcode.MapDriverErr(err), "platform.Open", op, err))
}
