//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"envpanel-go/drivers/dht20"
	"envpanel-go/drivers/lcd"
	"envpanel-go/drivers/ledbar"
	"envpanel-go/errcode"
	"envpanel-go/services/config"
)

// BootDelay lets USB CDC enumerate before the first println.
const BootDelay = 2 * time.Second

// ConfigPath is empty: the MCU runs the built-in defaults.
func ConfigPath() string { return "" }

// Open configures the I2C buses, ADC, LED outputs and debug UART.
func Open(cfg config.Config) (*Board, error) {
	sensorBus := machine.I2C0
	if err := sensorBus.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
		SDA:       machine.Pin(cfg.Pins.SensorSDA),
		SCL:       machine.Pin(cfg.Pins.SensorSCL),
	}); err != nil {
		return nil, errcode.Wrap(errcode.BusError, "platform.Open", "i2c0", err)
	}
	lcdBus := machine.I2C1
	if err := lcdBus.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
		SDA:       machine.Pin(cfg.Pins.LCDSDA),
		SCL:       machine.Pin(cfg.Pins.LCDSCL),
	}); err != nil {
		return nil, errcode.Wrap(errcode.BusError, "platform.Open", "i2c1", err)
	}

	sensor := dht20.New(sensorBus, dht20.Config{Address: cfg.Sensor.Address})
	var warns []error
	// Keep going; every sample will be flagged invalid until it answers.
	warns = warn(warns, "dht20 configure", sensor.Configure())

	machine.InitADC()
	adc := machine.ADC{Pin: machine.Pin(cfg.Pins.Light)}
	adc.Configure(machine.ADCConfig{})

	leds := make([]ledbar.Pin, len(cfg.Pins.LEDs))
	for i, n := range cfg.Pins.LEDs {
		p := machine.Pin(n)
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
		leds[i] = p
	}

	// A dead UART only silences the diag stream.
	warns = warn(warns, "uart0 configure", uartx.UART0.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	}))

	return &Board{
		Sensor:   sensor,
		Light:    adcLight{adc},
		LCD:      lcd.NewHD44780(lcdBus, cfg.Display.Address),
		LEDs:     leds,
		Diag:     uartx.UART0,
		Warnings: warns,
		watch:    watchRP2,
	}, nil
}

// adcLight reads the photoresistor. The RP2040 ADC is 12 bits, left
// aligned in the 16-bit machine reading.
type adcLight struct{ adc machine.ADC }

func (a adcLight) ReadLight() uint16 { return a.adc.Get() >> 4 }

func watchRP2(pins []int, edge func(pin int)) error {
	for _, n := range pins {
		p := machine.Pin(n)
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		if err := p.SetInterrupt(machine.PinFalling, func(p machine.Pin) { edge(int(p)) }); err != nil {
			return errcode.Wrap(errcode.UnknownPin, "platform.WatchButtons", "", err)
		}
	}
	return nil
}
