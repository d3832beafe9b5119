package main

import (
	"context"
	"time"

	"envpanel-go/bus"
	"envpanel-go/drivers/ledbar"
	"envpanel-go/platform"
	"envpanel-go/services/config"
	"envpanel-go/services/control"
	"envpanel-go/services/diag"
	"envpanel-go/services/display"
	"envpanel-go/services/input"
	"envpanel-go/services/sampler"
	"envpanel-go/types"
	"envpanel-go/x/shmring"
	"envpanel-go/x/timex"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(platform.BootDelay)
	println("Info: boot")

	if err := run(context.Background()); err != nil {
		for {
			println("Error:", err.Error())
			time.Sleep(5 * time.Second)
		}
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(platform.ConfigPath())
	if err != nil {
		return err
	}
	board, err := platform.Open(cfg)
	if err != nil {
		return err
	}

	b := bus.NewBus(8)
	config.Publish(b.NewConnection("config"), cfg)

	// Core 1 produces into the ring, core 0 consumes.
	ring := shmring.New[types.Sample](cfg.Sensor.RingCapacity)
	smp, err := sampler.New(sampler.Config{Period: cfg.Sensor.Period},
		board.Sensor, board.Light, ring, timex.SinceBootMs)
	if err != nil {
		return err
	}

	buttons, err := input.New(cfg.Pins.Buttons, cfg.Input.Window)
	if err != nil {
		return err
	}
	if err := board.WatchButtons(cfg.Pins.Buttons, func(pin int) { buttons.Edge(pin) }); err != nil {
		return err
	}

	eng, err := display.New(display.Config{
		MinInterval: cfg.Display.MinInterval,
		ADCNoise:    cfg.Display.ADCNoise,
	}, board.LCD, timex.SinceBootMs)
	if err != nil {
		return err
	}
	leds, err := ledbar.New(board.LEDs...)
	if err != nil {
		return err
	}

	loop, err := control.New(control.Config{
		Period:     cfg.Control.Period,
		StaleAfter: cfg.Control.StaleAfter,
		ADCMin:     cfg.Sensor.ADCMin,
		ADCMax:     cfg.Sensor.ADCMax,
		Line1:      cfg.Text.Line1,
		Line2:      cfg.Text.Line2,
	}, control.Deps{
		Ring:    ring,
		Buttons: buttons,
		Actions: cfg.ButtonActions(),
		Display: eng,
		LEDs:    leds,
		Clock:   timex.SinceBootMs,
		Conn:    b.NewConnection("control"),
	})
	if err != nil {
		return err
	}

	if err := diag.New(board.Diag, cfg.Diag).Start(ctx, b.NewConnection("diag")); err != nil {
		return err
	}

	go buttons.RunTicker(ctx, cfg.Input.Tick)
	go smp.Run(ctx)
	println("Info: services started")
	return loop.Run(ctx)
}
