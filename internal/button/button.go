// Package button reads the active-low push button and filters contact
// bounce.
package button

import (
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"wxdisplay/internal/config"
)

// Input reports the current button level. true means held down.
type Input interface {
	Pressed() bool
}

// Open returns the input selected by BUTTON_DRIVER.
func Open(cfg config.Config) (Input, error) {
	switch cfg.ButtonDriver {
	case "none":
		return None{}, nil
	case "gpio":
		return OpenGPIO(cfg.ButtonPin)
	default:
		return nil, fmt.Errorf("unknown button driver %q", cfg.ButtonDriver)
	}
}

// GPIO is a button wired between a pin and ground, using the internal
// pull-up. A low level is a press.
type GPIO struct {
	pin gpio.PinIO
}

func OpenGPIO(name string) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host.Init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s as input: %w", p, err)
	}
	slog.Info("button: gpio input ready", "pin", p.Name())
	return &GPIO{pin: p}, nil
}

func (g *GPIO) Pressed() bool {
	return g.pin.Read() == gpio.Low
}

// None is a button that is never pressed.
type None struct{}

func (None) Pressed() bool { return false }

// Debouncer turns sampled levels into press events. A released-to-pressed
// edge counts only if more than Window has passed since the last press it
// accepted.
type Debouncer struct {
	Window time.Duration

	held     bool
	last     time.Time
	accepted bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{Window: window}
}

// Update feeds one sample taken at now and reports whether it is an
// accepted press.
func (d *Debouncer) Update(pressed bool, now time.Time) bool {
	edge := pressed && !d.held
	d.held = pressed
	if !edge {
		return false
	}
	if d.accepted && now.Sub(d.last) <= d.Window {
		return false
	}
	d.last = now
	d.accepted = true
	return true
}

// Poll samples in and feeds the level to Update.
func (d *Debouncer) Poll(in Input, now time.Time) bool {
	return d.Update(in.Pressed(), now)
}
