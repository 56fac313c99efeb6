package display

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"wxdisplay/internal/config"
)

// OpenPanel brings up the panel selected by DISPLAY_DRIVER. Every failure
// is returned as *InitError.
func OpenPanel(cfg config.Config) (Panel, error) {
	switch cfg.DisplayDriver {
	case "console":
		slog.Info("display: console panel")
		return NewConsole(os.Stdout), nil
	case "ssd1306":
		return openSSD1306(cfg.I2CBus)
	default:
		return nil, &InitError{Driver: cfg.DisplayDriver, Err: errors.New("unknown driver")}
	}
}

type oled struct {
	dev *ssd1306.Dev
	bus i2c.BusCloser
}

func openSSD1306(busName string) (Panel, error) {
	if _, err := host.Init(); err != nil {
		return nil, &InitError{Driver: "ssd1306", Err: fmt.Errorf("host.Init: %w", err)}
	}

	bus, err := i2creg.Open(busName) // "" picks the first bus, usually /dev/i2c-1
	if err != nil {
		return nil, &InitError{Driver: "ssd1306", Err: fmt.Errorf("i2creg.Open(%q): %w", busName, err)}
	}

	opts := ssd1306.DefaultOpts
	opts.W = Width
	opts.H = Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		_ = bus.Close()
		return nil, &InitError{Driver: "ssd1306", Err: fmt.Errorf("ssd1306.NewI2C: %w", err)}
	}

	slog.Info("display: ssd1306 ready", "bus", bus.String(), "w", Width, "h", Height)
	return &oled{dev: dev, bus: bus}, nil
}

func (o *oled) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	return o.dev.Draw(r, src, sp)
}

// Halt blanks the panel and releases the bus.
func (o *oled) Halt() error {
	err := o.dev.Halt()
	if cerr := o.bus.Close(); err == nil {
		err = cerr
	}
	return err
}
