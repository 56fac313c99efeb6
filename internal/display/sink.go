// Package display owns the 128x64 monochrome framebuffer and the panels
// frames are flushed to.
package display

import (
	"fmt"
	"image"
)

const (
	Width  = 128
	Height = 64
)

// Sink is the text-drawing surface the views and demos paint on. Nothing
// reaches the panel until Display is called.
type Sink interface {
	Clear()
	SetCursor(x, y int)
	SetTextSize(n int)
	SetTextColor(on bool)
	Print(s string)
	Printf(format string, args ...any)
	Display() error
}

// Panel is a physical or emulated screen. *ssd1306.Dev satisfies it.
type Panel interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// InitError reports a panel that could not be brought up. It is fatal for
// every program in this module.
type InitError struct {
	Driver string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("display %s init: %v", e.Driver, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
