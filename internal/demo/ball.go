// Package demo holds the small animation and input programs that exercise
// the display without any network.
package demo

import (
	"context"
	"time"

	"wxdisplay/internal/clock"
	"wxdisplay/internal/display"
)

const (
	// BallTop is the first row below the position header.
	BallTop   = 16
	BallFrame = 20 * time.Millisecond
)

// Surface is a Sink that can also fill circles. *display.Canvas is one.
type Surface interface {
	display.Sink
	FillCircle(x, y, r int, on bool)
}

type Ball struct {
	X, Y   int
	R      int
	DX, DY int
}

func NewBall() Ball {
	return Ball{X: 4, Y: 20, R: 4, DX: 2, DY: 3}
}

// Step moves the ball one frame and reverses any axis on which it now
// touches a wall. The bottom wall keeps an extra half-radius margin.
func (b *Ball) Step() {
	b.X += b.DX
	b.Y += b.DY
	if b.X-b.R <= 0 || b.X+b.R >= display.Width {
		b.DX = -b.DX
	}
	if b.Y-b.R <= BallTop || b.Y+b.R+b.R/2 >= display.Height {
		b.DY = -b.DY
	}
}

func DrawBall(s Surface, b Ball) error {
	s.Clear()
	s.SetTextSize(1)
	s.SetCursor(0, 0)
	s.SetTextColor(true)
	s.Printf("X = %3d      Y = %3d\n", b.X, b.Y)
	s.Print("____________________\n")
	s.FillCircle(b.X, b.Y, b.R, true)
	return s.Display()
}

// RunBall animates the ball until ctx is done.
func RunBall(ctx context.Context, s Surface, clk clock.Clock) error {
	b := NewBall()
	for {
		b.Step()
		if err := DrawBall(s, b); err != nil {
			return err
		}
		if err := clk.Sleep(ctx, BallFrame); err != nil {
			return err
		}
	}
}
