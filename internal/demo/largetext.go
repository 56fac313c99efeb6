package demo

import (
	"context"
	"time"

	"wxdisplay/internal/clock"
	"wxdisplay/internal/display"
)

// LargeTextLines fill the panel exactly at scale 2: ten columns, four rows.
var LargeTextLines = []string{
	"Top line  ",
	"is orange.",
	"The others",
	"are blue. ",
}

func DrawLargeText(s display.Sink) error {
	s.Clear()
	s.SetTextSize(2)
	s.SetCursor(0, 0)
	s.SetTextColor(true)
	for _, l := range LargeTextLines {
		s.Print(l + "\n")
	}
	return s.Display()
}

// RunLargeText redraws the text every interval until ctx is done.
func RunLargeText(ctx context.Context, s display.Sink, clk clock.Clock, interval time.Duration) error {
	for {
		if err := DrawLargeText(s); err != nil {
			return err
		}
		if err := clk.Sleep(ctx, interval); err != nil {
			return err
		}
	}
}
