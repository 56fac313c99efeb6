package demo

import (
	"context"
	"log/slog"
	"time"

	"wxdisplay/internal/button"
	"wxdisplay/internal/clock"
	"wxdisplay/internal/display"
)

const (
	ToggleDebounce = 150 * time.Millisecond
	SmallText      = "Small Text"
	LargeText      = "Large Text"
)

// TextToggle flips between small and large text on each accepted press.
type TextToggle struct {
	Large bool

	debounce *button.Debouncer
}

func NewTextToggle(window time.Duration) *TextToggle {
	return &TextToggle{debounce: button.NewDebouncer(window)}
}

// Poll samples in once and redraws s when the press is accepted.
func (t *TextToggle) Poll(s display.Sink, in button.Input, now time.Time) error {
	if !t.debounce.Poll(in, now) {
		return nil
	}
	t.Large = !t.Large
	slog.Debug("text toggled", "large", t.Large)
	return t.Draw(s)
}

func (t *TextToggle) Draw(s display.Sink) error {
	s.Clear()
	s.SetCursor(0, 0)
	s.SetTextColor(true)
	if t.Large {
		s.SetTextSize(2)
		s.Print(LargeText + "\n")
	} else {
		s.SetTextSize(1)
		s.Print(SmallText + "\n")
	}
	return s.Display()
}

// RunTextToggle polls in every poll interval until ctx is done. The screen
// stays blank until the first press.
func RunTextToggle(ctx context.Context, s display.Sink, in button.Input, clk clock.Clock, window, poll time.Duration) error {
	t := NewTextToggle(window)
	s.Clear()
	if err := s.Display(); err != nil {
		return err
	}
	for {
		if err := t.Poll(s, in, clk.Now()); err != nil {
			return err
		}
		if err := clk.Sleep(ctx, poll); err != nil {
			return err
		}
	}
}
