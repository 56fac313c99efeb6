package app

import (
	"time"

	"wxdisplay/internal/weather"
	"wxdisplay/internal/weather/views"
)

type Phase int

const (
	Idle Phase = iota
	Connecting
	Fetching
	Halted
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Fetching:
		return "fetching"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// RefreshTimer decides when the next fetch is due. It is due before the
// first Reset and then whenever Interval has elapsed since the last one.
type RefreshTimer struct {
	Interval time.Duration

	last  time.Time
	armed bool
}

func (t *RefreshTimer) Due(now time.Time) bool {
	return !t.armed || now.Sub(t.last) >= t.Interval
}

func (t *RefreshTimer) Reset(now time.Time) {
	t.last = now
	t.armed = true
}

// Last reports when the timer was last reset and whether it ever was.
func (t *RefreshTimer) Last() (time.Time, bool) {
	return t.last, t.armed
}

// State is everything the loop carries between iterations. None of it
// survives a restart.
type State struct {
	Reading    weather.Reading
	HasReading bool
	Mode       views.Mode
	Timer      RefreshTimer
	Phase      Phase
	// HaltErr is why the loop halted. Set only in Halted.
	HaltErr error
}
