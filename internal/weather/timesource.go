package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/beevik/ntp"

	"wxdisplay/internal/clock"
)

// TimeSource supplies the wall time a reading is stamped with.
type TimeSource interface {
	Now(ctx context.Context) time.Time
}

// ClockTimeSource reads a local clock and shifts it to a fixed UTC offset.
type ClockTimeSource struct {
	Clock  clock.Clock
	Offset time.Duration
}

func (s ClockTimeSource) Now(context.Context) time.Time {
	return s.Clock.Now().In(fixedZone(s.Offset))
}

// NTPTimeSource queries an NTP server on every call. When the query fails
// the fallback clock is used so a reading is never lost to a time error.
type NTPTimeSource struct {
	Server   string
	Offset   time.Duration
	Timeout  time.Duration
	Fallback clock.Clock
}

func (s NTPTimeSource) Now(ctx context.Context) time.Time {
	t, err := s.query(ctx)
	if err != nil {
		slog.Warn("ntp: query failed, using system clock", "server", s.Server, "err", err)
		fb := s.Fallback
		if fb == nil {
			fb = clock.Real{}
		}
		t = fb.Now()
	}
	return t.In(fixedZone(s.Offset))
}

func (s NTPTimeSource) query(ctx context.Context) (time.Time, error) {
	timeout := s.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout || timeout == 0 {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	resp, err := ntp.QueryWithOptions(s.Server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		return time.Time{}, fmt.Errorf("query %s: %w", s.Server, err)
	}
	if err := resp.Validate(); err != nil {
		return time.Time{}, fmt.Errorf("validate %s: %w", s.Server, err)
	}
	slog.Debug("ntp: time synced", "server", s.Server, "offset", resp.ClockOffset, "rtt", resp.RTT)
	return time.Now().Add(resp.ClockOffset), nil
}

func fixedZone(offset time.Duration) *time.Location {
	secs := int(offset / time.Second)
	return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", secs/3600, abs(secs%3600)/60), secs)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
