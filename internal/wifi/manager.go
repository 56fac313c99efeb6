package wifi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wxdisplay/internal/clock"
	"wxdisplay/internal/config"
	"wxdisplay/internal/display"
)

const wakeDelay = 50 * time.Millisecond

type Options struct {
	SSID           string
	Password       string
	MaxAttempts    int
	AttemptTimeout time.Duration
	PollInterval   time.Duration
	SettleDelay    time.Duration
	RetryDwell     time.Duration
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		SSID:           cfg.WiFiSSID,
		Password:       cfg.WiFiPassword,
		MaxAttempts:    cfg.WiFiMaxAttempts,
		AttemptTimeout: cfg.WiFiAttemptTimeout,
		PollInterval:   cfg.WiFiPollInterval,
		SettleDelay:    cfg.WiFiSettleDelay,
		RetryDwell:     cfg.WiFiRetryDwell,
	}
}

// Manager runs connection campaigns and reports progress on the display.
type Manager struct {
	radio Radio
	sink  display.Sink
	clock clock.Clock
	opts  Options
}

func NewManager(radio Radio, sink display.Sink, clk clock.Clock, opts Options) *Manager {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Manager{radio: radio, sink: sink, clock: clk, opts: opts}
}

// Connect wakes the radio and tries to join the network up to MaxAttempts
// times. It returns nil once associated, a *ConnectError when every attempt
// failed, or the context error if ctx ends during a wait.
//
// On failure the radio is put to sleep and the status report stays on the
// display. For retriable failures Connect also shows the wait notice for
// RetryDwell before returning.
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.radio.Wake(ctx); err != nil {
		slog.Warn("wifi: wake failed", "err", err)
	}
	if err := m.clock.Sleep(ctx, wakeDelay); err != nil {
		return err
	}
	if err := m.radio.Reset(ctx); err != nil {
		slog.Warn("wifi: reset failed", "err", err)
	}

	n := m.opts.MaxAttempts
	for attempt := 1; attempt <= n; attempt++ {
		slog.Info("wifi: connecting", "ssid", m.opts.SSID, "attempt", attempt, "of", n)
		if err := m.radio.Begin(ctx, m.opts.SSID, m.opts.Password); err != nil {
			slog.Warn("wifi: begin failed", "attempt", attempt, "err", err)
		}

		m.sink.Clear()
		m.sink.SetCursor(0, 0)
		m.sink.SetTextSize(1)
		m.sink.SetTextColor(true)
		m.sink.Print(" Connecting to WiFi \n")
		m.sink.Printf("   Attempt %d of %d\n", attempt, n)
		m.flush()

		start := m.clock.Now()
		st := m.status(ctx)
		for st != Connected && m.clock.Now().Sub(start) < m.opts.AttemptTimeout {
			if err := m.clock.Sleep(ctx, m.opts.PollInterval); err != nil {
				return err
			}
			m.sink.Print(".")
			m.flush()
			st = m.status(ctx)
		}

		if st == Connected {
			if err := m.clock.Sleep(ctx, m.opts.SettleDelay); err != nil {
				return err
			}
			slog.Info("wifi: connected", "ssid", m.opts.SSID, "attempt", attempt)
			return nil
		}
		slog.Debug("wifi: attempt timed out", "attempt", attempt, "status", st)
	}

	st := m.status(ctx)
	m.Sleep(ctx)

	cerr := &ConnectError{Kind: Classify(st), Status: st, Attempts: n}
	slog.Error("wifi: connect failed", "kind", cerr.Kind, "status", st, "attempts", n)
	m.report(cerr)

	if cerr.Retriable() {
		m.waitNotice()
		if err := m.clock.Sleep(ctx, m.opts.RetryDwell); err != nil {
			return err
		}
	}
	return cerr
}

// Sleep powers the radio down. Errors are logged, not returned.
func (m *Manager) Sleep(ctx context.Context) {
	if err := m.radio.Sleep(ctx); err != nil {
		slog.Warn("wifi: sleep failed", "err", err)
	}
}

func (m *Manager) status(ctx context.Context) Status {
	st, err := m.radio.Status(ctx)
	if err != nil {
		slog.Warn("wifi: status read failed", "err", err)
		return Idle
	}
	return st
}

func (m *Manager) report(e *ConnectError) {
	m.sink.Clear()
	m.sink.SetCursor(0, 0)
	m.sink.SetTextSize(1)
	m.sink.SetTextColor(true)
	m.sink.Print(" Failed to connect\n")
	m.sink.Printf("   after %d tries\n", e.Attempts)
	m.sink.Print("--------------------\n")
	m.sink.Print("WiFi Status Report:\n")
	m.sink.Print("\n")

	switch e.Kind {
	case NetworkNotFound:
		m.sink.Print("Network not found\n")
		m.sink.Print("Check SSID name\n")
	case AuthenticationRejected:
		m.sink.Print("Wrong password\n")
		m.sink.Print("Check password\n")
	case TransientDisconnect:
		m.sink.Print("Disconnected\n")
	default:
		m.sink.Printf("Status code: %d\n", int(e.Status))
		m.sink.Print("Unknown error\n")
	}
	m.flush()
}

func (m *Manager) waitNotice() {
	m.sink.Clear()
	m.sink.SetCursor(0, 0)
	m.sink.SetTextSize(1)
	m.sink.SetTextColor(true)
	m.sink.Print("    Disconnected\n")
	m.sink.Print("    from network\n\n")
	m.sink.Printf("  Waiting %s\n", humanDwell(m.opts.RetryDwell))
	m.sink.Print("   before retrying\n")
	m.flush()
}

func (m *Manager) flush() {
	if err := m.sink.Display(); err != nil {
		slog.Warn("wifi: display flush failed", "err", err)
	}
}

func humanDwell(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	}
	return fmt.Sprintf("%d seconds", int(d.Round(time.Second)/time.Second))
}
