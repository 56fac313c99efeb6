package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"wxdisplay/internal/button"
	"wxdisplay/internal/clock"
	"wxdisplay/internal/config"
	"wxdisplay/internal/display"
	"wxdisplay/internal/journal"
	"wxdisplay/internal/telemetry"
	"wxdisplay/internal/weather"
	"wxdisplay/internal/weather/views"
	"wxdisplay/internal/wifi"
)

const haltedPoll = time.Second

// Network brings the radio up for a fetch and down afterwards.
// *wifi.Manager implements it.
type Network interface {
	Connect(ctx context.Context) error
	Sleep(ctx context.Context)
}

// Fetcher returns the current conditions. *weather.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context) (weather.Reading, error)
}

type Deps struct {
	Sink      display.Sink
	Button    button.Input
	Network   Network
	Weather   Fetcher
	Clock     clock.Clock
	Publisher telemetry.Publisher
	Journal   journal.Repository
	StationID string
	NewID     func() string
}

type Options struct {
	RefreshInterval time.Duration
	Debounce        time.Duration
	LoopInterval    time.Duration
	SplashDwell     time.Duration
	FetchingDwell   time.Duration
	ErrorDwell      time.Duration
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		RefreshInterval: cfg.RefreshInterval,
		Debounce:        cfg.ButtonDebounce,
		LoopInterval:    cfg.LoopInterval,
		SplashDwell:     2 * time.Second,
		FetchingDwell:   time.Second,
		ErrorDwell:      cfg.ErrorDwell,
	}
}

// App is the weather display loop. It is single-threaded: Step and Run
// must not be called concurrently.
type App struct {
	deps     Deps
	opts     Options
	state    State
	debounce *button.Debouncer
}

func New(deps Deps, opts Options) *App {
	if deps.Publisher == nil {
		deps.Publisher = telemetry.Nop{}
	}
	if deps.Journal == nil {
		deps.Journal = journal.Nop{}
	}
	if deps.Button == nil {
		deps.Button = button.None{}
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return "" }
	}
	return &App{
		deps:     deps,
		opts:     opts,
		state:    State{Mode: views.Compact, Timer: RefreshTimer{Interval: opts.RefreshInterval}},
		debounce: button.NewDebouncer(opts.Debounce),
	}
}

// State returns a copy of the loop state.
func (a *App) State() State { return a.state }

// Run shows the splash screen and then steps until ctx is done. If the
// loop halted on a configuration error, that error is returned instead of
// the context error.
func (a *App) Run(ctx context.Context) error {
	if err := a.Boot(ctx); err != nil {
		return err
	}
	for {
		if err := a.Step(ctx); err != nil {
			return err
		}
		wait := a.opts.LoopInterval
		if a.state.Phase == Halted {
			wait = haltedPoll
		}
		if err := a.deps.Clock.Sleep(ctx, wait); err != nil {
			if a.state.Phase == Halted {
				return a.state.HaltErr
			}
			return err
		}
	}
}

func (a *App) Boot(ctx context.Context) error {
	a.notice(views.SplashText, 1)
	return a.deps.Clock.Sleep(ctx, a.opts.SplashDwell)
}

// Step runs one loop iteration: the refresh timer first, then the button.
// Only context errors are returned; everything else is handled on screen.
func (a *App) Step(ctx context.Context) error {
	if a.state.Phase == Halted {
		return nil
	}

	if a.state.Timer.Due(a.deps.Clock.Now()) {
		if err := a.refresh(ctx); err != nil {
			return err
		}
		if a.state.Phase == Halted {
			return nil
		}
	}

	if a.debounce.Poll(a.deps.Button, a.deps.Clock.Now()) {
		a.toggle()
	}
	return nil
}

func (a *App) refresh(ctx context.Context) error {
	cycle := a.deps.NewID()
	log := slog.With("cycle_id", cycle)

	a.state.Phase = Connecting
	if err := a.deps.Network.Connect(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.record(ctx, journal.Entry{ID: cycle, Outcome: journal.OutcomeConnectFailed, ErrorKind: connectKind(err), ErrorDetail: err.Error()})

		var cerr *wifi.ConnectError
		if errors.As(err, &cerr) && !cerr.Retriable() {
			log.Error("halting: network needs attention", "err", err)
			a.state.Phase = Halted
			a.state.HaltErr = err
			return nil
		}
		log.Warn("connect failed, will retry", "err", err)
		a.state.Phase = Idle
		return nil
	}

	a.state.Timer.Reset(a.deps.Clock.Now())
	a.state.Phase = Fetching
	defer func() {
		a.deps.Network.Sleep(context.WithoutCancel(ctx))
		a.state.Phase = Idle
	}()

	a.notice(views.FetchingText, a.state.Mode.Scale())
	if err := a.deps.Clock.Sleep(ctx, a.opts.FetchingDwell); err != nil {
		return err
	}

	r, err := a.deps.Weather.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("fetch failed", "err", err)
		var ferr *weather.FetchError
		text, kind := views.ConnErrorText, "unknown"
		if errors.As(err, &ferr) {
			text, kind = views.FetchErrorText(ferr), ferr.Kind.String()
		}
		a.record(ctx, journal.Entry{ID: cycle, Outcome: journal.OutcomeFetchFailed, ErrorKind: kind, ErrorDetail: err.Error()})

		a.notice(text, 1)
		if err := a.deps.Clock.Sleep(ctx, a.opts.ErrorDwell); err != nil {
			return err
		}
		if a.state.HasReading {
			a.render()
		}
		return nil
	}

	a.state.Reading = r
	a.state.HasReading = true
	a.render()

	t := telemetry.FromReading(a.deps.StationID, cycle, r, a.deps.Clock.Now())
	if err := a.deps.Publisher.Publish(ctx, t); err != nil {
		log.Warn("telemetry publish failed", "err", err)
	}
	a.record(ctx, journal.Entry{ID: cycle, Outcome: journal.OutcomeOK, Reading: &r})
	return nil
}

func (a *App) toggle() {
	a.state.Mode = a.state.Mode.Toggle()
	slog.Info("display mode toggled", "mode", a.state.Mode)
	if !a.state.HasReading {
		a.notice(views.NoDataText, 1)
		return
	}
	a.render()
}

func (a *App) render() {
	if err := views.Render(a.deps.Sink, a.state.Reading, a.state.Mode); err != nil {
		slog.Warn("display update failed", "err", err)
	}
}

func (a *App) notice(text string, scale int) {
	if err := views.Notice(a.deps.Sink, text, scale); err != nil {
		slog.Warn("display update failed", "err", err)
	}
}

func (a *App) record(ctx context.Context, e journal.Entry) {
	e.StationID = a.deps.StationID
	e.At = a.deps.Clock.Now()
	if err := a.deps.Journal.Record(context.WithoutCancel(ctx), e); err != nil {
		slog.Warn("journal write failed", "err", err)
	}
}

func connectKind(err error) string {
	var cerr *wifi.ConnectError
	if errors.As(err, &cerr) {
		return cerr.Kind.String()
	}
	return "unknown"
}
