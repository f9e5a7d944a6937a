// Package desktop hosts the bar in a Wails webview window and exposes the
// window and timer commands to the front end.
package desktop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/remmeter/internal/config"
	"github.com/1broseidon/remmeter/internal/logging"
	"github.com/1broseidon/remmeter/internal/notify"
	"github.com/1broseidon/remmeter/internal/platform"
	"github.com/1broseidon/remmeter/internal/timer"
	"github.com/1broseidon/remmeter/internal/window"
)

// Front-end event names.
const (
	EventTimerTick = "timer:tick"
	EventTimerDone = "timer:done"
	EventEdge      = "window:edge"
)

const timeUpTitle = "RemMeter"
const timeUpBody = "Time is up"

// Options configures NewApp.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Notifier notify.Notifier
	// Backend is the native window-system backend; nil disables native
	// geometry and display queries.
	Backend platform.Backend
	Runtime Runtime
	Windows *window.Single
}

// App is bound to the Wails front end. Exported methods become
// window.go.desktop.App.* in JavaScript.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	rt       Runtime
	backend  platform.Backend
	handler  *window.Handler
	windows  *window.Single
	screens  ScreenProvider
	timer    *timer.Timer
	notifyOn bool

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	edge   window.Edge
}

// NewApp wires the window handler, timer, and screen lookup.
func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	rt := opts.Runtime
	if rt == nil {
		rt = wailsRuntime{}
	}
	windows := opts.Windows
	if windows == nil {
		windows = &window.Single{}
	}
	notifier := opts.Notifier
	if notifier == nil || !cfg.Notifications.Enabled {
		notifier = notify.Disabled{}
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		rt:      rt,
		backend: opts.Backend,
		windows: windows,
		handler: window.NewHandler(window.Options{
			Thickness: cfg.Window.Thickness,
			Expanded: window.Expanded{
				Vertical:   cfg.Window.Expanded.Vertical,
				Horizontal: cfg.Window.Expanded.Horizontal,
			},
			Notifier: notifier,
			Logger:   logger,
		}),
		screens: &screenChain{
			backend:  opts.Backend,
			rt:       rt,
			fallback: platform.Rect{Width: cfg.Screen.Width, Height: cfg.Screen.Height},
			logger:   logger,
		},
		timer: timer.New(time.Duration(cfg.Timer.DefaultSeconds)*time.Second, timer.Thresholds{
			Warning:  cfg.Timer.WarningThreshold,
			Critical: cfg.Timer.CriticalThreshold,
		}),
		notifyOn: cfg.Timer.NotifyOnFinish,
	}
	a.timer.OnDone(a.timerDone)
	return a
}

// Startup runs once the webview window exists.
func (a *App) Startup(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	a.mu.Lock()
	a.ctx = ctx
	a.cancel = cancel
	a.done = done
	a.mu.Unlock()

	base := newWailsHandle(ctx, a.rt)
	var h window.Handle = base
	if a.backend != nil && a.cfg.Window.NativeGeometry {
		h = newNativeHandle(base, a.backend, a.cfg.Window.Title, a.logger)
	}
	a.windows.Attach(h)

	runner := &timer.Runner{
		Timer:  a.timer,
		OnTick: a.emitTick,
		Logger: a.logger,
	}
	go func() {
		defer close(done)
		runner.Run(runCtx)
	}()

	a.applyStartupPosition()
	a.logger.Info("remmeter started", "edge", a.Edge())
}

func (a *App) applyStartupPosition() {
	s := a.cfg.Startup
	switch {
	case s.HasPoint():
		win, _ := a.windows.Window()
		if err := a.handler.MoveTo(win, *s.X, *s.Y); err != nil {
			a.logger.Warn("startup move failed", "x", *s.X, "y", *s.Y, "error", err)
		}
	case s.Edge != "":
		if err := a.ChangePosition(s.Edge); err != nil {
			a.logger.Warn("startup pin failed", "edge", s.Edge, "error", err)
		}
	}
}

// DomReady pushes the initial state to the front end.
func (a *App) DomReady(ctx context.Context) {
	a.emitTick(a.timer.Snapshot())
	if edge := a.Edge(); edge != "" {
		a.emit(EventEdge, string(edge))
	}
}

// BeforeClose lets the window close and marks the handle closed so later
// commands report it instead of poking a dead window.
func (a *App) BeforeClose(ctx context.Context) bool {
	if win, err := a.windows.Window(); err == nil {
		if wh, ok := win.(interface{ markClosed() }); ok {
			wh.markClosed()
		}
	}
	return false
}

// Shutdown stops the timer and releases the native backend.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	a.windows.Detach()
	if a.backend != nil {
		a.backend.Disconnect()
	}
	a.logger.Info("remmeter stopped")
}

// CloseApp closes the application window. Failures are logged.
func (a *App) CloseApp() {
	win, _ := a.windows.Window()
	if err := a.handler.CloseWindow(win); err != nil {
		a.logger.Warn("close_app failed", "error", err)
	}
}

// ShowNotification shows a desktop notification. It never fails.
func (a *App) ShowNotification(title, body string) error {
	return a.handler.ShowNotification(title, body)
}

// ChangePosition pins the window to position, one of left, right, top or
// bottom. Anything else fails with "Invalid position".
func (a *App) ChangePosition(position string) error {
	win, _ := a.windows.Window()
	if err := a.handler.RepositionOnDisplay(win, position, a.screens.Screen(a.context())); err != nil {
		return err
	}

	edge := window.Edge(position)
	a.mu.Lock()
	a.edge = edge
	a.mu.Unlock()
	a.emit(EventEdge, string(edge))
	return nil
}

// ExpandWindow widens the strip while the pointer hovers it and restores it
// afterwards.
func (a *App) ExpandWindow(position string, expand bool) error {
	win, _ := a.windows.Window()
	if err := a.handler.ExpandWindow(win, position, expand, a.screens.Screen(a.context())); err != nil {
		return err
	}
	a.mu.Lock()
	a.edge = window.Edge(position)
	a.mu.Unlock()
	return nil
}

// Edge returns the edge the window is pinned to, or "" if none.
func (a *App) Edge() window.Edge {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.edge
}

func (a *App) TimerStart() timer.Snapshot {
	a.timer.Start()
	return a.publish()
}

func (a *App) TimerPause() timer.Snapshot {
	a.timer.Pause()
	return a.publish()
}

func (a *App) TimerReset() timer.Snapshot {
	a.timer.Reset()
	return a.publish()
}

// TimerSet parses input (see timer.ParseInput) and resets the countdown to it.
func (a *App) TimerSet(input string) (timer.Snapshot, error) {
	in, err := timer.ParseInput(input)
	if err != nil {
		return a.timer.Snapshot(), window.InvalidArgument("Invalid time")
	}
	if err := a.timer.Set(in.Duration()); err != nil {
		return a.timer.Snapshot(), window.InvalidArgument("Invalid time")
	}
	a.logger.Debug("timer set", "duration", in.String())
	return a.publish(), nil
}

func (a *App) TimerState() timer.Snapshot {
	return a.timer.Snapshot()
}

// ShowWindow raises the window, used by the tray.
func (a *App) ShowWindow() {
	ctx := a.context()
	if ctx == nil {
		return
	}
	a.rt.WindowShow(ctx)
	a.rt.WindowUnminimise(ctx)
}

func (a *App) publish() timer.Snapshot {
	snap := a.timer.Snapshot()
	a.emitTick(snap)
	return snap
}

func (a *App) timerDone(snap timer.Snapshot) {
	a.logger.Info("timer finished", "total_seconds", snap.TotalSeconds)
	a.emit(EventTimerDone, snap)
	if a.notifyOn {
		_ = a.handler.ShowNotification(timeUpTitle, timeUpBody)
	}
}

func (a *App) emitTick(snap timer.Snapshot) {
	a.emit(EventTimerTick, snap)
}

func (a *App) emit(name string, data ...interface{}) {
	ctx := a.context()
	if ctx == nil {
		return
	}
	a.rt.EventsEmit(ctx, name, data...)
}

func (a *App) context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}
