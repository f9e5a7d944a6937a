package desktop

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/1broseidon/remmeter/internal/config"
	"github.com/1broseidon/remmeter/internal/platform"
	"github.com/1broseidon/remmeter/internal/timer"
	"github.com/1broseidon/remmeter/internal/window"
)

type call struct {
	name string
	args []int
}

type fakeRuntime struct {
	mu        sync.Mutex
	calls     []call
	events    []string
	screens   []runtime.Screen
	screenErr error
}

func (r *fakeRuntime) record(name string, args ...int) {
	r.mu.Lock()
	r.calls = append(r.calls, call{name: name, args: args})
	r.mu.Unlock()
}

func (r *fakeRuntime) WindowSetSize(_ context.Context, w, h int) { r.record("size", w, h) }
func (r *fakeRuntime) WindowSetPosition(_ context.Context, x, y int) {
	r.record("position", x, y)
}
func (r *fakeRuntime) WindowShow(context.Context)       { r.record("show") }
func (r *fakeRuntime) WindowUnminimise(context.Context) { r.record("unminimise") }
func (r *fakeRuntime) Quit(context.Context)             { r.record("quit") }

func (r *fakeRuntime) ScreenGetAll(context.Context) ([]runtime.Screen, error) {
	return r.screens, r.screenErr
}

func (r *fakeRuntime) EventsEmit(_ context.Context, name string, _ ...interface{}) {
	r.mu.Lock()
	r.events = append(r.events, name)
	r.mu.Unlock()
}

func (r *fakeRuntime) snapshot() ([]call, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...), append([]string(nil), r.events...)
}

func (r *fakeRuntime) reset() {
	r.mu.Lock()
	r.calls = nil
	r.events = nil
	r.mu.Unlock()
}

type fakeBackend struct {
	primary    platform.Display
	primaryErr error
	findErr    error
	findMisses int // lookups that fail before the window appears
	moveErr    error
	closeErr   error
	moves      []platform.Rect
	closed     []platform.WindowID
	found      int
	disconnect bool
}

func (b *fakeBackend) Displays() ([]platform.Display, error) {
	return []platform.Display{b.primary}, b.primaryErr
}
func (b *fakeBackend) PrimaryDisplay() (platform.Display, error) { return b.primary, b.primaryErr }
func (b *fakeBackend) FindWindowByTitle(string) (platform.WindowID, error) {
	b.found++
	if b.found <= b.findMisses {
		return 0, errors.New("window not mapped yet")
	}
	return 42, b.findErr
}
func (b *fakeBackend) MoveResize(_ platform.WindowID, r platform.Rect) error {
	b.moves = append(b.moves, r)
	return b.moveErr
}
func (b *fakeBackend) Close(id platform.WindowID) error {
	b.closed = append(b.closed, id)
	return b.closeErr
}
func (b *fakeBackend) Disconnect() { b.disconnect = true }

type recordingNotifier struct {
	mu  sync.Mutex
	got []string
}

func (n *recordingNotifier) Notify(title, body string) error {
	n.mu.Lock()
	n.got = append(n.got, title+"|"+body)
	n.mu.Unlock()
	return nil
}

func newTestApp(t *testing.T, mutate func(*config.Config), rt *fakeRuntime, backend platform.Backend) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Startup.Edge = ""
	if mutate != nil {
		mutate(cfg)
	}
	if rt.screens == nil && rt.screenErr == nil {
		sc := runtime.Screen{IsPrimary: true}
		sc.Size.Width, sc.Size.Height = 1920, 1080
		rt.screens = []runtime.Screen{sc}
	}
	app := NewApp(Options{Config: cfg, Runtime: rt, Backend: backend})
	ctx, cancel := context.WithCancel(context.Background())
	app.Startup(ctx)
	t.Cleanup(func() {
		app.Shutdown(ctx)
		cancel()
	})
	return app
}

func TestChangePosition_PinsUsingRuntimeScreen(t *testing.T) {
	rt := &fakeRuntime{}
	app := newTestApp(t, nil, rt, nil)

	if err := app.ChangePosition("right"); err != nil {
		t.Fatalf("ChangePosition: %v", err)
	}
	calls, events := rt.snapshot()
	want := []call{{"size", []int{50, 1080}}, {"position", []int{1870, 0}}}
	if len(calls) != len(want) {
		t.Fatalf("calls = %+v, want %+v", calls, want)
	}
	for i := range want {
		if calls[i].name != want[i].name || calls[i].args[0] != want[i].args[0] || calls[i].args[1] != want[i].args[1] {
			t.Fatalf("call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
	if app.Edge() != window.EdgeRight {
		t.Fatalf("Edge() = %q, want right", app.Edge())
	}
	if !contains(events, EventEdge) {
		t.Fatalf("expected %s event, got %v", EventEdge, events)
	}
}

func TestChangePosition_InvalidEdge(t *testing.T) {
	rt := &fakeRuntime{}
	app := newTestApp(t, nil, rt, nil)

	err := app.ChangePosition("diagonal")
	if err == nil || err.Error() != "Invalid position" {
		t.Fatalf("ChangePosition error = %v, want Invalid position", err)
	}
	if !errors.Is(err, window.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if calls, _ := rt.snapshot(); len(calls) != 0 {
		t.Fatalf("invalid edge mutated window: %+v", calls)
	}
	if app.Edge() != "" {
		t.Fatalf("edge changed on invalid input: %q", app.Edge())
	}
}

func TestChangePosition_FallsBackToConfiguredScreen(t *testing.T) {
	rt := &fakeRuntime{screenErr: errors.New("no screens")}
	app := newTestApp(t, func(c *config.Config) {
		c.Screen.Width = 1280
		c.Screen.Height = 720
	}, rt, nil)

	if err := app.ChangePosition("bottom"); err != nil {
		t.Fatalf("ChangePosition: %v", err)
	}
	calls, _ := rt.snapshot()
	if len(calls) != 2 || calls[0].args[0] != 1280 || calls[1].args[1] != 670 {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestChangePosition_NativeBackend(t *testing.T) {
	rt := &fakeRuntime{}
	backend := &fakeBackend{primary: platform.Display{
		Primary: true,
		Bounds:  platform.Rect{Width: 2560, Height: 1440},
		Usable:  platform.Rect{X: 0, Y: 32, Width: 2560, Height: 1408},
	}}
	app := newTestApp(t, nil, rt, backend)

	if err := app.ChangePosition("left"); err != nil {
		t.Fatalf("ChangePosition: %v", err)
	}
	if len(backend.moves) != 1 {
		t.Fatalf("expected one native move, got %+v", backend.moves)
	}
	want := platform.Rect{X: 0, Y: 32, Width: 50, Height: 1408}
	if backend.moves[0] != want {
		t.Fatalf("native bounds = %+v, want %+v", backend.moves[0], want)
	}
	if calls, _ := rt.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no webview geometry calls, got %+v", calls)
	}

	// A found window is cached.
	_ = app.ChangePosition("right")
	if backend.found != 1 {
		t.Fatalf("FindWindowByTitle calls = %d, want 1", backend.found)
	}
}

func TestChangePosition_NativeLookupRetriedUntilFound(t *testing.T) {
	rt := &fakeRuntime{}
	backend := &fakeBackend{
		primary:    platform.Display{Usable: platform.Rect{Width: 1920, Height: 1080}},
		findMisses: 1,
	}
	app := newTestApp(t, nil, rt, backend)

	// The window is not mapped yet: webview geometry is used.
	if err := app.ChangePosition("right"); err != nil {
		t.Fatalf("ChangePosition: %v", err)
	}
	if calls, _ := rt.snapshot(); len(calls) != 2 {
		t.Fatalf("expected webview size+position, got %+v", calls)
	}
	if len(backend.moves) != 0 {
		t.Fatalf("expected no native move yet, got %+v", backend.moves)
	}

	rt.reset()
	if err := app.ChangePosition("left"); err != nil {
		t.Fatalf("ChangePosition: %v", err)
	}
	if len(backend.moves) != 1 || backend.moves[0] != (platform.Rect{Width: 50, Height: 1080}) {
		t.Fatalf("expected native move after retry, got %+v", backend.moves)
	}
	if calls, _ := rt.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no webview geometry calls, got %+v", calls)
	}

	_ = app.ChangePosition("top")
	if backend.found != 2 {
		t.Fatalf("FindWindowByTitle calls = %d, want 2", backend.found)
	}
	if len(backend.moves) != 2 {
		t.Fatalf("native moves = %d, want 2", len(backend.moves))
	}
}

func TestChangePosition_NativeMoveFailureReported(t *testing.T) {
	rt := &fakeRuntime{}
	backend := &fakeBackend{
		primary: platform.Display{Usable: platform.Rect{Width: 1920, Height: 1080}},
		moveErr: errors.New("BadWindow"),
	}
	app := newTestApp(t, nil, rt, backend)

	err := app.ChangePosition("bottom")
	if !errors.Is(err, window.ErrOperationFailed) {
		t.Fatalf("ChangePosition error = %v, want ErrOperationFailed", err)
	}
	if app.Edge() == window.EdgeBottom {
		t.Fatalf("edge should not change when the move fails")
	}
}

func TestCloseApp_NativeSendsDeleteWindow(t *testing.T) {
	rt := &fakeRuntime{}
	backend := &fakeBackend{primary: platform.Display{Usable: platform.Rect{Width: 1920, Height: 1080}}}
	app := newTestApp(t, nil, rt, backend)

	app.CloseApp()
	if len(backend.closed) != 1 || backend.closed[0] != 42 {
		t.Fatalf("backend closes = %+v, want [42]", backend.closed)
	}
	calls, _ := rt.snapshot()
	for _, c := range calls {
		if c.name == "quit" {
			t.Fatalf("expected no direct quit when WM_DELETE_WINDOW succeeds")
		}
	}
}

func TestCloseApp_NativeFallsBackToQuit(t *testing.T) {
	for name, backend := range map[string]*fakeBackend{
		"close fails":  {closeErr: errors.New("BadWindow")},
		"lookup fails": {findErr: errors.New("not found")},
	} {
		backend.primary = platform.Display{Usable: platform.Rect{Width: 1920, Height: 1080}}
		rt := &fakeRuntime{}
		app := newTestApp(t, nil, rt, backend)

		app.CloseApp()
		calls, _ := rt.snapshot()
		quits := 0
		for _, c := range calls {
			if c.name == "quit" {
				quits++
			}
		}
		if quits != 1 {
			t.Fatalf("%s: quit calls = %d, want 1", name, quits)
		}
	}
}

func TestChangePosition_NativeLookupFailureUsesWebview(t *testing.T) {
	rt := &fakeRuntime{}
	backend := &fakeBackend{
		primary: platform.Display{Usable: platform.Rect{Width: 1920, Height: 1080}},
		findErr: errors.New("not found"),
	}
	app := newTestApp(t, nil, rt, backend)

	if err := app.ChangePosition("top"); err != nil {
		t.Fatalf("ChangePosition: %v", err)
	}
	calls, _ := rt.snapshot()
	if len(calls) != 2 || calls[0].name != "size" || calls[1].name != "position" {
		t.Fatalf("expected webview size+position, got %+v", calls)
	}
}

func TestStartup_PinsToConfiguredEdge(t *testing.T) {
	rt := &fakeRuntime{}
	app := newTestApp(t, func(c *config.Config) { c.Startup.Edge = "bottom" }, rt, nil)

	if app.Edge() != window.EdgeBottom {
		t.Fatalf("Edge() = %q, want bottom", app.Edge())
	}
	calls, _ := rt.snapshot()
	if len(calls) != 2 || calls[1].args[1] != 1030 {
		t.Fatalf("unexpected startup calls %+v", calls)
	}
}

func TestStartup_MovesToConfiguredPoint(t *testing.T) {
	for _, pt := range [][2]int{{0, 0}, {1870, 0}} {
		rt := &fakeRuntime{}
		x, y := pt[0], pt[1]
		newTestApp(t, func(c *config.Config) {
			c.Startup.Edge = "left"
			c.Startup.X = &x
			c.Startup.Y = &y
		}, rt, nil)

		calls, _ := rt.snapshot()
		if len(calls) != 1 || calls[0].name != "position" || calls[0].args[0] != x || calls[0].args[1] != y {
			t.Fatalf("startup point (%d,%d): calls %+v", x, y, calls)
		}
	}
}

func TestCloseApp_QuitsOnceAndReportsSecondClose(t *testing.T) {
	rt := &fakeRuntime{}
	app := newTestApp(t, nil, rt, nil)

	app.CloseApp()
	app.CloseApp()

	calls, _ := rt.snapshot()
	quits := 0
	for _, c := range calls {
		if c.name == "quit" {
			quits++
		}
	}
	if quits != 1 {
		t.Fatalf("quit calls = %d, want 1", quits)
	}

	win, err := app.windows.Window()
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if err := win.SetSize(1, 1); !errors.Is(err, window.ErrClosed) {
		t.Fatalf("SetSize after close = %v, want ErrClosed", err)
	}
	if err := app.ChangePosition("left"); !errors.Is(err, window.ErrOperationFailed) {
		t.Fatalf("ChangePosition after close = %v, want ErrOperationFailed", err)
	}
}

func TestBeforeClose_MarksHandleClosed(t *testing.T) {
	rt := &fakeRuntime{}
	app := newTestApp(t, nil, rt, nil)

	if app.BeforeClose(context.Background()) {
		t.Fatalf("BeforeClose should not prevent closing")
	}
	app.CloseApp()
	calls, _ := rt.snapshot()
	for _, c := range calls {
		if c.name == "quit" {
			t.Fatalf("expected no quit after framework close")
		}
	}
}

func TestShowNotification_ForwardsAndNeverFails(t *testing.T) {
	rt := &fakeRuntime{}
	n := &recordingNotifier{}
	cfg := config.DefaultConfig()
	cfg.Startup.Edge = ""
	app := NewApp(Options{Config: cfg, Runtime: rt, Notifier: n})

	if err := app.ShowNotification("t", "b"); err != nil {
		t.Fatalf("ShowNotification: %v", err)
	}
	if len(n.got) != 1 || n.got[0] != "t|b" {
		t.Fatalf("notifier got %v", n.got)
	}
}

func TestShowNotification_DisabledByConfig(t *testing.T) {
	n := &recordingNotifier{}
	cfg := config.DefaultConfig()
	cfg.Notifications.Enabled = false
	app := NewApp(Options{Config: cfg, Runtime: &fakeRuntime{}, Notifier: n})

	if err := app.ShowNotification("t", "b"); err != nil {
		t.Fatalf("ShowNotification: %v", err)
	}
	if len(n.got) != 0 {
		t.Fatalf("expected disabled notifier, got %v", n.got)
	}
}

func TestExpandWindow(t *testing.T) {
	rt := &fakeRuntime{}
	app := newTestApp(t, nil, rt, nil)

	if err := app.ExpandWindow("right", true); err != nil {
		t.Fatalf("ExpandWindow: %v", err)
	}
	calls, _ := rt.snapshot()
	if len(calls) != 2 || calls[0].args[0] != 200 || calls[1].args[0] != 1720 {
		t.Fatalf("unexpected expand calls %+v", calls)
	}

	rt.reset()
	if err := app.ExpandWindow("top", false); err != nil {
		t.Fatalf("ExpandWindow: %v", err)
	}
	calls, _ = rt.snapshot()
	if len(calls) != 2 || calls[0].args[1] != 50 {
		t.Fatalf("unexpected collapse calls %+v", calls)
	}
	if err := app.ExpandWindow("sideways", true); err == nil {
		t.Fatalf("expected invalid edge error")
	}
}

func TestTimerCommands(t *testing.T) {
	rt := &fakeRuntime{}
	app := newTestApp(t, nil, rt, nil)

	snap := app.TimerState()
	if snap.TotalSeconds != 300 || snap.Display != "05:00" {
		t.Fatalf("unexpected initial state %+v", snap)
	}

	snap, err := app.TimerSet("1:30")
	if err != nil {
		t.Fatalf("TimerSet: %v", err)
	}
	if snap.TotalSeconds != 90 {
		t.Fatalf("TimerSet total = %d, want 90", snap.TotalSeconds)
	}
	if _, err := app.TimerSet("00:00"); err == nil || !strings.Contains(err.Error(), "Invalid time") {
		t.Fatalf("TimerSet(00:00) error = %v", err)
	}

	if !app.TimerStart().Running {
		t.Fatalf("expected running after TimerStart")
	}
	// Nothing has elapsed yet, so a paused timer still reads normal.
	if got := app.TimerPause(); got.Running || got.Phase != timer.PhaseNormal {
		t.Fatalf("unexpected state after pause %+v", got)
	}
	if got := app.TimerReset(); got.Running || got.ElapsedSeconds != 0 {
		t.Fatalf("unexpected state after reset %+v", got)
	}

	_, events := rt.snapshot()
	if !contains(events, EventTimerTick) {
		t.Fatalf("expected %s events, got %v", EventTimerTick, events)
	}
}

func TestTimerDone_EmitsAndNotifies(t *testing.T) {
	rt := &fakeRuntime{}
	n := &recordingNotifier{}
	cfg := config.DefaultConfig()
	cfg.Startup.Edge = ""
	app := NewApp(Options{Config: cfg, Runtime: rt, Notifier: n})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.mu.Lock()
	app.ctx = ctx
	app.mu.Unlock()

	if _, err := app.TimerSet("1"); err != nil {
		t.Fatalf("TimerSet: %v", err)
	}
	app.TimerStart()
	app.timer.Tick()

	_, events := rt.snapshot()
	if !contains(events, EventTimerDone) {
		t.Fatalf("expected %s event, got %v", EventTimerDone, events)
	}
	if len(n.got) != 1 || n.got[0] != timeUpTitle+"|"+timeUpBody {
		t.Fatalf("expected time-up notification, got %v", n.got)
	}
}

func TestShutdown_DisconnectsBackend(t *testing.T) {
	rt := &fakeRuntime{}
	backend := &fakeBackend{primary: platform.Display{Usable: platform.Rect{Width: 800, Height: 600}}}
	cfg := config.DefaultConfig()
	cfg.Startup.Edge = ""
	app := NewApp(Options{Config: cfg, Runtime: rt, Backend: backend})
	ctx := context.Background()
	app.Startup(ctx)
	app.Shutdown(ctx)

	if !backend.disconnect {
		t.Fatalf("expected backend disconnect")
	}
	if _, err := app.windows.Window(); !errors.Is(err, window.ErrNoWindow) {
		t.Fatalf("expected window detached, got %v", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
