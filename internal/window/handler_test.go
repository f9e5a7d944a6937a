package window

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/remmeter/internal/platform"
)

// fakeWindow records geometry mutations in call order.
type fakeWindow struct {
	x, y          int
	width, height int
	closed        bool
	calls         []string

	sizeErr  error
	moveErr  error
	closeErr error
}

func (w *fakeWindow) SetSize(width, height int) error {
	w.calls = append(w.calls, "size")
	if w.sizeErr != nil {
		return w.sizeErr
	}
	w.width, w.height = width, height
	return nil
}

func (w *fakeWindow) SetPosition(x, y int) error {
	w.calls = append(w.calls, "move")
	if w.moveErr != nil {
		return w.moveErr
	}
	w.x, w.y = x, y
	return nil
}

func (w *fakeWindow) Close() error {
	w.calls = append(w.calls, "close")
	if w.closeErr != nil {
		return w.closeErr
	}
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	return nil
}

func (w *fakeWindow) bounds() platform.Rect {
	return platform.Rect{X: w.x, Y: w.y, Width: w.width, Height: w.height}
}

type atomicWindow struct {
	fakeWindow
	setBounds []platform.Rect
}

func (w *atomicWindow) SetBounds(b platform.Rect) error {
	w.setBounds = append(w.setBounds, b)
	w.x, w.y, w.width, w.height = b.X, b.Y, b.Width, b.Height
	return nil
}

type fakeNotifier struct {
	err   error
	calls int
}

func (n *fakeNotifier) Notify(title, body string) error {
	n.calls++
	return n.err
}

func TestRepositionWindow_Table(t *testing.T) {
	h := NewHandler(Options{})

	sizes := []struct{ w, h int }{
		{1920, 1080},
		{2560, 1440},
		{50, 50},
		{1366, 768},
		{800, 50},
	}

	for _, s := range sizes {
		for _, edge := range Edges() {
			win := &fakeWindow{}
			if err := h.RepositionWindow(win, string(edge), s.w, s.h); err != nil {
				t.Fatalf("RepositionWindow(%s, %dx%d) error: %v", edge, s.w, s.h, err)
			}

			var want platform.Rect
			switch edge {
			case EdgeLeft:
				want = platform.Rect{X: 0, Y: 0, Width: 50, Height: s.h}
			case EdgeRight:
				want = platform.Rect{X: s.w - 50, Y: 0, Width: 50, Height: s.h}
			case EdgeTop:
				want = platform.Rect{X: 0, Y: 0, Width: s.w, Height: 50}
			case EdgeBottom:
				want = platform.Rect{X: 0, Y: s.h - 50, Width: s.w, Height: 50}
			}
			if got := win.bounds(); got != want {
				t.Fatalf("RepositionWindow(%s, %dx%d) = %+v, want %+v", edge, s.w, s.h, got, want)
			}
		}
	}
}

func TestRepositionWindow_RightEdgeExample(t *testing.T) {
	h := NewHandler(Options{})
	win := &fakeWindow{}

	if err := h.RepositionWindow(win, "right", 1920, 1080); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if win.width != 50 || win.height != 1080 {
		t.Fatalf("size = %dx%d, want 50x1080", win.width, win.height)
	}
	if win.x != 1870 || win.y != 0 {
		t.Fatalf("position = (%d,%d), want (1870,0)", win.x, win.y)
	}
}

func TestRepositionWindow_BottomEdgeExample(t *testing.T) {
	h := NewHandler(Options{})
	win := &fakeWindow{}

	if err := h.RepositionWindow(win, "bottom", 1920, 1080); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if win.width != 1920 || win.height != 50 {
		t.Fatalf("size = %dx%d, want 1920x50", win.width, win.height)
	}
	if win.x != 0 || win.y != 1030 {
		t.Fatalf("position = (%d,%d), want (0,1030)", win.x, win.y)
	}
}

func TestRepositionWindow_SizeBeforePosition(t *testing.T) {
	h := NewHandler(Options{})
	win := &fakeWindow{}

	if err := h.RepositionWindow(win, "top", 1920, 1080); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(win.calls, ",") != "size,move" {
		t.Fatalf("call order = %v, want [size move]", win.calls)
	}
}

func TestRepositionWindow_InvalidEdgeDoesNotMutate(t *testing.T) {
	h := NewHandler(Options{})

	for _, edge := range []string{"diagonal", "", "Left", "RIGHT", " top", "r", "center"} {
		win := &fakeWindow{x: 7, y: 9, width: 11, height: 13}
		err := h.RepositionWindow(win, edge, 1920, 1080)
		if err == nil {
			t.Fatalf("RepositionWindow(%q) expected error", edge)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("RepositionWindow(%q) error = %v, want ErrInvalidArgument", edge, err)
		}
		if errors.Is(err, ErrOperationFailed) {
			t.Fatalf("RepositionWindow(%q) error also matched ErrOperationFailed", edge)
		}
		if err.Error() != "Invalid position" {
			t.Fatalf("RepositionWindow(%q) message = %q, want %q", edge, err.Error(), "Invalid position")
		}
		if len(win.calls) != 0 {
			t.Fatalf("RepositionWindow(%q) mutated window: %v", edge, win.calls)
		}
	}
}

func TestRepositionWindow_Idempotent(t *testing.T) {
	h := NewHandler(Options{})
	win := &fakeWindow{}

	if err := h.RepositionWindow(win, "left", 2560, 1440); err != nil {
		t.Fatalf("first call: %v", err)
	}
	first := win.bounds()
	if err := h.RepositionWindow(win, "left", 2560, 1440); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := win.bounds(); got != first {
		t.Fatalf("second call geometry = %+v, want %+v", got, first)
	}
}

func TestRepositionWindow_WindowManagerFailure(t *testing.T) {
	h := NewHandler(Options{})
	cause := errors.New("bad drawable")

	win := &fakeWindow{sizeErr: cause}
	err := h.RepositionWindow(win, "left", 1920, 1080)
	if !errors.Is(err, ErrOperationFailed) || !errors.Is(err, cause) {
		t.Fatalf("size failure error = %v, want ErrOperationFailed wrapping cause", err)
	}
	if strings.Join(win.calls, ",") != "size" {
		t.Fatalf("expected move to be skipped after size failure, calls=%v", win.calls)
	}

	win = &fakeWindow{moveErr: cause}
	err = h.RepositionWindow(win, "left", 1920, 1080)
	if !errors.Is(err, ErrOperationFailed) || !errors.Is(err, cause) {
		t.Fatalf("move failure error = %v, want ErrOperationFailed wrapping cause", err)
	}
	if !strings.Contains(err.Error(), "bad drawable") {
		t.Fatalf("error message %q should carry the cause", err.Error())
	}
}

func TestRepositionWindow_ScreenSmallerThanStrip(t *testing.T) {
	h := NewHandler(Options{})
	win := &fakeWindow{}

	err := h.RepositionWindow(win, "left", 40, 1080)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	if len(win.calls) != 0 {
		t.Fatalf("window mutated: %v", win.calls)
	}
}

func TestRepositionWindow_UsesAtomicBoundsWhenAvailable(t *testing.T) {
	h := NewHandler(Options{})
	win := &atomicWindow{}

	if err := h.RepositionWindow(win, "right", 1920, 1080); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(win.setBounds) != 1 {
		t.Fatalf("SetBounds calls = %d, want 1", len(win.setBounds))
	}
	if len(win.calls) != 0 {
		t.Fatalf("expected no SetSize/SetPosition calls, got %v", win.calls)
	}
	want := platform.Rect{X: 1870, Y: 0, Width: 50, Height: 1080}
	if win.setBounds[0] != want {
		t.Fatalf("SetBounds(%+v), want %+v", win.setBounds[0], want)
	}
}

func TestRepositionWindow_NilHandle(t *testing.T) {
	h := NewHandler(Options{})
	err := h.RepositionWindow(nil, "left", 1920, 1080)
	if !errors.Is(err, ErrOperationFailed) || !errors.Is(err, ErrNoWindow) {
		t.Fatalf("error = %v, want ErrOperationFailed/ErrNoWindow", err)
	}
}

func TestRepositionOnDisplay_OffsetsByOrigin(t *testing.T) {
	h := NewHandler(Options{Thickness: 40})
	win := &fakeWindow{}

	// Work area of a second monitor below a 32px top panel.
	display := platform.Rect{X: 1920, Y: 32, Width: 1280, Height: 992}
	if err := h.RepositionOnDisplay(win, "bottom", display); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := platform.Rect{X: 1920, Y: 32 + 992 - 40, Width: 1280, Height: 40}
	if got := win.bounds(); got != want {
		t.Fatalf("bounds = %+v, want %+v", got, want)
	}
}

func TestExpandWindow(t *testing.T) {
	h := NewHandler(Options{})
	screen := platform.Rect{Width: 1920, Height: 1080}

	win := &fakeWindow{}
	if err := h.ExpandWindow(win, "right", true, screen); err != nil {
		t.Fatalf("expand: %v", err)
	}
	if want := (platform.Rect{X: 1720, Y: 0, Width: 200, Height: 1080}); win.bounds() != want {
		t.Fatalf("expanded right = %+v, want %+v", win.bounds(), want)
	}

	if err := h.ExpandWindow(win, "right", false, screen); err != nil {
		t.Fatalf("collapse: %v", err)
	}
	if want := (platform.Rect{X: 1870, Y: 0, Width: 50, Height: 1080}); win.bounds() != want {
		t.Fatalf("collapsed right = %+v, want %+v", win.bounds(), want)
	}

	if err := h.ExpandWindow(win, "bottom", true, screen); err != nil {
		t.Fatalf("expand bottom: %v", err)
	}
	if want := (platform.Rect{X: 0, Y: 980, Width: 1920, Height: 100}); win.bounds() != want {
		t.Fatalf("expanded bottom = %+v, want %+v", win.bounds(), want)
	}

	if err := h.ExpandWindow(win, "sideways", true, screen); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("invalid edge error = %v, want ErrInvalidArgument", err)
	}
}

func TestCloseWindow(t *testing.T) {
	h := NewHandler(Options{})
	win := &fakeWindow{}

	if err := h.CloseWindow(win); err != nil {
		t.Fatalf("CloseWindow: %v", err)
	}
	if !win.closed {
		t.Fatal("expected window to be closed")
	}
}

func TestCloseWindow_AlreadyClosedIsReported(t *testing.T) {
	h := NewHandler(Options{})
	win := &fakeWindow{closed: true}

	err := h.CloseWindow(win)
	if !errors.Is(err, ErrOperationFailed) || !errors.Is(err, ErrClosed) {
		t.Fatalf("error = %v, want ErrOperationFailed wrapping ErrClosed", err)
	}
}

func TestCloseWindow_NilHandle(t *testing.T) {
	h := NewHandler(Options{})
	if err := h.CloseWindow(nil); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("error = %v, want ErrOperationFailed", err)
	}
}

func TestShowNotification_NeverFails(t *testing.T) {
	n := &fakeNotifier{err: errors.New("dbus unavailable")}
	h := NewHandler(Options{Notifier: n})

	if err := h.ShowNotification("t", "b"); err != nil {
		t.Fatalf("ShowNotification returned %v, want nil", err)
	}
	if n.calls != 1 {
		t.Fatalf("notifier calls = %d, want 1", n.calls)
	}

	ok := &fakeNotifier{}
	h = NewHandler(Options{Notifier: ok})
	if err := h.ShowNotification("t", "b"); err != nil {
		t.Fatalf("ShowNotification returned %v, want nil", err)
	}
}

func TestShowNotification_DefaultNotifier(t *testing.T) {
	h := NewHandler(Options{})
	if err := h.ShowNotification("t", "b"); err != nil {
		t.Fatalf("ShowNotification returned %v, want nil", err)
	}
}

func TestMoveTo(t *testing.T) {
	h := NewHandler(Options{})
	win := &fakeWindow{width: 50, height: 1080}

	if err := h.MoveTo(win, 1870, 0); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	if win.x != 1870 || win.y != 0 || win.width != 50 {
		t.Fatalf("after MoveTo: %+v", win.bounds())
	}

	win.moveErr = errors.New("gone")
	if err := h.MoveTo(win, 0, 0); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("MoveTo error = %v, want ErrOperationFailed", err)
	}
}

func TestSingleRegistry(t *testing.T) {
	var reg Single

	if _, err := reg.Window(); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("empty registry error = %v, want ErrNoWindow", err)
	}

	win := &fakeWindow{}
	reg.Attach(win)
	got, err := reg.Window()
	if err != nil {
		t.Fatalf("Window(): %v", err)
	}
	if got != Handle(win) {
		t.Fatal("Window() returned a different handle")
	}

	reg.Detach()
	if _, err := reg.Window(); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("after Detach error = %v, want ErrNoWindow", err)
	}
}

func TestParseEdge(t *testing.T) {
	for _, e := range Edges() {
		got, err := ParseEdge(string(e))
		if err != nil || got != e {
			t.Fatalf("ParseEdge(%q) = %q, %v", e, got, err)
		}
	}
	if !EdgeLeft.Vertical() || !EdgeRight.Vertical() || EdgeTop.Vertical() || EdgeBottom.Vertical() {
		t.Fatal("Vertical() mismatch")
	}
}

// overlapWindow flags any call that starts while another is in flight.
type overlapWindow struct {
	active     atomic.Int32
	overlapped atomic.Bool
	calls      atomic.Int32
}

func (w *overlapWindow) enter() {
	w.calls.Add(1)
	if w.active.Add(1) > 1 {
		w.overlapped.Store(true)
	}
	time.Sleep(50 * time.Microsecond)
	w.active.Add(-1)
}

func (w *overlapWindow) SetSize(int, int) error     { w.enter(); return nil }
func (w *overlapWindow) SetPosition(int, int) error { w.enter(); return nil }
func (w *overlapWindow) Close() error               { w.enter(); return nil }

func TestHandler_SerializesConcurrentCommands(t *testing.T) {
	h := NewHandler(Options{})
	win := &overlapWindow{}
	edges := []string{"left", "right", "top", "bottom"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				switch (i + j) % 3 {
				case 0:
					_ = h.CloseWindow(win)
				case 1:
					_ = h.MoveTo(win, i, j)
				default:
					_ = h.RepositionWindow(win, edges[(i+j)%len(edges)], 1920, 1080)
				}
			}
		}(i)
	}
	wg.Wait()

	if win.overlapped.Load() {
		t.Fatalf("window calls overlapped; mutations must be serialized")
	}
	if win.calls.Load() == 0 {
		t.Fatalf("expected window calls")
	}
}
