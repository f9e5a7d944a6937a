package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/remmeter/internal/platform"
	"github.com/1broseidon/remmeter/internal/window"
)

// wailsHandle adapts the Wails runtime to window.Handle. The runtime calls
// are fire-and-forget, so only Close can fail.
type wailsHandle struct {
	ctx    context.Context
	rt     Runtime
	closed atomic.Bool
}

var _ window.Handle = (*wailsHandle)(nil)

func newWailsHandle(ctx context.Context, rt Runtime) *wailsHandle {
	return &wailsHandle{ctx: ctx, rt: rt}
}

func (h *wailsHandle) SetSize(width, height int) error {
	if h.closed.Load() {
		return window.ErrClosed
	}
	h.rt.WindowSetSize(h.ctx, width, height)
	return nil
}

func (h *wailsHandle) SetPosition(x, y int) error {
	if h.closed.Load() {
		return window.ErrClosed
	}
	h.rt.WindowSetPosition(h.ctx, x, y)
	return nil
}

// markClosed records that the framework is closing the window on its own.
func (h *wailsHandle) markClosed() {
	h.closed.Store(true)
}

func (h *wailsHandle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return window.ErrClosed
	}
	h.rt.Quit(h.ctx)
	return nil
}

// nativeHandle adds atomic move+resize and WM_DELETE_WINDOW close through
// the platform backend. The native window is looked up by title; until that
// succeeds the handle uses the Wails calls and retries the lookup next time.
type nativeHandle struct {
	*wailsHandle

	backend platform.Backend
	title   string
	logger  *slog.Logger

	mu sync.Mutex
	id platform.WindowID
}

var (
	_ window.Handle       = (*nativeHandle)(nil)
	_ window.BoundsSetter = (*nativeHandle)(nil)
)

func newNativeHandle(base *wailsHandle, backend platform.Backend, title string, logger *slog.Logger) *nativeHandle {
	return &nativeHandle{
		wailsHandle: base,
		backend:     backend,
		title:       title,
		logger:      logger,
	}
}

// windowID caches only a successful lookup. The webview is not mapped yet
// when OnStartup runs, so an early miss is expected.
func (h *nativeHandle) windowID() (platform.WindowID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.id != 0 {
		return h.id, nil
	}
	id, err := h.backend.FindWindowByTitle(h.title)
	if err != nil {
		h.logger.Debug("native window not found yet, using webview geometry", "title", h.title, "error", err)
		return 0, err
	}
	h.id = id
	return id, nil
}

func (h *nativeHandle) SetBounds(bounds platform.Rect) error {
	if h.closed.Load() {
		return window.ErrClosed
	}
	id, err := h.windowID()
	if err != nil {
		if err := h.wailsHandle.SetSize(bounds.Width, bounds.Height); err != nil {
			return err
		}
		return h.wailsHandle.SetPosition(bounds.X, bounds.Y)
	}
	if err := h.backend.MoveResize(id, bounds); err != nil {
		return fmt.Errorf("move/resize window 0x%x: %w", uint32(id), err)
	}
	return nil
}

// Close asks the window manager to close the window, which runs the same
// OnBeforeClose path as the title bar button. Quit is the fallback.
func (h *nativeHandle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return window.ErrClosed
	}
	if id, err := h.windowID(); err == nil {
		err := h.backend.Close(id)
		if err == nil {
			return nil
		}
		h.logger.Warn("WM_DELETE_WINDOW failed, quitting directly", "error", err)
	}
	h.rt.Quit(h.ctx)
	return nil
}
