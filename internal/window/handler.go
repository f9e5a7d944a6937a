// Package window implements the commands the front end invokes against the
// application window: close it, pin it to a screen edge, and show a desktop
// notification.
//
// The window itself is owned by the host framework. Commands borrow a Handle
// for the duration of a single call and keep nothing afterwards.
package window

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/1broseidon/remmeter/internal/notify"
	"github.com/1broseidon/remmeter/internal/platform"
)

// Handle is the capability to mutate one window.
type Handle interface {
	SetSize(width, height int) error
	SetPosition(x, y int) error
	Close() error
}

// BoundsSetter is implemented by handles that can move and resize in a
// single window-manager request.
type BoundsSetter interface {
	SetBounds(bounds platform.Rect) error
}

// Options configures a Handler.
type Options struct {
	Thickness int
	Expanded  Expanded
	Notifier  notify.Notifier
	Logger    *slog.Logger
}

// Handler executes window commands. Mutations are serialized so a close
// racing a reposition is applied in some order rather than interleaved.
type Handler struct {
	mu        sync.Mutex
	thickness int
	expanded  Expanded
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewHandler creates a Handler. Zero-valued options fall back to defaults.
func NewHandler(opts Options) *Handler {
	if opts.Thickness <= 0 {
		opts.Thickness = DefaultThickness
	}
	if opts.Expanded.Vertical <= 0 {
		opts.Expanded.Vertical = DefaultExpanded.Vertical
	}
	if opts.Expanded.Horizontal <= 0 {
		opts.Expanded.Horizontal = DefaultExpanded.Horizontal
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Disabled{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		thickness: opts.Thickness,
		expanded:  opts.Expanded,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
	}
}

// Thickness returns the collapsed strip thickness.
func (h *Handler) Thickness() int {
	return h.thickness
}

// CloseWindow closes the window behind win. Closing a window that is already
// closed is reported as ErrOperationFailed rather than treated as fatal.
func (h *Handler) CloseWindow(win Handle) error {
	if win == nil {
		return OperationFailed("close window", ErrNoWindow)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := win.Close(); err != nil {
		return OperationFailed("close window", err)
	}
	h.logger.Debug("window closed")
	return nil
}

// ShowNotification displays a desktop notification. It is best-effort and
// always returns nil.
func (h *Handler) ShowNotification(title, body string) error {
	if err := h.notifier.Notify(title, body); err != nil {
		h.logger.Debug("notification dropped", "title", title, "error", err)
	}
	return nil
}

// RepositionWindow pins win to edge of a screen of the given size whose
// origin is (0, 0).
func (h *Handler) RepositionWindow(win Handle, edge string, screenWidth, screenHeight int) error {
	return h.RepositionOnDisplay(win, edge, platform.Rect{Width: screenWidth, Height: screenHeight})
}

// RepositionOnDisplay pins win to edge of display.
func (h *Handler) RepositionOnDisplay(win Handle, edge string, display platform.Rect) error {
	e, err := ParseEdge(edge)
	if err != nil {
		return err
	}
	return h.applyStrip(win, e, display, h.thickness)
}

// ExpandWindow grows the strip on edge to its hover thickness, or shrinks it
// back when expand is false.
func (h *Handler) ExpandWindow(win Handle, edge string, expand bool, display platform.Rect) error {
	e, err := ParseEdge(edge)
	if err != nil {
		return err
	}
	thickness := h.thickness
	if expand {
		thickness = h.expanded.thickness(e)
	}
	return h.applyStrip(win, e, display, thickness)
}

// MoveTo places the top-left corner of win at (x, y) without resizing.
func (h *Handler) MoveTo(win Handle, x, y int) error {
	if win == nil {
		return OperationFailed("move window", ErrNoWindow)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := win.SetPosition(x, y); err != nil {
		return OperationFailed("move window", err)
	}
	return nil
}

func (h *Handler) applyStrip(win Handle, edge Edge, display platform.Rect, thickness int) error {
	if display.Width < thickness || display.Height < thickness {
		return InvalidArgument(fmt.Sprintf("screen %dx%d is smaller than a %dpx strip", display.Width, display.Height, thickness))
	}
	if win == nil {
		return OperationFailed("reposition window", ErrNoWindow)
	}

	bounds := StripBounds(edge, display, thickness)

	h.mu.Lock()
	defer h.mu.Unlock()

	if bs, ok := win.(BoundsSetter); ok {
		if err := bs.SetBounds(bounds); err != nil {
			return OperationFailed("reposition window", err)
		}
	} else {
		// Size first: some window managers clamp a move against the old size.
		if err := win.SetSize(bounds.Width, bounds.Height); err != nil {
			return OperationFailed("resize window", err)
		}
		if err := win.SetPosition(bounds.X, bounds.Y); err != nil {
			return OperationFailed("move window", err)
		}
	}

	h.logger.Debug("window pinned",
		"edge", edge,
		"x", bounds.X, "y", bounds.Y,
		"width", bounds.Width, "height", bounds.Height,
	)
	return nil
}
