//go:build linux

package platform

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/remmeter/internal/x11"
)

// LinuxBackend answers display and window queries over one X11 connection.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

var errNoConnection = errors.New("x11 backend is not connected")

// NewBackend connects to $DISPLAY. It fails on Wayland-only sessions and
// headless machines; callers then use the webview's own screen API.
func NewBackend() (Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays lists every active display. Usable equals Bounds here; only
// PrimaryDisplay resolves the work area.
func (b *LinuxBackend) Displays() ([]Display, error) {
	_, displays, err := b.monitors()
	return displays, err
}

// PrimaryDisplay returns the RandR primary display (the first one when none
// is flagged) with Usable set to what panels and docks leave free.
func (b *LinuxBackend) PrimaryDisplay() (Display, error) {
	monitors, displays, err := b.monitors()
	if err != nil {
		return Display{}, err
	}
	primary, ok := SelectPrimary(displays)
	if !ok {
		return Display{}, errors.New("no active displays")
	}
	for _, m := range monitors {
		if m.ID == primary.ID {
			primary.Usable = rectOf(b.conn.WorkArea(m))
		}
	}
	return primary, nil
}

func (b *LinuxBackend) FindWindowByTitle(title string) (WindowID, error) {
	if b == nil || b.conn == nil {
		return 0, errNoConnection
	}
	win, err := b.conn.FindWindowByTitle(title)
	return WindowID(win), err
}

// MoveResize applies bounds to the window in one request.
func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	if b == nil || b.conn == nil {
		return errNoConnection
	}
	return b.conn.MoveResizeWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Close asks the window manager to close the window, as its close button would.
func (b *LinuxBackend) Close(id WindowID) error {
	if b == nil || b.conn == nil {
		return errNoConnection
	}
	return b.conn.CloseWindow(xproto.Window(id))
}

// monitors returns the RandR monitors (CRTC order, which is also ID order)
// alongside their Display form.
func (b *LinuxBackend) monitors() ([]x11.Monitor, []Display, error) {
	if b == nil || b.conn == nil {
		return nil, nil, errNoConnection
	}
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, nil, err
	}
	displays := make([]Display, len(monitors))
	for i, m := range monitors {
		displays[i] = Display{
			ID:      m.ID,
			Name:    m.Name,
			Primary: m.Primary,
			Bounds:  rectOf(m),
			Usable:  rectOf(m),
		}
	}
	return monitors, displays, nil
}

func rectOf(m x11.Monitor) Rect {
	return Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}
