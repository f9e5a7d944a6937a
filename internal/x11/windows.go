package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// MoveResizeWindow sets the window's geometry in one request. The EWMH
// request goes through the window manager; without one it configures the
// window directly, and that error is returned.
func (c *Connection) MoveResizeWindow(win xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore geometry requests on most WMs.
	c.unmaximize(win)

	if err := ewmh.MoveresizeWindow(c.XUtil, win, x, y, width, height); err == nil {
		return nil
	}

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)}
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), win, mask, values).Check(); err != nil {
		return fmt.Errorf("configure window: %w", err)
	}
	return nil
}

func (c *Connection) unmaximize(win xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_MAXIMIZED_HORZ" || s == "_NET_WM_STATE_MAXIMIZED_VERT" {
			ewmh.WmStateReq(c.XUtil, win, ewmh.StateRemove, s)
		}
	}
}

// FindWindowByTitle returns the first managed client whose title equals title.
// The webview only shows up in _NET_CLIENT_LIST once it is mapped.
func (c *Connection) FindWindowByTitle(title string) (xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to list clients: %w", err)
	}

	want := strings.TrimSpace(title)
	for _, win := range clients {
		if c.windowTitle(win) == want {
			return win, nil
		}
	}
	return 0, fmt.Errorf("no window titled %q", title)
}

// CloseWindow asks the window manager to close win (_NET_CLOSE_WINDOW). With
// no EWMH manager it sends WM_DELETE_WINDOW to the client itself.
func (c *Connection) CloseWindow(win xproto.Window) error {
	if err := ewmh.CloseWindow(c.XUtil, win); err == nil {
		return nil
	}

	protocols, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	deleteWindow, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteWindow), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

func (c *Connection) hasWindowType(win xproto.Window, want string) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func (c *Connection) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
