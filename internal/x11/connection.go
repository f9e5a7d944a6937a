// Package x11 is the thin slice of X11 the bar needs: monitor geometry, the
// usable work area, and moving or closing its own top-level window.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection is an open X11 connection and its root window.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to the server named by $DISPLAY. RandR and EWMH are
// queried on demand.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

func (c *Connection) rootBox() (box, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return box{}, fmt.Errorf("root geometry: %w", err)
	}
	return box{x2: int(geom.Width), y2: int(geom.Height)}, nil
}
