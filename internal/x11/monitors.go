package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is one active RandR output in root-window coordinates.
type Monitor struct {
	ID      int
	Name    string
	Primary bool
	X       int
	Y       int
	Width   int
	Height  int
}

// GetMonitors lists the enabled CRTCs, in CRTC order, named after their first
// output.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	xc := c.XUtil.Conn()
	if err := randr.Init(xc); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	res, err := randr.GetScreenResources(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(xc, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	monitors := make([]Monitor, 0, len(res.Crtcs))
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(xc, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		m := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("Monitor%d", i),
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		if out, err := randr.GetOutputInfo(xc, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			m.Name = string(out.Name)
		}
		for _, o := range info.Outputs {
			m.Primary = m.Primary || (primary != 0 && o == primary)
		}
		monitors = append(monitors, m)
	}
	return monitors, nil
}

// WorkArea returns m minus the space panels and docks reserve on it. Dock
// struts are per monitor; _NET_WORKAREA is used only when no dock declares
// any, since most window managers report it for the whole root window.
func (c *Connection) WorkArea(m Monitor) Monitor {
	if r := c.dockReservation(m); r != (reservation{}) {
		return r.shrink(m)
	}
	if wa, ok := c.currentWorkarea(); ok {
		if b := boxOf(m).clip(wa); !b.empty() {
			return b.apply(m)
		}
	}
	return m
}

func (c *Connection) currentWorkarea() (box, bool) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return box{}, false
	}
	idx := 0
	if d, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(d) < len(areas) {
		idx = int(d)
	}
	a := areas[idx]
	return box{x1: a.X, y1: a.Y, x2: a.X + int(a.Width), y2: a.Y + int(a.Height)}, true
}

func (c *Connection) dockReservation(m Monitor) reservation {
	root, err := c.rootBox()
	if err != nil {
		return reservation{}
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return reservation{}
	}

	var r reservation
	for _, win := range clients {
		if !c.hasWindowType(win, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			// Older docks only set _NET_WM_STRUT.
			s, err := ewmh.WmStrutGet(c.XUtil, win)
			if err != nil {
				continue
			}
			sp = strutAcrossRoot(s, root)
		}
		r.reserve(boxOf(m), root, sp)
	}
	return r
}

// box is a half-open rectangle [x1,x2) x [y1,y2).
type box struct {
	x1, y1, x2, y2 int
}

func boxOf(m Monitor) box {
	return box{x1: m.X, y1: m.Y, x2: m.X + m.Width, y2: m.Y + m.Height}
}

func (b box) empty() bool { return b.x2 <= b.x1 || b.y2 <= b.y1 }
func (b box) width() int  { return b.x2 - b.x1 }
func (b box) height() int { return b.y2 - b.y1 }

func (b box) clip(o box) box {
	r := box{x1: max(b.x1, o.x1), y1: max(b.y1, o.y1), x2: min(b.x2, o.x2), y2: min(b.y2, o.y2)}
	if r.empty() {
		return box{}
	}
	return r
}

func (b box) apply(m Monitor) Monitor {
	m.X, m.Y, m.Width, m.Height = b.x1, b.y1, b.width(), b.height()
	return m
}

// reservation is how many pixels docks take from each side of one monitor.
type reservation struct {
	left, right, top, bottom int
}

// reserve adds the parts of sp that overlap mon. Strut ranges are inclusive.
func (r *reservation) reserve(mon, root box, sp *ewmh.WmStrutPartial) {
	if sp.Top > 0 {
		band := box{x1: int(sp.TopStartX), y1: root.y1, x2: int(sp.TopEndX) + 1, y2: int(sp.Top)}
		r.top = max(r.top, mon.clip(band).height())
	}
	if sp.Bottom > 0 {
		band := box{x1: int(sp.BottomStartX), y1: root.y2 - int(sp.Bottom), x2: int(sp.BottomEndX) + 1, y2: root.y2}
		r.bottom = max(r.bottom, mon.clip(band).height())
	}
	if sp.Left > 0 {
		band := box{x1: root.x1, y1: int(sp.LeftStartY), x2: int(sp.Left), y2: int(sp.LeftEndY) + 1}
		r.left = max(r.left, mon.clip(band).width())
	}
	if sp.Right > 0 {
		band := box{x1: root.x2 - int(sp.Right), y1: int(sp.RightStartY), x2: root.x2, y2: int(sp.RightEndY) + 1}
		r.right = max(r.right, mon.clip(band).width())
	}
}

func (r reservation) shrink(m Monitor) Monitor {
	m.X += r.left
	m.Y += r.top
	m.Width = max(m.Width-r.left-r.right, 1)
	m.Height = max(m.Height-r.top-r.bottom, 1)
	return m
}

func strutAcrossRoot(s *ewmh.WmStrut, root box) *ewmh.WmStrutPartial {
	lastX, lastY := uint(root.x2-1), uint(root.y2-1)
	return &ewmh.WmStrutPartial{
		Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
		LeftEndY: lastY, RightEndY: lastY,
		TopEndX: lastX, BottomEndX: lastX,
	}
}
