package window

import "github.com/1broseidon/remmeter/internal/platform"

// DefaultThickness is the width of a vertical strip or the height of a
// horizontal one, in pixels.
const DefaultThickness = 50

// Expanded holds the strip thickness used while the bar is hovered.
type Expanded struct {
	Vertical   int // left/right strips
	Horizontal int // top/bottom strips
}

// DefaultExpanded matches the hover sizes of the bar's front end.
var DefaultExpanded = Expanded{Vertical: 200, Horizontal: 100}

func (x Expanded) thickness(edge Edge) int {
	if edge.Vertical() {
		return x.Vertical
	}
	return x.Horizontal
}

// StripBounds returns the rectangle of a strip of the given thickness pinned
// to edge of display. The result is offset by the display origin.
func StripBounds(edge Edge, display platform.Rect, thickness int) platform.Rect {
	r := platform.Rect{X: display.X, Y: display.Y}

	switch edge {
	case EdgeLeft:
		r.Width, r.Height = thickness, display.Height
	case EdgeRight:
		r.Width, r.Height = thickness, display.Height
		r.X += display.Width - thickness
	case EdgeTop:
		r.Width, r.Height = display.Width, thickness
	case EdgeBottom:
		r.Width, r.Height = display.Width, thickness
		r.Y += display.Height - thickness
	}

	return r
}
