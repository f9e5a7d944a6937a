package platform

import "errors"

// ErrUnsupported is returned by NewBackend on platforms without a native
// window-system backend.
var ErrUnsupported = errors.New("no native window-system backend for this platform")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Primary bool
	Bounds  Rect
	Usable  Rect
}

// Backend abstracts the window-system operations the shell needs beyond what
// the webview framework offers: real display geometry and atomic move+resize
// of our own top-level window.
type Backend interface {
	Displays() ([]Display, error)
	PrimaryDisplay() (Display, error)
	FindWindowByTitle(title string) (WindowID, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Close(windowID WindowID) error
	Disconnect()
}

// SelectPrimary picks the primary display from displays, falling back to the
// first one. ok is false when displays is empty.
func SelectPrimary(displays []Display) (Display, bool) {
	if len(displays) == 0 {
		return Display{}, false
	}
	for _, d := range displays {
		if d.Primary {
			return d, true
		}
	}
	return displays[0], true
}
