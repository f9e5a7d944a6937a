// Package notify delivers desktop notifications.
package notify

import (
	"errors"
	"os"
	"runtime"

	"github.com/gen2brain/beeep"
)

// ErrHeadless is returned when there is no graphical session to notify.
var ErrHeadless = errors.New("no graphical session")

// Notifier shows a single desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// Disabled drops every notification.
type Disabled struct{}

func (Disabled) Notify(string, string) error { return nil }

// Desktop sends notifications through the platform's native API (D-Bus on
// Linux, toast on Windows, the notification center on macOS). Title and body
// are passed as structured arguments, never spliced into a shell command.
type Desktop struct {
	Icon string

	goos   string
	getenv func(string) string
	send   func(title, body string, icon any) error
}

// NewDesktop creates a Desktop notifier. icon may be empty.
func NewDesktop(icon string) *Desktop {
	return &Desktop{
		Icon:   icon,
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		send: func(title, body string, icon any) error {
			return beeep.Notify(title, body, icon)
		},
	}
}

// Notify sends the notification. Empty titles and bodies are passed through.
func (d *Desktop) Notify(title, body string) error {
	// beeep fails slowly on Linux without a display; skip it outright.
	if d.goos == "linux" && d.getenv("DISPLAY") == "" && d.getenv("WAYLAND_DISPLAY") == "" {
		return ErrHeadless
	}
	return d.send(title, body, d.Icon)
}
