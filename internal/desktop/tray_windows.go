//go:build windows

package desktop

import (
	"context"
	_ "embed"

	"github.com/getlantern/systray"

	"github.com/1broseidon/remmeter/internal/window"
)

//go:embed icon.ico
var iconData []byte

// trayManager owns the notification-area icon and its menu.
type trayManager struct {
	ctx  context.Context
	app  *App
	pins map[window.Edge]*systray.MenuItem
	show *systray.MenuItem
	quit *systray.MenuItem
}

func startTray(ctx context.Context, app *App) {
	t := &trayManager{ctx: ctx, app: app, pins: make(map[window.Edge]*systray.MenuItem)}
	go systray.Run(t.onReady, t.onExit)
}

func (t *trayManager) onReady() {
	t.app.logger.Debug("initializing system tray")

	systray.SetIcon(iconData)
	systray.SetTitle(t.app.cfg.Window.Title)
	systray.SetTooltip(t.app.cfg.Window.Title)

	t.show = systray.AddMenuItem("Show", "Show the bar")
	systray.AddSeparator()
	for _, edge := range window.Edges() {
		t.pins[edge] = systray.AddMenuItemCheckbox("Pin "+edge.String(), "Pin the bar to the "+edge.String()+" edge", t.app.Edge() == edge)
	}
	systray.AddSeparator()
	t.quit = systray.AddMenuItem("Quit", "Quit RemMeter")

	for edge, item := range t.pins {
		go t.watchPin(edge, item)
	}
	go t.handleMenuEvents()
}

func (t *trayManager) onExit() {
	t.app.logger.Debug("system tray exited")
}

func (t *trayManager) watchPin(edge window.Edge, item *systray.MenuItem) {
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-item.ClickedCh:
			if err := t.app.ChangePosition(string(edge)); err != nil {
				t.app.logger.Warn("tray pin failed", "edge", edge, "error", err)
				continue
			}
			t.syncChecks()
		}
	}
}

func (t *trayManager) syncChecks() {
	current := t.app.Edge()
	for edge, item := range t.pins {
		if edge == current {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

func (t *trayManager) handleMenuEvents() {
	for {
		select {
		case <-t.ctx.Done():
			systray.Quit()
			return
		case <-t.show.ClickedCh:
			t.app.ShowWindow()
		case <-t.quit.ClickedCh:
			t.app.CloseApp()
			systray.Quit()
			return
		}
	}
}
