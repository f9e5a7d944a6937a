//go:build !windows

package desktop

import "context"

// The systray event loop fights the webview for the main thread outside
// Windows, so the tray is only offered there.
func startTray(ctx context.Context, app *App) {
	app.logger.Debug("system tray not available on this platform")
}
