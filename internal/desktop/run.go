package desktop

import (
	"context"
	"embed"
	"fmt"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend
var assets embed.FS

// Run opens the bar window and blocks until it is closed.
func Run(app *App) error {
	cfg := app.cfg
	bg := cfg.Window.Background

	err := wails.Run(&options.App{
		Title:         cfg.Window.Title,
		Width:         cfg.Window.Thickness,
		Height:        cfg.Screen.Height,
		MinWidth:      cfg.Window.Thickness,
		MinHeight:     cfg.Window.Thickness,
		Frameless:     cfg.Window.Frameless,
		AlwaysOnTop:   cfg.Window.AlwaysOnTop,
		DisableResize: true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: bg.R, G: bg.G, B: bg.B, A: bg.A},
		OnStartup: func(ctx context.Context) {
			app.Startup(ctx)
			if cfg.Tray.Enabled {
				startTray(ctx, app)
			}
		},
		OnDomReady:    app.DomReady,
		OnBeforeClose: app.BeforeClose,
		OnShutdown:    app.Shutdown,
		Bind: []interface{}{
			app,
		},
		Logger:   newWailsLogger(app.logger),
		LogLevel: wailsLogLevel(cfg.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
