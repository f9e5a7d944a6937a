package desktop

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Runtime is the slice of the Wails runtime the shell drives. The App talks
// to it through this interface so commands can be exercised without a
// webview.
type Runtime interface {
	WindowSetSize(ctx context.Context, width, height int)
	WindowSetPosition(ctx context.Context, x, y int)
	WindowShow(ctx context.Context)
	WindowUnminimise(ctx context.Context)
	Quit(ctx context.Context)
	ScreenGetAll(ctx context.Context) ([]runtime.Screen, error)
	EventsEmit(ctx context.Context, name string, data ...interface{})
}

type wailsRuntime struct{}

func (wailsRuntime) WindowSetSize(ctx context.Context, width, height int) {
	runtime.WindowSetSize(ctx, width, height)
}

func (wailsRuntime) WindowSetPosition(ctx context.Context, x, y int) {
	runtime.WindowSetPosition(ctx, x, y)
}

func (wailsRuntime) WindowShow(ctx context.Context) {
	runtime.WindowShow(ctx)
}

func (wailsRuntime) WindowUnminimise(ctx context.Context) {
	runtime.WindowUnminimise(ctx)
}

func (wailsRuntime) Quit(ctx context.Context) {
	runtime.Quit(ctx)
}

func (wailsRuntime) ScreenGetAll(ctx context.Context) ([]runtime.Screen, error) {
	return runtime.ScreenGetAll(ctx)
}

func (wailsRuntime) EventsEmit(ctx context.Context, name string, data ...interface{}) {
	runtime.EventsEmit(ctx, name, data...)
}
