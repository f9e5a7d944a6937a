package desktop

import (
	"context"
	"errors"
	"log/slog"

	"github.com/1broseidon/remmeter/internal/platform"
)

var errNoScreens = errors.New("no screens reported")

// ScreenProvider returns the area the bar is pinned within.
type ScreenProvider interface {
	Screen(ctx context.Context) platform.Rect
}

// screenChain asks the native backend for the primary work area, then the
// webview runtime, then falls back to a fixed size.
type screenChain struct {
	backend  platform.Backend // may be nil
	rt       Runtime
	fallback platform.Rect
	logger   *slog.Logger
}

func (s *screenChain) Screen(ctx context.Context) platform.Rect {
	if s.backend != nil {
		d, err := s.backend.PrimaryDisplay()
		if err == nil && d.Usable.Width > 0 && d.Usable.Height > 0 {
			return d.Usable
		}
		s.logger.Debug("native display query failed", "error", err)
	}

	if s.rt != nil && ctx != nil {
		r, err := s.runtimeScreen(ctx)
		if err == nil {
			return r
		}
		s.logger.Debug("runtime screen query failed", "error", err)
	}

	s.logger.Warn("using fallback screen size", "width", s.fallback.Width, "height", s.fallback.Height)
	return s.fallback
}

func (s *screenChain) runtimeScreen(ctx context.Context) (platform.Rect, error) {
	screens, err := s.rt.ScreenGetAll(ctx)
	if err != nil {
		return platform.Rect{}, err
	}
	if len(screens) == 0 {
		return platform.Rect{}, errNoScreens
	}
	chosen := screens[0]
	for _, sc := range screens {
		if sc.IsPrimary {
			chosen = sc
			break
		}
		if sc.IsCurrent {
			chosen = sc
		}
	}
	if chosen.Size.Width <= 0 || chosen.Size.Height <= 0 {
		return platform.Rect{}, errNoScreens
	}
	// Wails reports sizes only; positions are relative to that screen.
	return platform.Rect{Width: chosen.Size.Width, Height: chosen.Size.Height}, nil
}
