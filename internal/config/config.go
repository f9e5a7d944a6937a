package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Edge keywords accepted by startup.edge. Kept here rather than imported from
// the window package so config stays dependency-free.
var validEdges = []string{"left", "right", "top", "bottom"}

// WindowConfig describes the bar window.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Thickness   int    `yaml:"thickness"`    // collapsed strip size in pixels
	AlwaysOnTop bool   `yaml:"always_on_top"`
	Frameless   bool   `yaml:"frameless"`
	// NativeGeometry lets the X11 backend move+resize the window atomically.
	NativeGeometry bool             `yaml:"native_geometry"`
	Expanded       ExpandedConfig   `yaml:"expanded_thickness"`
	Background     BackgroundColour `yaml:"background"`
}

// ExpandedConfig is the strip size while the bar is hovered.
type ExpandedConfig struct {
	Vertical   int `yaml:"vertical"`   // left/right strips
	Horizontal int `yaml:"horizontal"` // top/bottom strips
}

// BackgroundColour is an RGBA window background.
type BackgroundColour struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// StartupConfig controls where the window goes when the app launches. An
// explicit X/Y wins over Edge; with neither set the window stays where the
// framework put it.
type StartupConfig struct {
	Edge string `yaml:"edge,omitempty"`
	X    *int   `yaml:"x,omitempty"`
	Y    *int   `yaml:"y,omitempty"`
}

// HasPoint reports whether an explicit startup coordinate is configured.
func (s StartupConfig) HasPoint() bool {
	return s.X != nil && s.Y != nil
}

// ScreenConfig is the fallback screen size used when no display can be queried.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type NotificationsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Icon    string `yaml:"icon,omitempty"`
}

// TimerConfig configures the countdown.
type TimerConfig struct {
	DefaultSeconds    int     `yaml:"default_seconds"`
	WarningThreshold  float64 `yaml:"warning_threshold"`  // progress fraction, 0-1
	CriticalThreshold float64 `yaml:"critical_threshold"` // progress fraction, 0-1
	NotifyOnFinish    bool    `yaml:"notify_on_finish"`
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the effective remmeter configuration.
type Config struct {
	Window        WindowConfig        `yaml:"window"`
	Startup       StartupConfig       `yaml:"startup"`
	Screen        ScreenConfig        `yaml:"screen"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Timer         TimerConfig         `yaml:"timer"`
	Tray          TrayConfig          `yaml:"tray"`
	LogLevel      string              `yaml:"log_level"`
	LogFile       string              `yaml:"log_file,omitempty"`
}

// DefaultConfig returns the built-in configuration: a 50px bar pinned to the
// right edge with a five minute countdown.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:          "RemMeter",
			Thickness:      50,
			AlwaysOnTop:    true,
			Frameless:      true,
			NativeGeometry: true,
			Expanded: ExpandedConfig{
				Vertical:   200,
				Horizontal: 100,
			},
			Background: BackgroundColour{R: 27, G: 38, B: 54, A: 255},
		},
		Startup: StartupConfig{
			Edge: "right",
		},
		Screen: ScreenConfig{
			Width:  1920,
			Height: 1080,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
		Timer: TimerConfig{
			DefaultSeconds:    300,
			WarningThreshold:  0.6,
			CriticalThreshold: 0.8,
			NotifyOnFinish:    true,
		},
		Tray: TrayConfig{
			Enabled: true,
		},
		LogLevel: "info",
	}
}

// ValidationError reports an invalid config value, optionally with the YAML
// location it came from.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Window.Title) == "" {
		return &ValidationError{Path: "window.title", Err: fmt.Errorf("title is required")}
	}
	if c.Window.Thickness <= 0 {
		return &ValidationError{Path: "window.thickness", Err: fmt.Errorf("thickness must be > 0")}
	}
	if c.Window.Expanded.Vertical < c.Window.Thickness {
		return &ValidationError{Path: "window.expanded_thickness.vertical", Err: fmt.Errorf("must be >= window.thickness (%d)", c.Window.Thickness)}
	}
	if c.Window.Expanded.Horizontal < c.Window.Thickness {
		return &ValidationError{Path: "window.expanded_thickness.horizontal", Err: fmt.Errorf("must be >= window.thickness (%d)", c.Window.Thickness)}
	}

	if c.Startup.Edge != "" && !isValidEdge(c.Startup.Edge) {
		return &ValidationError{Path: "startup.edge", Err: fmt.Errorf("edge must be one of: %s", strings.Join(validEdges, ", "))}
	}
	if (c.Startup.X == nil) != (c.Startup.Y == nil) {
		return &ValidationError{Path: "startup", Err: fmt.Errorf("x and y must be set together")}
	}

	if c.Screen.Width < c.Window.Thickness || c.Screen.Height < c.Window.Thickness {
		return &ValidationError{Path: "screen", Err: fmt.Errorf("fallback screen %dx%d is smaller than the bar thickness", c.Screen.Width, c.Screen.Height)}
	}

	if c.Timer.DefaultSeconds <= 0 {
		return &ValidationError{Path: "timer.default_seconds", Err: fmt.Errorf("default_seconds must be > 0")}
	}
	if c.Timer.WarningThreshold <= 0 || c.Timer.WarningThreshold >= 1 {
		return &ValidationError{Path: "timer.warning_threshold", Err: fmt.Errorf("warning_threshold must be between 0 and 1")}
	}
	if c.Timer.CriticalThreshold <= c.Timer.WarningThreshold || c.Timer.CriticalThreshold >= 1 {
		return &ValidationError{Path: "timer.critical_threshold", Err: fmt.Errorf("critical_threshold must be between warning_threshold and 1")}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, warning, error")}
	}
	return nil
}

func isValidEdge(edge string) bool {
	for _, e := range validEdges {
		if e == edge {
			return true
		}
	}
	return false
}

// SaveTo writes the configuration to path. Comments in an existing file are
// not preserved.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
