package desktop

import (
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// wailsLogger forwards framework log lines into the app's slog logger.
type wailsLogger struct {
	l *slog.Logger
}

var _ logger.Logger = wailsLogger{}

func newWailsLogger(l *slog.Logger) wailsLogger {
	return wailsLogger{l: l.With("component", "wails")}
}

func (w wailsLogger) Print(message string)   { w.l.Info(message) }
func (w wailsLogger) Trace(message string)   { w.l.Debug(message) }
func (w wailsLogger) Debug(message string)   { w.l.Debug(message) }
func (w wailsLogger) Info(message string)    { w.l.Info(message) }
func (w wailsLogger) Warning(message string) { w.l.Warn(message) }
func (w wailsLogger) Error(message string)   { w.l.Error(message) }

func (w wailsLogger) Fatal(message string) {
	w.l.Error(message)
	os.Exit(1)
}

// wailsLogLevel maps a config log_level onto the framework's level.
func wailsLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.DEBUG
	case "warn", "warning":
		return logger.WARNING
	case "error":
		return logger.ERROR
	default:
		return logger.INFO
	}
}
