package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/1broseidon/remmeter/internal/config"
	"github.com/1broseidon/remmeter/internal/desktop"
	"github.com/1broseidon/remmeter/internal/logging"
	"github.com/1broseidon/remmeter/internal/notify"
	"github.com/1broseidon/remmeter/internal/platform"
	"github.com/1broseidon/remmeter/internal/runtimepath"
	"github.com/1broseidon/remmeter/internal/window"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(runApp(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runApp(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:], os.Stdout, os.Stderr))
	case "notify":
		os.Exit(runNotify(os.Args[2:], os.Stderr))
	case "config":
		os.Exit(runConfig(os.Args[2:], os.Stdout, os.Stderr))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: remmeter [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the timer bar (default)")
	fmt.Fprintln(w, "  displays            List displays and their work areas")
	fmt.Fprintln(w, "  notify TITLE BODY   Send a desktop notification")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "  config edit         Edit configuration interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'remmeter <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runApp(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/remmeter/config.yaml)")
	edge := fs.String("edge", "", "Pin to this edge on startup (left, right, top, bottom)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: remmeter run [--config PATH] [--edge EDGE]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config

	if *edge != "" {
		if _, err := window.ParseEdge(*edge); err != nil {
			fmt.Fprintf(os.Stderr, "--edge: %v\n", err)
			return 2
		}
		cfg.Startup.Edge = *edge
		cfg.Startup.X, cfg.Startup.Y = nil, nil
	}

	logFile := cfg.LogFile
	if logFile == "" {
		if p, err := runtimepath.LogPath(); err == nil {
			logFile = p
		}
	}
	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: logFile, Prefix: "remmeter"})
	if err != nil {
		log.Printf("Failed to set up logging: %v", err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "files", res.Files, "thickness", cfg.Window.Thickness, "edge", cfg.Startup.Edge)

	var backend platform.Backend
	if b, err := platform.NewBackend(); err == nil {
		backend = b
	} else {
		logger.Info("native backend unavailable, using webview geometry", "error", err)
	}

	var notifier notify.Notifier = notify.Disabled{}
	if cfg.Notifications.Enabled {
		notifier = notify.NewDesktop(cfg.Notifications.Icon)
	}

	app := desktop.NewApp(desktop.Options{
		Config:   cfg,
		Logger:   logger,
		Notifier: notifier,
		Backend:  backend,
	})
	if err := desktop.Run(app); err != nil {
		logger.Error("remmeter exited", "error", err)
		return 1
	}
	return 0
}

func runDisplays(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(stdout, "Usage: remmeter displays")
		return 0
	}

	backend, err := platform.NewBackend()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to connect to display: %v\n", err)
		return 1
	}
	defer backend.Disconnect()

	displays, err := backend.Displays()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to list displays: %v\n", err)
		return 1
	}
	printDisplays(stdout, displays)

	if primary, err := backend.PrimaryDisplay(); err == nil {
		u := primary.Usable
		fmt.Fprintf(stdout, "\nwork area (primary): %dx%d+%d+%d\n", u.Width, u.Height, u.X, u.Y)
	}
	return 0
}

func printDisplays(w io.Writer, displays []platform.Display) {
	for _, d := range displays {
		marker := " "
		if d.Primary {
			marker = "*"
		}
		b := d.Bounds
		fmt.Fprintf(w, "%s %d %-10s %dx%d+%d+%d\n", marker, d.ID, d.Name, b.Width, b.Height, b.X, b.Y)
	}
}

func runNotify(args []string, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, "Usage: remmeter notify TITLE BODY")
		return 2
	}
	if err := notify.NewDesktop("").Notify(args[0], args[1]); err != nil {
		fmt.Fprintf(stderr, "notify: %v\n", err)
		return 1
	}
	return 0
}
