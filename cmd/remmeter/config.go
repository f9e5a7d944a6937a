package main

import (
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/remmeter/internal/config"
	"github.com/1broseidon/remmeter/internal/tui"
)

const pathUsage = "Config file path (default: ~/.config/remmeter/config.yaml)"

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  remmeter config validate [--path PATH]")
	fmt.Fprintln(w, "  remmeter config print [--path PATH] [--defaults]")
	fmt.Fprintln(w, "  remmeter config explain [--path PATH] <yaml.path>")
	fmt.Fprintln(w, "  remmeter config path")
	fmt.Fprintln(w, "  remmeter config edit [--path PATH]")
}

func runConfig(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "", pathUsage)
	printDefaults := fs.Bool("defaults", false, "Print built-in defaults (print only)")
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	switch args[0] {
	case "validate":
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "config: ok")
		return 0

	case "print":
		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprint(stdout, string(data))
		return 0

	case "explain":
		if fs.NArg() < 1 {
			fmt.Fprintln(stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "path: %s\n", queryPath)
		fmt.Fprintf(stdout, "source: %s\n", config.FormatSource(src))
		fmt.Fprintf(stdout, "value:\n%s", string(out))
		return 0

	case "path":
		p := *path
		if p == "" {
			var err error
			if p, err = config.DefaultConfigPath(); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
		}
		fmt.Fprintln(stdout, p)
		return 0

	case "edit":
		if err := tui.Run(*path); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}
