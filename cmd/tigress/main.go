package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfgPath := flag.String("config", "", "config file (default .tigress.yaml in the working dir, then $HOME)")
	verbose := flag.Bool("v", false, "print the parse tree and trace every evaluation step")
	typing := flag.Bool("t", false, "type check the program before running it")
	tui := flag.Bool("tui", false, "interactive terminal UI")
	jobs := flag.Int("j", 1, "number of program files evaluated concurrently")
	dump := flag.Bool("dump", false, "print the parse tree as YAML and exit")
	maxDepth := flag.Int("max-depth", 0, "maximum nested function calls (0 keeps the default)")
	maxArray := flag.Int64("max-array", 0, "maximum length of one array (0 keeps the default)")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Verbose = *verbose
		case "t":
			cfg.Typecheck = *typing
		case "tui":
			cfg.TUI = *tui
		case "j":
			cfg.Jobs = *jobs
		case "max-depth":
			cfg.MaxCallDepth = *maxDepth
		case "max-array":
			cfg.MaxArraySize = *maxArray
		}
	})
	cfg.Dump = *dump

	if cfg.TUI {
		p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger := newLogger(os.Stderr, cfg.Verbose)
	if flag.NArg() > 0 {
		err = runFiles(context.Background(), cfg, logger, flag.Args())
	} else {
		err = runStdin(cfg, logger)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
