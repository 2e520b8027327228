package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// runFiles evaluates every path, up to cfg.Jobs at a time, and prints the
// outcomes in argument order.
func runFiles(ctx context.Context, cfg appConfig, logger *slog.Logger, paths []string) error {
	outs := make([]outcome, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			outs[i] = evaluate(cfg, logger, filepath.Base(path), string(src))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, out := range outs {
		if !report(os.Stdout, os.Stderr, out, len(paths) > 1) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d program(s) failed", failed, len(paths))
	}
	return nil
}

// runStdin starts the REPL on a terminal and otherwise evaluates all of
// stdin as one program.
func runStdin(cfg appConfig, logger *slog.Logger) error {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return runREPL(cfg, logger)
	}
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return errors.Wrap(err, "read stdin")
	}
	if !report(os.Stdout, os.Stderr, evaluate(cfg, logger, "<stdin>", string(src)), false) {
		return errors.New("evaluation failed")
	}
	return nil
}

// report prints out and returns false when it carries an error.
func report(stdout, stderr io.Writer, out outcome, named bool) bool {
	prefix := ""
	if named {
		prefix = out.name + ": "
	}
	if len(out.tree) > 0 {
		fmt.Fprintf(stdout, "%sparse tree:\n%s", prefix, out.tree)
	}
	if out.err != nil {
		fmt.Fprintln(stderr, out.err)
		return false
	}
	if out.typ != "" {
		fmt.Fprintf(stdout, "%stype = %s\n", prefix, out.typ)
	}
	if out.ran {
		fmt.Fprintf(stdout, "%sresult = %s\n", prefix, out.result)
	}
	return true
}
