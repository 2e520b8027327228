package main

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/gosuda/tigress"
	"github.com/gosuda/tigress/ast"
	truntime "github.com/gosuda/tigress/runtime"
	"github.com/gosuda/tigress/typecheck"
)

// evaluate runs one program through parse, the optional type check and the
// evaluator. Each call gets its own VM and store.
func evaluate(cfg appConfig, logger *slog.Logger, name, src string) outcome {
	out := outcome{name: name}
	program, err := tigress.Parse(src)
	if err != nil {
		out.err = errors.Wrapf(err, "%s", name)
		return out
	}
	if cfg.Verbose || cfg.Dump {
		tree, err := ast.MarshalYAML(program)
		if err != nil {
			out.err = errors.Wrapf(err, "%s: dump tree", name)
			return out
		}
		out.tree = tree
	}
	if cfg.Dump {
		return out
	}
	if cfg.Typecheck {
		typed, err := typecheck.Check(program)
		if err != nil {
			out.err = errors.Wrapf(err, "%s", name)
			return out
		}
		out.typ = ast.TypeOf(typed).String()
	}

	vm := truntime.New(program)
	vm.SetLogger(logger.With(slog.String("program", name)))
	vm.SetTrace(cfg.Verbose)
	if cfg.MaxCallDepth > 0 {
		vm.SetMaxCallDepth(cfg.MaxCallDepth)
	}
	if cfg.MaxArraySize > 0 {
		vm.SetMaxArraySize(cfg.MaxArraySize)
	}
	v, err := vm.Run()
	if err != nil {
		out.err = errors.Wrapf(err, "%s", name)
		return out
	}
	out.result = vm.Format(v)
	out.ran = true
	return out
}
