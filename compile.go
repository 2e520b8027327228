package tigress

import (
	"github.com/pkg/errors"

	"github.com/gosuda/tigress/ast"
	"github.com/gosuda/tigress/parser"
	truntime "github.com/gosuda/tigress/runtime"
	"github.com/gosuda/tigress/typecheck"
)

// Compile parses a program and builds a VM instance for it.
func Compile(src string) (*truntime.VM, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return truntime.New(program), nil
}

// Parse only returns the AST for tooling use.
func Parse(src string) (ast.Expr, error) {
	return parser.Parse(src)
}

// Check parses src and runs the static type pass over it.
func Check(src string) (*ast.Typed, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	typed, err := typecheck.Check(program)
	if err != nil {
		return nil, errors.Wrap(err, "check")
	}
	return typed, nil
}

// Eval compiles and runs src, returning the result and its printed form.
func Eval(src string) (truntime.Value, string, error) {
	vm, err := Compile(src)
	if err != nil {
		return truntime.Value{}, "", err
	}
	v, err := vm.Run()
	if err != nil {
		return truntime.Value{}, "", errors.Wrap(err, "eval")
	}
	return v, vm.Format(v), nil
}
