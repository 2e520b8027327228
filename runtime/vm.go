package truntime

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gosuda/tigress/ast"
)

const (
	defaultMaxCallDepth = 10000
	defaultMaxArraySize = 1 << 24
)

// VM evaluates one program. It owns its Store, so separate VMs can run on
// separate goroutines.
type VM struct {
	program  ast.Expr
	store    *Store
	logger   *slog.Logger
	trace    bool
	depth    int
	maxDepth int
	maxArray int64
}

func New(program ast.Expr) *VM {
	return &VM{
		program:  program,
		store:    NewStore(),
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: defaultMaxCallDepth,
		maxArray: defaultMaxArraySize,
	}
}

func (vm *VM) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	vm.logger = l
}

// SetTrace logs every evaluation step with the visible bindings and the store
// size at debug level.
func (vm *VM) SetTrace(on bool) {
	vm.trace = on
}

// SetMaxCallDepth bounds nested function calls; n <= 0 removes the bound.
func (vm *VM) SetMaxCallDepth(n int) {
	vm.maxDepth = n
}

// SetMaxArraySize bounds the length of a single array construction;
// n <= 0 removes the bound.
func (vm *VM) SetMaxArraySize(n int64) {
	vm.maxArray = n
}

func (vm *VM) Store() *Store {
	return vm.store
}

func (vm *VM) Program() ast.Expr {
	return vm.program
}

// Run evaluates the program in an empty environment. A break that escapes
// every loop is reported as *BreakOutsideLoopError.
func (vm *VM) Run() (Value, error) {
	v, err := vm.Evaluate(vm.program, Env{})
	if errors.Is(err, ErrLoopBreak) {
		return Value{}, &BreakOutsideLoopError{}
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func (vm *VM) Evaluate(e ast.Expr, env Env) (Value, error) {
	if vm.trace {
		vm.logger.Debug("eval",
			slog.String("node", nodeName(e)),
			slog.Any("env", env.Bindings()),
			slog.Int("store", vm.store.Len()))
	}
	return vm.evalExpr(e, env)
}

func (vm *VM) callFunction(call ast.CallExpr, env Env) (Value, error) {
	entry, err := env.function(call.Name)
	if err != nil {
		return Value{}, err
	}
	fn := entry.decl
	if len(fn.Params) != len(call.Args) {
		return Value{}, &ArityMismatchError{Func: fn.Name, Want: len(fn.Params), Got: len(call.Args)}
	}
	args := make([]Value, len(call.Args))
	for i, ae := range call.Args {
		v, err := vm.Evaluate(ae, env)
		if err != nil {
			return Value{}, err
		}
		ctx := fmt.Sprintf("argument %s of %s", fn.Params[i].Name, fn.Name)
		if err := vm.checkType(v, fn.Params[i].Type, entry.types, ctx); err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	if vm.maxDepth > 0 && vm.depth >= vm.maxDepth {
		return Value{}, runtimeErrorf("call depth limit %d exceeded in %s", vm.maxDepth, fn.Name)
	}
	vm.depth++
	defer func() { vm.depth-- }()
	vm.logger.Debug("call", slog.String("function", fn.Name), slog.Int("depth", vm.depth))

	callEnv := env
	for i, prm := range fn.Params {
		callEnv = callEnv.BindVariable(prm.Name, args[i], vm.store)
	}
	res, err := vm.Evaluate(fn.Body, callEnv)
	if err != nil {
		return Value{}, err
	}
	if fn.Result != "" {
		if err := vm.checkType(res, fn.Result, entry.types, "result of "+fn.Name); err != nil {
			return Value{}, err
		}
	}
	return res, nil
}

func nodeName(e ast.Expr) string {
	switch e.(type) {
	case ast.IntLit:
		return "int"
	case ast.StringLit:
		return "string"
	case ast.VarExpr:
		return "var"
	case ast.LValueExpr:
		return "lvalue"
	case ast.NegExpr:
		return "neg"
	case ast.BinaryExpr:
		return "binary"
	case ast.IfExpr:
		return "if"
	case ast.NilExpr:
		return "nil"
	case ast.AssignExpr:
		return "assign"
	case ast.SeqExpr:
		return "seq"
	case ast.LetExpr:
		return "let"
	case ast.ForExpr:
		return "for"
	case ast.WhileExpr:
		return "while"
	case ast.CallExpr:
		return "call"
	case ast.RecordExpr:
		return "record"
	case ast.ArrayExpr:
		return "array"
	case ast.BreakExpr:
		return "break"
	default:
		return fmt.Sprintf("%T", e)
	}
}
