package truntime

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gosuda/tigress/ast"
)

func (vm *VM) evalExpr(e ast.Expr, env Env) (Value, error) {
	switch ex := e.(type) {
	case ast.IntLit:
		return Int(ex.Value), nil
	case ast.StringLit:
		return Str(ex.Value), nil
	case ast.VarExpr:
		return env.LookupVariable(ex.Name, vm.store)
	case ast.LValueExpr:
		return vm.readLValue(ex.Target, env)
	case ast.NegExpr:
		v, err := vm.Evaluate(ex.Expr, env)
		if err != nil {
			return Value{}, err
		}
		if v.kind != IntKind {
			return Value{}, &TypeMismatchError{Context: "unary -", Want: "int", Got: v.typeName()}
		}
		return Int(-v.i), nil
	case ast.BinaryExpr:
		return vm.evalBinary(ex, env)
	case ast.IfExpr:
		cond, err := vm.evalInt(ex.Cond, env, "if condition")
		if err != nil {
			return Value{}, err
		}
		if cond != 0 {
			return vm.Evaluate(ex.Then, env)
		}
		if ex.Else == nil {
			return Nil(), nil
		}
		return vm.Evaluate(ex.Else, env)
	case ast.NilExpr:
		return Nil(), nil
	case ast.AssignExpr:
		return Nil(), vm.assign(ex, env)
	case ast.SeqExpr:
		val := Nil()
		for _, item := range ex.Exprs {
			v, err := vm.Evaluate(item, env)
			if err != nil {
				return Value{}, err
			}
			val = v
		}
		return val, nil
	case ast.LetExpr:
		return vm.evalLet(ex, env)
	case ast.ForExpr:
		return vm.evalFor(ex, env)
	case ast.WhileExpr:
		for {
			cond, err := vm.evalInt(ex.Cond, env, "while condition")
			if err != nil {
				return Value{}, err
			}
			if cond == 0 {
				return Unit(), nil
			}
			if _, err := vm.Evaluate(ex.Body, env); err != nil {
				if errors.Is(err, ErrLoopBreak) {
					return Unit(), nil
				}
				return Value{}, err
			}
		}
	case ast.CallExpr:
		return vm.callFunction(ex, env)
	case ast.RecordExpr:
		return vm.evalRecord(ex, env)
	case ast.ArrayExpr:
		return vm.evalArray(ex, env)
	case ast.BreakExpr:
		return Nil(), ErrLoopBreak
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", e)
	}
}

func (vm *VM) evalInt(e ast.Expr, env Env, ctx string) (int64, error) {
	v, err := vm.Evaluate(e, env)
	if err != nil {
		return 0, err
	}
	if v.kind != IntKind {
		return 0, &TypeMismatchError{Context: ctx, Want: "int", Got: v.typeName()}
	}
	return v.i, nil
}

func (vm *VM) evalBinary(ex ast.BinaryExpr, env Env) (Value, error) {
	ctx := "operator " + ex.Op.String()
	switch ex.Op {
	case ast.OpOr, ast.OpAnd:
		left, err := vm.evalInt(ex.Left, env, ctx)
		if err != nil {
			return Value{}, err
		}
		// the left operand decides: nonzero for |, zero for &
		if (ex.Op == ast.OpOr) == (left != 0) {
			return Int(left), nil
		}
		right, err := vm.evalInt(ex.Right, env, ctx)
		if err != nil {
			return Value{}, err
		}
		return Int(right), nil
	case ast.OpEq, ast.OpNe:
		left, err := vm.Evaluate(ex.Left, env)
		if err != nil {
			return Value{}, err
		}
		right, err := vm.Evaluate(ex.Right, env)
		if err != nil {
			return Value{}, err
		}
		return boolValue(Equal(left, right) != (ex.Op == ast.OpNe)), nil
	}

	left, err := vm.evalInt(ex.Left, env, ctx)
	if err != nil {
		return Value{}, err
	}
	right, err := vm.evalInt(ex.Right, env, ctx)
	if err != nil {
		return Value{}, err
	}
	return evalArithmetic(ex.Op, left, right)
}

func evalArithmetic(op ast.Op, a, b int64) (Value, error) {
	switch op {
	case ast.OpAdd:
		return Int(a + b), nil
	case ast.OpSub:
		return Int(a - b), nil
	case ast.OpMul:
		return Int(a * b), nil
	case ast.OpDiv:
		if b == 0 {
			return Value{}, &DivisionByZeroError{}
		}
		return Int(a / b), nil
	case ast.OpLt:
		return boolValue(a < b), nil
	case ast.OpGt:
		return boolValue(a > b), nil
	case ast.OpLe:
		return boolValue(a <= b), nil
	case ast.OpGe:
		return boolValue(a >= b), nil
	default:
		return Value{}, fmt.Errorf("unsupported binary operator %s", op)
	}
}

func boolValue(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

// evalLet extends env one declaration at a time, so each initializer sees the
// declarations before it and none after it. A run of consecutive type
// declarations is bound as one group and may be mutually recursive.
func (vm *VM) evalLet(ex ast.LetExpr, env Env) (Value, error) {
	scope := env
	for i := 0; i < len(ex.Decls); i++ {
		switch dc := ex.Decls[i].(type) {
		case ast.TypeDecl:
			group := []*TypeDef{{Name: dc.Name, Spec: dc.Type}}
			for i+1 < len(ex.Decls) {
				next, ok := ex.Decls[i+1].(ast.TypeDecl)
				if !ok {
					break
				}
				group = append(group, &TypeDef{Name: next.Name, Spec: next.Type})
				i++
			}
			scope = scope.BindTypes(group)
		case ast.VarDecl:
			v, err := vm.Evaluate(dc.Init, scope)
			if err != nil {
				return Value{}, err
			}
			if dc.Type != "" {
				if err := vm.checkType(v, dc.Type, scope, "var "+dc.Name); err != nil {
					return Value{}, err
				}
			}
			scope = scope.BindVariable(dc.Name, v, vm.store)
		case ast.FunctionDecl:
			fn := dc
			scope = scope.BindFunction(&fn)
		default:
			return Value{}, fmt.Errorf("unsupported declaration %T", dc)
		}
	}
	vm.logger.Debug("let scope", slog.Int("decls", len(ex.Decls)), slog.Int("store", vm.store.Len()))
	return vm.Evaluate(ex.Body, scope)
}

// evalFor binds the loop variable once and assigns each counter value into
// that same location.
func (vm *VM) evalFor(ex ast.ForExpr, env Env) (Value, error) {
	start, err := vm.evalInt(ex.Start, env, "for start")
	if err != nil {
		return Value{}, err
	}
	end, err := vm.evalInt(ex.End, env, "for end")
	if err != nil {
		return Value{}, err
	}
	loopEnv := env.BindVariable(ex.Var, Int(start), vm.store)
	if start > end {
		return Unit(), nil
	}
	for i := start; ; i++ {
		if err := loopEnv.AssignVariable(ex.Var, Int(i), vm.store); err != nil {
			return Value{}, err
		}
		if _, err := vm.Evaluate(ex.Body, loopEnv); err != nil {
			if errors.Is(err, ErrLoopBreak) {
				return Unit(), nil
			}
			return Value{}, err
		}
		if i == end {
			return Unit(), nil
		}
	}
}

// evalRecord checks every supplied field name first, then evaluates the
// supplied values in the order the type declares its fields. Fields left out
// of the literal hold nil.
func (vm *VM) evalRecord(ex ast.RecordExpr, env Env) (Value, error) {
	def, shape, err := vm.recordType(ex.Type, env)
	if err != nil {
		return Value{}, err
	}
	rec := newRecord(def, shape, vm.store)
	supplied := make(map[string]ast.Expr, len(ex.Fields))
	for _, f := range ex.Fields {
		if _, ok := rec.fieldType(f.Name); !ok {
			return Value{}, &UnknownFieldError{Type: ex.Type, Field: f.Name}
		}
		if _, dup := supplied[f.Name]; dup {
			return Value{}, runtimeErrorf("field %s of %s given twice", f.Name, ex.Type)
		}
		supplied[f.Name] = f.Value
	}
	for _, f := range shape.Fields {
		init, ok := supplied[f.Name]
		if !ok {
			continue
		}
		v, err := vm.Evaluate(init, env)
		if err != nil {
			return Value{}, err
		}
		if err := vm.checkType(v, f.Type, def.scope, ex.Type+"."+f.Name); err != nil {
			return Value{}, err
		}
		vm.store.Set(rec.Slots[f.Name], v)
	}
	return Value{kind: RecordKind, rec: rec}, nil
}

// evalArray evaluates the fill expression once; every element starts out
// holding that one value.
func (vm *VM) evalArray(ex ast.ArrayExpr, env Env) (Value, error) {
	def, shape, err := vm.arrayType(ex.Type, env)
	if err != nil {
		return Value{}, err
	}
	size, err := vm.evalInt(ex.Size, env, "array size")
	if err != nil {
		return Value{}, err
	}
	if size < 0 {
		return Value{}, runtimeErrorf("negative array size %d", size)
	}
	if vm.maxArray > 0 && size > vm.maxArray {
		return Value{}, runtimeErrorf("array size %d exceeds limit %d", size, vm.maxArray)
	}
	fill, err := vm.Evaluate(ex.Init, env)
	if err != nil {
		return Value{}, err
	}
	if err := vm.checkType(fill, shape.Elem, def.scope, "initial value of "+ex.Type); err != nil {
		return Value{}, err
	}
	return Value{kind: ArrayKind, arr: newArray(def, size, fill, vm.store)}, nil
}
