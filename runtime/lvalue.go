package truntime

import (
	"github.com/gosuda/tigress/ast"
)

func (vm *VM) readLValue(lv ast.LValue, env Env) (Value, error) {
	if id, ok := lv.(ast.IdentLValue); ok {
		return env.LookupVariable(id.Name, vm.store)
	}
	loc, _, err := vm.locate(lv, env)
	if err != nil {
		return Value{}, err
	}
	return vm.store.Load(loc), nil
}

// slotType is the declared type of a record field or array element, with the
// scope of the declaration that names it.
type slotType struct {
	name  string
	scope Env
}

// locate resolves an l-value to its store location. For field and index
// l-values it also returns the declared type of the slot.
func (vm *VM) locate(lv ast.LValue, env Env) (int, slotType, error) {
	switch l := lv.(type) {
	case ast.IdentLValue:
		loc, err := env.location(l.Name)
		return loc, slotType{}, err
	case ast.FieldLValue:
		base, err := vm.readLValue(l.Base, env)
		if err != nil {
			return 0, slotType{}, err
		}
		switch base.kind {
		case RecordKind:
		case NilKind:
			return 0, slotType{}, runtimeErrorf("field %s of nil record", l.Field)
		default:
			return 0, slotType{}, &TypeMismatchError{Context: "field access ." + l.Field, Want: "record", Got: base.typeName()}
		}
		ty, ok := base.rec.fieldType(l.Field)
		if !ok {
			return 0, slotType{}, &UnknownFieldError{Type: base.rec.Type(), Field: l.Field}
		}
		return base.rec.Slots[l.Field], slotType{name: ty, scope: base.rec.def.scope}, nil
	case ast.IndexLValue:
		base, err := vm.readLValue(l.Base, env)
		if err != nil {
			return 0, slotType{}, err
		}
		if base.kind != ArrayKind {
			return 0, slotType{}, &TypeMismatchError{Context: "index access", Want: "array", Got: base.typeName()}
		}
		idx, err := vm.evalInt(l.Index, env, "array index")
		if err != nil {
			return 0, slotType{}, err
		}
		loc, err := base.arr.slot(idx)
		if err != nil {
			return 0, slotType{}, err
		}
		return loc, slotType{name: base.arr.elemType(), scope: base.arr.def.scope}, nil
	default:
		return 0, slotType{}, runtimeErrorf("unsupported l-value %T", lv)
	}
}

// assign resolves the target location before evaluating the new value.
func (vm *VM) assign(ex ast.AssignExpr, env Env) error {
	loc, ty, err := vm.locate(ex.Target, env)
	if err != nil {
		return err
	}
	v, err := vm.Evaluate(ex.Value, env)
	if err != nil {
		return err
	}
	if ty.name != "" {
		if err := vm.checkType(v, ty.name, ty.scope, "assignment to "+lvalueName(ex.Target)); err != nil {
			return err
		}
	}
	vm.store.Set(loc, v)
	return nil
}

func lvalueName(lv ast.LValue) string {
	switch l := lv.(type) {
	case ast.IdentLValue:
		return l.Name
	case ast.FieldLValue:
		return lvalueName(l.Base) + "." + l.Field
	case ast.IndexLValue:
		return lvalueName(l.Base) + "[]"
	default:
		return "?"
	}
}
