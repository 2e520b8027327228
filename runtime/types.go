package truntime

import (
	"github.com/gosuda/tigress/ast"
)

const maxAliasDepth = 64

var (
	builtinInt    = &TypeDef{Name: "int", Spec: ast.NameTy{Name: "int"}}
	builtinString = &TypeDef{Name: "string", Spec: ast.NameTy{Name: "string"}}
)

// resolveType follows aliases until it reaches a record or array declaration
// or one of the builtin types. Declared types shadow the builtin names.
func resolveType(name string, env Env) (*TypeDef, error) {
	cur := name
	for range maxAliasDepth {
		def, ok := env.LookupType(cur)
		if !ok {
			switch cur {
			case "int":
				return builtinInt, nil
			case "string":
				return builtinString, nil
			}
			return nil, &UnboundNameError{Kind: "type", Name: cur}
		}
		alias, ok := def.Spec.(ast.NameTy)
		if !ok {
			return def, nil
		}
		cur = alias.Name
		env = def.scope
	}
	return nil, runtimeErrorf("type %s is a cycle of aliases", name)
}

// checkType reports whether v may be stored under the declared type name.
// nil is accepted wherever a record type is expected.
func (vm *VM) checkType(v Value, tyName string, env Env, ctx string) error {
	def, err := resolveType(tyName, env)
	if err != nil {
		return err
	}
	var ok bool
	switch def {
	case builtinInt:
		ok = v.kind == IntKind
	case builtinString:
		ok = v.kind == StringKind
	default:
		switch def.Spec.(type) {
		case ast.RecordTy:
			ok = v.kind == NilKind || (v.kind == RecordKind && v.rec.def == def)
		case ast.ArrayTy:
			ok = v.kind == ArrayKind && v.arr.def == def
		}
	}
	if !ok {
		return &TypeMismatchError{Context: ctx, Want: tyName, Got: v.typeName()}
	}
	return nil
}

func (vm *VM) recordType(name string, env Env) (*TypeDef, ast.RecordTy, error) {
	def, err := resolveType(name, env)
	if err != nil {
		return nil, ast.RecordTy{}, err
	}
	shape, ok := def.Spec.(ast.RecordTy)
	if !ok {
		return nil, ast.RecordTy{}, &TypeMismatchError{Context: "record literal", Want: "record type", Got: name}
	}
	return def, shape, nil
}

func (vm *VM) arrayType(name string, env Env) (*TypeDef, ast.ArrayTy, error) {
	def, err := resolveType(name, env)
	if err != nil {
		return nil, ast.ArrayTy{}, err
	}
	shape, ok := def.Spec.(ast.ArrayTy)
	if !ok {
		return nil, ast.ArrayTy{}, &TypeMismatchError{Context: "array literal", Want: "array type", Got: name}
	}
	return def, shape, nil
}
