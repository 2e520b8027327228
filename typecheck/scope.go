package typecheck

import (
	"github.com/gosuda/tigress/ast"
	truntime "github.com/gosuda/tigress/runtime"
)

const maxAliasDepth = 64

type signature struct {
	params []ast.Type
	result ast.Type
}

// scope mirrors truntime.Env but maps names to static types. It is resolved
// lexically: a function body sees the scope of its declaration.
type scope struct {
	vars  map[string]ast.Type
	funcs map[string]signature
	types map[string]ast.TypeSpec
}

// extend mirrors the copy-on-extend helper behind truntime.Env.
func extend[V any](m map[string]V, key string, v V) map[string]V {
	cp := make(map[string]V, len(m)+1)
	for k, old := range m {
		cp[k] = old
	}
	cp[key] = v
	return cp
}

func (s scope) withVar(name string, t ast.Type) scope {
	return scope{vars: extend(s.vars, name, t), funcs: s.funcs, types: s.types}
}

func (s scope) withFunc(name string, sig signature) scope {
	return scope{vars: s.vars, funcs: extend(s.funcs, name, sig), types: s.types}
}

func (s scope) withType(name string, spec ast.TypeSpec) scope {
	return scope{vars: s.vars, funcs: s.funcs, types: extend(s.types, name, spec)}
}

func (s scope) resolve(name string) (ast.Type, error) {
	cur := name
	for range maxAliasDepth {
		spec, ok := s.types[cur]
		if !ok {
			switch cur {
			case "int":
				return ast.Int, nil
			case "string":
				return ast.String, nil
			}
			return ast.Any, fail(&truntime.UnboundNameError{Kind: "type", Name: cur})
		}
		switch sp := spec.(type) {
		case ast.NameTy:
			cur = sp.Name
		case ast.RecordTy:
			return ast.Type{Kind: ast.RecordType, Name: cur}, nil
		case ast.ArrayTy:
			return ast.Type{Kind: ast.ArrayType, Name: cur}, nil
		}
	}
	return ast.Any, failf("type %s is a cycle of aliases", name)
}

func (s scope) record(t ast.Type) (ast.RecordTy, bool) {
	if t.Kind != ast.RecordType {
		return ast.RecordTy{}, false
	}
	rt, ok := s.types[t.Name].(ast.RecordTy)
	return rt, ok
}

func (s scope) array(t ast.Type) (ast.ArrayTy, bool) {
	if t.Kind != ast.ArrayType {
		return ast.ArrayTy{}, false
	}
	at, ok := s.types[t.Name].(ast.ArrayTy)
	return at, ok
}

// assignable reports whether a value of type got may be stored where want is
// declared. nil fits any record type; Any fits everything.
func assignable(want, got ast.Type) bool {
	switch {
	case want == got:
		return true
	case want.Kind == ast.AnyType || got.Kind == ast.AnyType:
		return true
	case got.Kind == ast.NilType && want.Kind == ast.RecordType:
		return true
	}
	return false
}

// join is the type of an if expression with branches a and b.
func join(a, b ast.Type) (ast.Type, bool) {
	switch {
	case a == b:
		return a, true
	case a.Kind == ast.AnyType:
		return b, true
	case b.Kind == ast.AnyType:
		return a, true
	case a.Kind == ast.NilType && b.Kind == ast.RecordType:
		return b, true
	case b.Kind == ast.NilType && a.Kind == ast.RecordType:
		return a, true
	case a.Kind == ast.NilType || b.Kind == ast.NilType,
		a.Kind == ast.UnitType || b.Kind == ast.UnitType:
		return ast.Unit, true
	}
	return ast.Any, false
}
