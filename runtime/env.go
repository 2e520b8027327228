package truntime

import (
	"fmt"
	"sort"

	"github.com/gosuda/tigress/ast"
)

// Env is an immutable snapshot of the three namespaces. Variables map to
// store locations, not values. Every Bind* method returns a new Env and
// leaves the receiver untouched, so sibling scopes never see each other.
//
// Functions are looked up in the caller's Env at call time, and their bodies
// run in the caller's Env extended with the parameters. Variables are
// therefore not captured at declaration: there are no closures.
type Env struct {
	vars  map[string]int
	funcs map[string]function
	types map[string]*TypeDef
}

// function pairs a declaration with the types visible where it was declared,
// which is where its parameter and result type names resolve.
type function struct {
	decl  *ast.FunctionDecl
	types Env
}

func with[V any](m map[string]V, key string, v V) map[string]V {
	cp := make(map[string]V, len(m)+1)
	for k, old := range m {
		cp[k] = old
	}
	cp[key] = v
	return cp
}

// LookupVariable dereferences name's location and returns the current value.
func (e Env) LookupVariable(name string, st *Store) (Value, error) {
	loc, ok := e.vars[name]
	if !ok {
		return Value{}, &UnboundNameError{Kind: "variable", Name: name}
	}
	return st.Load(loc), nil
}

// BindVariable allocates a fresh location for v. An existing binding of the
// same name is shadowed, never overwritten.
func (e Env) BindVariable(name string, v Value, st *Store) Env {
	return Env{vars: with(e.vars, name, st.Alloc(v)), funcs: e.funcs, types: e.types}
}

// AssignVariable writes v into the location name is already bound to.
func (e Env) AssignVariable(name string, v Value, st *Store) error {
	loc, ok := e.vars[name]
	if !ok {
		return &UnboundNameError{Kind: "variable", Name: name}
	}
	st.Set(loc, v)
	return nil
}

func (e Env) BindFunction(decl *ast.FunctionDecl) Env {
	fn := function{decl: decl, types: e.typesOnly()}
	return Env{vars: e.vars, funcs: with(e.funcs, decl.Name, fn), types: e.types}
}

func (e Env) LookupFunction(name string) (*ast.FunctionDecl, error) {
	fn, err := e.function(name)
	return fn.decl, err
}

func (e Env) function(name string) (function, error) {
	fn, ok := e.funcs[name]
	if !ok {
		return function{}, &UnboundNameError{Kind: "function", Name: name}
	}
	return fn, nil
}

func (e Env) BindType(def *TypeDef) Env {
	return e.BindTypes([]*TypeDef{def})
}

// BindTypes adds a group of mutually recursive declarations; each one
// resolves names in the scope holding the whole group.
func (e Env) BindTypes(defs []*TypeDef) Env {
	out := e
	for _, def := range defs {
		out = Env{vars: out.vars, funcs: out.funcs, types: with(out.types, def.Name, def)}
	}
	for _, def := range defs {
		def.scope = out.typesOnly()
	}
	return out
}

func (e Env) typesOnly() Env {
	return Env{types: e.types}
}

func (e Env) LookupType(name string) (*TypeDef, bool) {
	def, ok := e.types[name]
	return def, ok
}

func (e Env) location(name string) (int, error) {
	loc, ok := e.vars[name]
	if !ok {
		return 0, &UnboundNameError{Kind: "variable", Name: name}
	}
	return loc, nil
}

// Bindings lists variables as name@location, sorted by name.
func (e Env) Bindings() []string {
	out := make([]string, 0, len(e.vars))
	for name, loc := range e.vars {
		out = append(out, fmt.Sprintf("%s@%d", name, loc))
	}
	sort.Strings(out)
	return out
}
