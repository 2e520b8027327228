package truntime

import (
	"github.com/gosuda/tigress/ast"
)

// TypeDef is one type declaration as seen by the evaluator. Record and array
// values point at the TypeDef they were built from; type checks compare those
// pointers, so two declarations with the same name stay distinct.
//
// Names inside Spec (field types, element types, alias targets) resolve in
// scope, the types visible where the declaration appeared.
type TypeDef struct {
	Name  string
	Spec  ast.TypeSpec
	scope Env
}

// Record maps each declared field to a store location.
type Record struct {
	def    *TypeDef
	Fields []string
	Slots  map[string]int
}

func (r *Record) Type() string {
	return r.def.Name
}

func (r *Record) fieldType(name string) (string, bool) {
	rt, ok := r.def.Spec.(ast.RecordTy)
	if !ok {
		return "", false
	}
	for _, f := range rt.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return "", false
}

// Array is a fixed-length, 0-indexed run of store locations.
type Array struct {
	def   *TypeDef
	Slots []int
}

func (a *Array) Type() string {
	return a.def.Name
}

func (a *Array) Len() int {
	return len(a.Slots)
}

func (a *Array) elemType() string {
	if at, ok := a.def.Spec.(ast.ArrayTy); ok {
		return at.Elem
	}
	return ""
}

func (a *Array) slot(index int64) (int, error) {
	if index < 0 || index >= int64(len(a.Slots)) {
		return 0, &IndexOutOfBoundsError{Index: index, Len: len(a.Slots)}
	}
	return a.Slots[index], nil
}

func newRecord(def *TypeDef, shape ast.RecordTy, st *Store) *Record {
	rec := &Record{
		def:    def,
		Fields: make([]string, 0, len(shape.Fields)),
		Slots:  make(map[string]int, len(shape.Fields)),
	}
	for _, f := range shape.Fields {
		rec.Fields = append(rec.Fields, f.Name)
		rec.Slots[f.Name] = st.Alloc(Nil())
	}
	return rec
}

func newArray(def *TypeDef, size int64, fill Value, st *Store) *Array {
	arr := &Array{def: def, Slots: make([]int, size)}
	for i := range arr.Slots {
		arr.Slots[i] = st.Alloc(fill)
	}
	return arr
}
