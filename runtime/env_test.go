package truntime

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gosuda/tigress/ast"
)

func TestStoreAllocIsAppendOnly(t *testing.T) {
	st := NewStore()
	a := st.Alloc(Int(1))
	b := st.Alloc(Int(2))
	if a != 0 || b != 1 || st.Len() != 2 {
		t.Fatalf("unexpected locations %d %d (len %d)", a, b, st.Len())
	}
	st.Set(a, Str("x"))
	if st.Load(a).Str() != "x" || st.Load(b).Int64() != 2 {
		t.Fatalf("set touched the wrong cell")
	}
}

func TestBindShadowsWithoutTouchingParent(t *testing.T) {
	st := NewStore()
	outer := Env{}.BindVariable("x", Int(4), st)
	inner := outer.BindVariable("x", Int(3), st)

	v, err := inner.LookupVariable("x", st)
	if err != nil || v.Int64() != 3 {
		t.Fatalf("inner x: %v %v", v, err)
	}
	v, err = outer.LookupVariable("x", st)
	if err != nil || v.Int64() != 4 {
		t.Fatalf("outer x changed: %v %v", v, err)
	}
	if st.Len() != 2 {
		t.Fatalf("each bind should allocate, store len %d", st.Len())
	}
}

func TestAssignWritesExistingLocation(t *testing.T) {
	st := NewStore()
	env := Env{}.BindVariable("i", Int(1), st)
	child := env.BindVariable("j", Int(0), st)

	if err := child.AssignVariable("i", Int(9), st); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	v, _ := env.LookupVariable("i", st)
	if v.Int64() != 9 {
		t.Fatalf("assignment not visible through parent: %d", v.Int64())
	}
	if st.Len() != 2 {
		t.Fatalf("assign must not allocate, store len %d", st.Len())
	}

	err := env.AssignVariable("missing", Int(1), st)
	var ue *UnboundNameError
	if !errors.As(err, &ue) || ue.Kind != "variable" || ue.Name != "missing" {
		t.Fatalf("expected unbound variable, got %v", err)
	}
}

func TestFunctionAndTypeNamespaces(t *testing.T) {
	st := NewStore()
	fn := &ast.FunctionDecl{Name: "x", Body: ast.IntLit{Value: 1}}
	def := &TypeDef{Name: "x", Spec: ast.ArrayTy{Elem: "int"}}
	env := Env{}.BindVariable("x", Int(5), st).BindFunction(fn).BindType(def)

	if got, err := env.LookupFunction("x"); err != nil || got != fn {
		t.Fatalf("function lookup: %v %v", got, err)
	}
	if got, ok := env.LookupType("x"); !ok || got != def {
		t.Fatalf("type lookup failed")
	}
	if v, err := env.LookupVariable("x", st); err != nil || v.Int64() != 5 {
		t.Fatalf("variable lookup: %v %v", v, err)
	}
	if _, err := (Env{}).LookupFunction("x"); err == nil {
		t.Fatalf("empty env should not know x")
	}
}

func TestBindings(t *testing.T) {
	st := NewStore()
	env := Env{}.BindVariable("b", Nil(), st).BindVariable("a", Nil(), st)
	if got, want := env.Bindings(), []string{"a@1", "b@0"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEqual(t *testing.T) {
	st := NewStore()
	def := &TypeDef{Name: "p", Spec: ast.RecordTy{Fields: []ast.Field{{Name: "x", Type: "int"}}}}
	r1 := Value{kind: RecordKind, rec: newRecord(def, def.Spec.(ast.RecordTy), st)}
	r2 := Value{kind: RecordKind, rec: newRecord(def, def.Spec.(ast.RecordTy), st)}

	cases := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Int(2), false},
		{Str("a"), Str("a"), true},
		{Int(0), Str(""), false},
		{Nil(), Nil(), true},
		{r1, r1, true},
		{r1, r2, false},
		{r1, Nil(), false},
	}
	for i, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: got %v", i, got)
		}
	}
}

func TestArrayFillSharesValue(t *testing.T) {
	st := NewStore()
	def := &TypeDef{Name: "ints", Spec: ast.ArrayTy{Elem: "int"}}
	arr := newArray(def, 3, Int(7), st)
	if arr.Len() != 3 || st.Len() != 3 {
		t.Fatalf("unexpected sizes %d %d", arr.Len(), st.Len())
	}
	for _, loc := range arr.Slots {
		if st.Load(loc).Int64() != 7 {
			t.Fatalf("slot %d not filled", loc)
		}
	}
	if _, err := arr.slot(3); err == nil {
		t.Fatalf("index 3 should be out of bounds")
	}
}
