package tigress_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gosuda/tigress"
	"github.com/gosuda/tigress/ast"
	"github.com/gosuda/tigress/parser"
	truntime "github.com/gosuda/tigress/runtime"
	"github.com/gosuda/tigress/typecheck"
)

func mustEval(t *testing.T, src string) string {
	t.Helper()
	_, text, err := tigress.Eval(src)
	if err != nil {
		t.Fatalf("eval %q failed: %v", src, err)
	}
	return text
}

func TestEvalResults(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"shadowing inner", `let var x := 4 in let var x := 3 in x + x end end`, "6"},
		{"shadowing outer untouched", `let var x := 4 in (let var x := 3 in x end) + x end`, "7"},
		{"and yields right", `2 & 3`, "3"},
		{"and stops at zero", `0 & 3`, "0"},
		{"or yields left", `2 | 152`, "2"},
		{"or falls through", `0 | 155`, "155"},
		{"precedence", `1 + 2 * 3 - 4 / 2`, "5"},
		{"unary minus", `-(3 - 5)`, "2"},
		{"comparison", `(1 < 2) + (2 <= 2) + (3 > 4) + (4 >= 5)`, "2"},
		{"string equality", `("ab" = "ab") + ("a" <> "b")`, "2"},
		{"kinds never equal", `1 = "1"`, "0"},
		{"nil equals nil", `nil = nil`, "1"},
		{"if without else", `if 0 then 1`, "nil"},
		{"empty sequence", `()`, "nil"},
		{"loop result", `while 0 do ()`, "()"},
		{"loop result is not nil", `(for i := 1 to 0 do ()) = nil`, "0"},
		{"sequence yields last", `(1; 2; 3)`, "3"},
		{"top level sequence", `1; "two"`, `"two"`},
		{"string escapes", `"a\nb\"c"`, `"a\nb\"c"`},
		{"while", `let var i := 0 in while i < 10 do i := i + 1; i end`, "10"},
		{"for empty range", `let var n := 0 in for i := 5 to 1 do n := n + 1; n end`, "0"},
		{"for sums inclusive", `let var n := 0 in for i := 1 to 4 do n := n + i; n end`, "10"},
		{"recursion", `let function fact(n: int): int = if n = 0 then 1 else n * fact(n - 1) in fact(10) end`, "3628800"},
		{"mutual recursion", `let function even(n: int): int = if n = 0 then 1 else odd(n - 1) function odd(n: int): int = if n = 0 then 0 else even(n - 1) in even(4) end`, "1"},
		{"alias of builtin", `let type myint = int var x: myint := 3 in x end`, "3"},
		{"nil record", `let type p = {x: int} var v: p := nil in v end`, "nil"},
		{"record printing", `let type point = {x: int, y: int} in point{y = 2, x = 1} end`, "point{x = 1, y = 2}"},
		{"missing field is nil", `let type pair = {a: int, b: string} in pair{a = 1} end`, "pair{a = 1, b = nil}"},
		{"array printing", `let type ints = array of int var a := ints[3] of 0 in a[1] := 5; a end`, "ints[0, 5, 0]"},
		{"empty array", `let type ints = array of int in ints[0] of 7 end`, "ints[]"},
		{"cyclic record", `let type node = {next: node} var n := node{next = nil} in n.next := n; n end`, "node{next = node{...}}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustEval(t, tc.src); got != tc.want {
				t.Fatalf("%s: got %s, want %s", tc.src, got, tc.want)
			}
		})
	}
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	if got := mustEval(t, `let var x := 0 in (0 & (x := 1; 3)); x end`); got != "0" {
		t.Fatalf("& evaluated its right operand: x = %s", got)
	}
	if got := mustEval(t, `let var x := 0 in (2 | (x := 1; 0)); x end`); got != "0" {
		t.Fatalf("| evaluated its right operand: x = %s", got)
	}
	if got := mustEval(t, `let var x := 0 in (1 & (x := 1; 3)); x end`); got != "1" {
		t.Fatalf("& skipped a needed right operand: x = %s", got)
	}
}

func TestComparisonChainIsSyntaxError(t *testing.T) {
	_, _, err := tigress.Eval(`1 < 2 < 3`)
	var se *parser.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if se.Line != 1 || se.Column != 7 {
		t.Fatalf("unexpected position %d:%d", se.Line, se.Column)
	}
	if got := mustEval(t, `(1 < 2) < 3`); got != "1" {
		t.Fatalf("parenthesized chain: got %s", got)
	}
}

func TestDanglingElseBindsInner(t *testing.T) {
	prog, err := tigress.Parse(`if 4 then if 5 then 3 else 2`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := ast.IfExpr{
		Cond: ast.IntLit{Value: 4},
		Then: ast.IfExpr{Cond: ast.IntLit{Value: 5}, Then: ast.IntLit{Value: 3}, Else: ast.IntLit{Value: 2}},
		Else: ast.NilExpr{},
	}
	if !reflect.DeepEqual(prog, want) {
		t.Fatalf("unexpected tree: %#v", prog)
	}
	if got := mustEval(t, `if 4 then if 0 then 3 else 2`); got != "2" {
		t.Fatalf("got %s", got)
	}
}

func TestBreakStopsLoop(t *testing.T) {
	src := `let var acc := 0 in for i := 1 to 5 do (acc := acc + i; if i = 3 then break); acc end`
	if got := mustEval(t, src); got != "6" {
		t.Fatalf("got %s, want 6", got)
	}
	src = `let var n := 0 in while 1 do (n := n + 1; if n = 4 then break); n end`
	if got := mustEval(t, src); got != "4" {
		t.Fatalf("got %s, want 4", got)
	}
}

func TestBreakPassesThroughCalls(t *testing.T) {
	src := `let var n := 0 function stop() = break in while 1 do (n := n + 1; if n = 3 then stop()); n end`
	if got := mustEval(t, src); got != "3" {
		t.Fatalf("got %s, want 3", got)
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	for _, src := range []string{`break`, `let function f() = break in f() end`} {
		_, _, err := tigress.Eval(src)
		var be *truntime.BreakOutsideLoopError
		if !errors.As(err, &be) {
			t.Fatalf("%s: expected BreakOutsideLoopError, got %v", src, err)
		}
	}
}

func TestArrayFillEvaluatedOnce(t *testing.T) {
	src := `let
		type arr = array of int
		var n := 0
		function bump(): int = (n := n + 1; n)
		var a := arr[5] of bump()
	in a[4] * 10 + n end`
	if got := mustEval(t, src); got != "11" {
		t.Fatalf("got %s, want 11", got)
	}
}

func TestHeapAliasing(t *testing.T) {
	src := `let type point = {x: int, y: int} var p := point{x = 1, y = 2} var q := p in q.x := 10; p.x end`
	if got := mustEval(t, src); got != "10" {
		t.Fatalf("record alias: got %s", got)
	}
	src = `let
		type ints = array of int
		function set(a: ints) = a[0] := 9
		var a := ints[2] of 0
	in set(a); a[0] end`
	if got := mustEval(t, src); got != "9" {
		t.Fatalf("array passed by handle: got %s", got)
	}
}

func TestLoopBodyBindsFreshVariables(t *testing.T) {
	src := `let
		type cells = array of cell
		type cell = {v: int}
		var cs := cells[3] of nil
	in
		for i := 0 to 2 do let var c := cell{v = i} in cs[i] := c end;
		cs[0].v + cs[1].v * 10 + cs[2].v * 100
	end`
	if got := mustEval(t, src); got != "210" {
		t.Fatalf("got %s, want 210", got)
	}
}

func TestFunctionsSeeCallSiteVariables(t *testing.T) {
	src := `let function get(): int = x in let var x := 5 in get() end end`
	if got := mustEval(t, src); got != "5" {
		t.Fatalf("got %s, want 5", got)
	}
	_, _, err := tigress.Eval(`let function get(): int = x in get() end`)
	var ue *truntime.UnboundNameError
	if !errors.As(err, &ue) || ue.Name != "x" {
		t.Fatalf("expected unbound x, got %v", err)
	}
}

func TestDeclaredTypeChecks(t *testing.T) {
	if got := mustEval(t, `let var x: int := 4 in x end`); got != "4" {
		t.Fatalf("got %s", got)
	}
	_, _, err := tigress.Eval(`let var x: int := "s" in x end`)
	var tm *truntime.TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if tm.Want != "int" || tm.Got != "string" {
		t.Fatalf("unexpected mismatch: %+v", tm)
	}
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		src   string
		check func(error) bool
	}{
		{`x + 1`, func(err error) bool {
			var e *truntime.UnboundNameError
			return errors.As(err, &e) && e.Kind == "variable"
		}},
		{`f(1)`, func(err error) bool {
			var e *truntime.UnboundNameError
			return errors.As(err, &e) && e.Kind == "function"
		}},
		{`let var v: nothing := 1 in v end`, func(err error) bool {
			var e *truntime.UnboundNameError
			return errors.As(err, &e) && e.Kind == "type"
		}},
		{`let function f(a: int): int = a in f(1, 2) end`, func(err error) bool {
			var e *truntime.ArityMismatchError
			return errors.As(err, &e) && e.Want == 1 && e.Got == 2
		}},
		{`let function f(a: int): int = a in f("s") end`, func(err error) bool {
			var e *truntime.TypeMismatchError
			return errors.As(err, &e)
		}},
		{`let function f(): int = "s" in f() end`, func(err error) bool {
			var e *truntime.TypeMismatchError
			return errors.As(err, &e)
		}},
		{`"a" + 1`, func(err error) bool {
			var e *truntime.TypeMismatchError
			return errors.As(err, &e)
		}},
		{`if "a" then 1`, func(err error) bool {
			var e *truntime.TypeMismatchError
			return errors.As(err, &e)
		}},
		{`1 / 0`, func(err error) bool {
			var e *truntime.DivisionByZeroError
			return errors.As(err, &e)
		}},
		{`let type ints = array of int var a := ints[3] of 0 in a[3] end`, func(err error) bool {
			var e *truntime.IndexOutOfBoundsError
			return errors.As(err, &e) && e.Index == 3 && e.Len == 3
		}},
		{`let type ints = array of int var a := ints[3] of 0 in a[-1] := 1 end`, func(err error) bool {
			var e *truntime.IndexOutOfBoundsError
			return errors.As(err, &e)
		}},
		{`let type p = {x: int} var v := p{x = 1} in v.y end`, func(err error) bool {
			var e *truntime.UnknownFieldError
			return errors.As(err, &e) && e.Field == "y"
		}},
		{`let type p = {x: int} in p{z = 1} end`, func(err error) bool {
			var e *truntime.UnknownFieldError
			return errors.As(err, &e) && e.Field == "z"
		}},
		{`let type p = {x: int} var v: p := nil in v.x end`, func(err error) bool {
			var e *truntime.RuntimeError
			return errors.As(err, &e)
		}},
		{`let type ints = array of int in ints[-1] of 0 end`, func(err error) bool {
			var e *truntime.RuntimeError
			return errors.As(err, &e)
		}},
		{`let type p = {x: int} type q = {x: int} var v: p := q{x = 1} in v end`, func(err error) bool {
			var e *truntime.TypeMismatchError
			return errors.As(err, &e)
		}},
		{`let type p = {x: int} var v := p{x = 1} in v.x := "s" end`, func(err error) bool {
			var e *truntime.TypeMismatchError
			return errors.As(err, &e)
		}},
	}
	for _, tc := range cases {
		_, _, err := tigress.Eval(tc.src)
		if err == nil {
			t.Fatalf("%s: expected an error", tc.src)
		}
		if !tc.check(err) {
			t.Fatalf("%s: unexpected error %v", tc.src, err)
		}
	}
}

func TestCallDepthLimit(t *testing.T) {
	vm, err := tigress.Compile(`let function f(n: int): int = f(n + 1) in f(0) end`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	vm.SetMaxCallDepth(50)
	_, err = vm.Run()
	var re *truntime.RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %v", err)
	}
}

func TestArraySizeLimit(t *testing.T) {
	_, _, err := tigress.Eval(`let type a = array of int in a[1152921504606846976] of 0 end`)
	var re *truntime.RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %v", err)
	}

	src := `let type a = array of int var n := 4 in a[n] of 0 end`
	vm, err := tigress.Compile(src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	vm.SetMaxArraySize(4)
	if _, err := vm.Run(); err != nil {
		t.Fatalf("array at the limit failed: %v", err)
	}
	vm.SetMaxArraySize(3)
	if _, err := vm.Run(); !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError over the limit, got %v", err)
	}
}

func TestTypeNamesResolveWhereDeclared(t *testing.T) {
	src := `let
		type t = {x: int}
		var r := t{x = 1}
		function f(a: t): int = a.x
	in let type t = {y: int} in f(r) end end`
	if _, err := tigress.Check(src); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if got := mustEval(t, src); got != "1" {
		t.Fatalf("got %s", got)
	}

	src = `let
		type t = {x: int}
		type box = {v: t}
		var b := box{v = nil}
		var o := t{x = 5}
	in let type t = {y: int} in b.v := o; b.v.x end end`
	if got := mustEval(t, src); got != "5" {
		t.Fatalf("got %s", got)
	}

	_, _, err := tigress.Eval(`let
		type t = {x: int}
		type box = {v: t}
		var b := box{v = nil}
	in let type t = {x: int} in b.v := t{x = 1} end end`)
	var tm *truntime.TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("inner t should not fit a field declared as the outer t, got %v", err)
	}
}

func TestMutuallyRecursiveTypes(t *testing.T) {
	src := `let
		type tree = {kids: forest}
		type forest = array of tree
		var leaf := tree{kids = forest[0] of nil}
		var root := tree{kids = forest[2] of leaf}
	in root.kids[1] = leaf end`
	if got := mustEval(t, src); got != "1" {
		t.Fatalf("got %s", got)
	}

	src = `let
		type node = {next: node, v: int}
		var n := node{next = nil, v = 1}
	in n.next := node{next = n, v = 2}; n.next.next.v end`
	if got := mustEval(t, src); got != "1" {
		t.Fatalf("got %s", got)
	}
}

func TestCompileReportsSyntaxError(t *testing.T) {
	_, err := tigress.Compile("let var x := in x end")
	var se *parser.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if se.Rule != "expression" {
		t.Fatalf("unexpected rule %q", se.Rule)
	}
}

func TestCheck(t *testing.T) {
	typed, err := tigress.Check(`let type p = {x: int} var v: p := nil in v end`)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if got := ast.TypeOf(typed).String(); got != "p" {
		t.Fatalf("got type %s, want p", got)
	}

	_, err = tigress.Check(`let var x: int := "s" in x end`)
	var ce *typecheck.Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected typecheck.Error, got %v", err)
	}
	var tm *truntime.TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError inside, got %v", err)
	}
}
