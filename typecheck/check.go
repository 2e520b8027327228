// Package typecheck annotates a parsed program with static types before it
// runs. It rejects programs the evaluator would reject on some path, using the
// same error kinds as the runtime.
package typecheck

import (
	"fmt"

	"github.com/gosuda/tigress/ast"
	truntime "github.com/gosuda/tigress/runtime"
)

// Error is a static type error. It unwraps to the runtime error kind it
// corresponds to, when there is one.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	return "typecheck: " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(err error) *Error {
	return &Error{Msg: err.Error(), Err: err}
}

func failf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

func mismatch(ctx string, want, got ast.Type) *Error {
	return fail(&truntime.TypeMismatchError{Context: ctx, Want: want.String(), Got: got.String()})
}

// Check annotates e bottom-up. Functions without a declared result type are
// typed Any at their call sites.
func Check(e ast.Expr) (*ast.Typed, error) {
	t, err := check(e, scope{})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func leaf(e ast.Expr, t ast.Type) *ast.Typed {
	return &ast.Typed{Node: e, Type: t}
}

func expectInt(e ast.Expr, s scope, ctx string) (*ast.Typed, error) {
	t, err := check(e, s)
	if err != nil {
		return nil, err
	}
	if got := ast.TypeOf(t); !assignable(ast.Int, got) {
		return nil, mismatch(ctx, ast.Int, got)
	}
	return t, nil
}

func check(e ast.Expr, s scope) (*ast.Typed, error) {
	switch ex := e.(type) {
	case ast.IntLit:
		return leaf(e, ast.Int), nil
	case ast.StringLit:
		return leaf(e, ast.String), nil
	case ast.NilExpr:
		return leaf(e, ast.Nil), nil
	case ast.BreakExpr:
		return leaf(e, ast.Unit), nil
	case ast.VarExpr:
		t, ok := s.vars[ex.Name]
		if !ok {
			return nil, fail(&truntime.UnboundNameError{Kind: "variable", Name: ex.Name})
		}
		return leaf(e, t), nil
	case ast.LValueExpr:
		t, children, err := checkLValue(ex.Target, s)
		if err != nil {
			return nil, err
		}
		return &ast.Typed{Node: e, Type: t, Children: children}, nil
	case ast.NegExpr:
		c, err := expectInt(ex.Expr, s, "unary -")
		if err != nil {
			return nil, err
		}
		return &ast.Typed{Node: e, Type: ast.Int, Children: []*ast.Typed{c}}, nil
	case ast.BinaryExpr:
		return checkBinary(ex, s)
	case ast.IfExpr:
		cond, err := expectInt(ex.Cond, s, "if condition")
		if err != nil {
			return nil, err
		}
		then, err := check(ex.Then, s)
		if err != nil {
			return nil, err
		}
		children := []*ast.Typed{cond, then}
		var els ast.Expr = ast.NilExpr{}
		if ex.Else != nil {
			els = ex.Else
		}
		et, err := check(els, s)
		if err != nil {
			return nil, err
		}
		children = append(children, et)
		t, ok := join(ast.TypeOf(then), ast.TypeOf(et))
		if !ok {
			return nil, mismatch("else branch", ast.TypeOf(then), ast.TypeOf(et))
		}
		return &ast.Typed{Node: e, Type: t, Children: children}, nil
	case ast.AssignExpr:
		want, children, err := checkLValue(ex.Target, s)
		if err != nil {
			return nil, err
		}
		v, err := check(ex.Value, s)
		if err != nil {
			return nil, err
		}
		if !assignable(want, ast.TypeOf(v)) {
			return nil, mismatch("assignment", want, ast.TypeOf(v))
		}
		return &ast.Typed{Node: e, Type: ast.Unit, Children: append(children, v)}, nil
	case ast.SeqExpr:
		t := &ast.Typed{Node: e, Type: ast.Unit}
		for _, item := range ex.Exprs {
			c, err := check(item, s)
			if err != nil {
				return nil, err
			}
			t.Children = append(t.Children, c)
			t.Type = ast.TypeOf(c)
		}
		return t, nil
	case ast.LetExpr:
		return checkLet(ex, s)
	case ast.ForExpr:
		start, err := expectInt(ex.Start, s, "for start")
		if err != nil {
			return nil, err
		}
		end, err := expectInt(ex.End, s, "for end")
		if err != nil {
			return nil, err
		}
		body, err := check(ex.Body, s.withVar(ex.Var, ast.Int))
		if err != nil {
			return nil, err
		}
		return &ast.Typed{Node: e, Type: ast.Unit, Children: []*ast.Typed{start, end, body}}, nil
	case ast.WhileExpr:
		cond, err := expectInt(ex.Cond, s, "while condition")
		if err != nil {
			return nil, err
		}
		body, err := check(ex.Body, s)
		if err != nil {
			return nil, err
		}
		return &ast.Typed{Node: e, Type: ast.Unit, Children: []*ast.Typed{cond, body}}, nil
	case ast.CallExpr:
		return checkCall(ex, s)
	case ast.RecordExpr:
		return checkRecord(ex, s)
	case ast.ArrayExpr:
		return checkArray(ex, s)
	default:
		return nil, failf("unsupported expression %T", e)
	}
}

func checkBinary(ex ast.BinaryExpr, s scope) (*ast.Typed, error) {
	ctx := "operator " + ex.Op.String()
	if ex.Op == ast.OpEq || ex.Op == ast.OpNe {
		l, err := check(ex.Left, s)
		if err != nil {
			return nil, err
		}
		r, err := check(ex.Right, s)
		if err != nil {
			return nil, err
		}
		lt, rt := ast.TypeOf(l), ast.TypeOf(r)
		if !assignable(lt, rt) && !assignable(rt, lt) {
			return nil, mismatch(ctx, lt, rt)
		}
		return &ast.Typed{Node: ex, Type: ast.Int, Children: []*ast.Typed{l, r}}, nil
	}
	l, err := expectInt(ex.Left, s, ctx)
	if err != nil {
		return nil, err
	}
	r, err := expectInt(ex.Right, s, ctx)
	if err != nil {
		return nil, err
	}
	return &ast.Typed{Node: ex, Type: ast.Int, Children: []*ast.Typed{l, r}}, nil
}

func checkLValue(lv ast.LValue, s scope) (ast.Type, []*ast.Typed, error) {
	switch l := lv.(type) {
	case ast.IdentLValue:
		t, ok := s.vars[l.Name]
		if !ok {
			return ast.Any, nil, fail(&truntime.UnboundNameError{Kind: "variable", Name: l.Name})
		}
		return t, nil, nil
	case ast.FieldLValue:
		base, children, err := checkLValue(l.Base, s)
		if err != nil {
			return ast.Any, nil, err
		}
		if base.Kind == ast.AnyType {
			return ast.Any, children, nil
		}
		rt, ok := s.record(base)
		if !ok {
			return ast.Any, nil, mismatch("field access ."+l.Field, ast.Type{Kind: ast.RecordType, Name: "record"}, base)
		}
		for _, f := range rt.Fields {
			if f.Name == l.Field {
				t, err := s.resolve(f.Type)
				return t, children, err
			}
		}
		return ast.Any, nil, fail(&truntime.UnknownFieldError{Type: base.Name, Field: l.Field})
	case ast.IndexLValue:
		base, children, err := checkLValue(l.Base, s)
		if err != nil {
			return ast.Any, nil, err
		}
		idx, err := expectInt(l.Index, s, "array index")
		if err != nil {
			return ast.Any, nil, err
		}
		children = append(children, idx)
		if base.Kind == ast.AnyType {
			return ast.Any, children, nil
		}
		at, ok := s.array(base)
		if !ok {
			return ast.Any, nil, mismatch("index access", ast.Type{Kind: ast.ArrayType, Name: "array"}, base)
		}
		t, err := s.resolve(at.Elem)
		return t, children, err
	default:
		return ast.Any, nil, failf("unsupported l-value %T", lv)
	}
}

// checkLet walks the declarations in order. Consecutive function
// declarations are bound together first so they may call each other.
func checkLet(ex ast.LetExpr, s scope) (*ast.Typed, error) {
	t := &ast.Typed{Node: ex}
	for i := 0; i < len(ex.Decls); i++ {
		switch d := ex.Decls[i].(type) {
		case ast.TypeDecl:
			s = s.withType(d.Name, d.Type)
		case ast.VarDecl:
			init, err := check(d.Init, s)
			if err != nil {
				return nil, err
			}
			t.Children = append(t.Children, init)
			vt := ast.TypeOf(init)
			if d.Type != "" {
				want, err := s.resolve(d.Type)
				if err != nil {
					return nil, err
				}
				if !assignable(want, vt) {
					return nil, mismatch("var "+d.Name, want, vt)
				}
				vt = want
			} else if vt.Kind == ast.NilType || vt.Kind == ast.UnitType {
				vt = ast.Any
			}
			s = s.withVar(d.Name, vt)
		case ast.FunctionDecl:
			j := i
			for j < len(ex.Decls) {
				if _, ok := ex.Decls[j].(ast.FunctionDecl); !ok {
					break
				}
				j++
			}
			group := ex.Decls[i:j]
			for _, g := range group {
				fd := g.(ast.FunctionDecl)
				sig, err := signatureOf(fd, s)
				if err != nil {
					return nil, err
				}
				s = s.withFunc(fd.Name, sig)
			}
			for _, g := range group {
				body, err := checkFunction(g.(ast.FunctionDecl), s)
				if err != nil {
					return nil, err
				}
				t.Children = append(t.Children, body)
			}
			i = j - 1
		default:
			return nil, failf("unsupported declaration %T", d)
		}
	}
	body, err := check(ex.Body, s)
	if err != nil {
		return nil, err
	}
	t.Children = append(t.Children, body)
	t.Type = ast.TypeOf(body)
	return t, nil
}

func signatureOf(fd ast.FunctionDecl, s scope) (signature, error) {
	sig := signature{result: ast.Any}
	for _, p := range fd.Params {
		pt, err := s.resolve(p.Type)
		if err != nil {
			return signature{}, err
		}
		sig.params = append(sig.params, pt)
	}
	if fd.Result != "" {
		rt, err := s.resolve(fd.Result)
		if err != nil {
			return signature{}, err
		}
		sig.result = rt
	}
	return sig, nil
}

func checkFunction(fd ast.FunctionDecl, s scope) (*ast.Typed, error) {
	sig := s.funcs[fd.Name]
	inner := s
	for i, p := range fd.Params {
		inner = inner.withVar(p.Name, sig.params[i])
	}
	body, err := check(fd.Body, inner)
	if err != nil {
		return nil, err
	}
	if got := ast.TypeOf(body); !assignable(sig.result, got) {
		return nil, mismatch("result of "+fd.Name, sig.result, got)
	}
	return body, nil
}

func checkCall(ex ast.CallExpr, s scope) (*ast.Typed, error) {
	sig, ok := s.funcs[ex.Name]
	if !ok {
		return nil, fail(&truntime.UnboundNameError{Kind: "function", Name: ex.Name})
	}
	if len(sig.params) != len(ex.Args) {
		return nil, fail(&truntime.ArityMismatchError{Func: ex.Name, Want: len(sig.params), Got: len(ex.Args)})
	}
	t := &ast.Typed{Node: ex, Type: sig.result}
	for i, a := range ex.Args {
		c, err := check(a, s)
		if err != nil {
			return nil, err
		}
		if !assignable(sig.params[i], ast.TypeOf(c)) {
			return nil, mismatch(fmt.Sprintf("argument %d of %s", i+1, ex.Name), sig.params[i], ast.TypeOf(c))
		}
		t.Children = append(t.Children, c)
	}
	return t, nil
}

func checkRecord(ex ast.RecordExpr, s scope) (*ast.Typed, error) {
	rt, err := s.resolve(ex.Type)
	if err != nil {
		return nil, err
	}
	shape, ok := s.record(rt)
	if !ok {
		return nil, mismatch("record literal", ast.Type{Kind: ast.RecordType, Name: "record"}, rt)
	}
	fields := make(map[string]string, len(shape.Fields))
	for _, f := range shape.Fields {
		fields[f.Name] = f.Type
	}
	t := &ast.Typed{Node: ex, Type: rt}
	seen := make(map[string]bool, len(ex.Fields))
	for _, f := range ex.Fields {
		ftName, ok := fields[f.Name]
		if !ok {
			return nil, fail(&truntime.UnknownFieldError{Type: ex.Type, Field: f.Name})
		}
		if seen[f.Name] {
			return nil, failf("field %s of %s given twice", f.Name, ex.Type)
		}
		seen[f.Name] = true
		want, err := s.resolve(ftName)
		if err != nil {
			return nil, err
		}
		c, err := check(f.Value, s)
		if err != nil {
			return nil, err
		}
		if !assignable(want, ast.TypeOf(c)) {
			return nil, mismatch(ex.Type+"."+f.Name, want, ast.TypeOf(c))
		}
		t.Children = append(t.Children, c)
	}
	return t, nil
}

func checkArray(ex ast.ArrayExpr, s scope) (*ast.Typed, error) {
	at, err := s.resolve(ex.Type)
	if err != nil {
		return nil, err
	}
	shape, ok := s.array(at)
	if !ok {
		return nil, mismatch("array literal", ast.Type{Kind: ast.ArrayType, Name: "array"}, at)
	}
	size, err := expectInt(ex.Size, s, "array size")
	if err != nil {
		return nil, err
	}
	init, err := check(ex.Init, s)
	if err != nil {
		return nil, err
	}
	elem, err := s.resolve(shape.Elem)
	if err != nil {
		return nil, err
	}
	if !assignable(elem, ast.TypeOf(init)) {
		return nil, mismatch("initial value of "+ex.Type, elem, ast.TypeOf(init))
	}
	return &ast.Typed{Node: ex, Type: at, Children: []*ast.Typed{size, init}}, nil
}
