package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Binding levels used when printing. Open forms (loops, if, assignment, array
// construction) extend as far right as the grammar allows, so they are
// parenthesized whenever anything may follow them.
const (
	levelOpen = iota
	levelIf
	levelAssign
	levelOr
	levelAnd
	levelCmp
	levelAdd
	levelMul
	levelUnary
	levelPrimary
)

// Format prints e as source text that parses back to an equal tree.
func Format(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e, levelOpen)
	return b.String()
}

func exprLevel(e Expr) int {
	switch ex := e.(type) {
	case ForExpr, WhileExpr, IfExpr, AssignExpr, ArrayExpr:
		return levelOpen
	case BinaryExpr:
		return opLevel(ex.Op)
	case NegExpr:
		return levelUnary
	default:
		return levelPrimary
	}
}

func opLevel(op Op) int {
	switch op {
	case OpOr:
		return levelOr
	case OpAnd:
		return levelAnd
	case OpAdd, OpSub:
		return levelAdd
	case OpMul, OpDiv:
		return levelMul
	default:
		return levelCmp
	}
}

func writeExpr(b *strings.Builder, e Expr, min int) {
	if exprLevel(e) < min {
		b.WriteByte('(')
		writeExpr(b, e, levelOpen)
		b.WriteByte(')')
		return
	}
	switch ex := e.(type) {
	case IntLit:
		b.WriteString(strconv.FormatInt(ex.Value, 10))
	case StringLit:
		b.WriteString(QuoteString(ex.Value))
	case VarExpr:
		b.WriteString(ex.Name)
	case LValueExpr:
		writeLValue(b, ex.Target)
	case NegExpr:
		b.WriteByte('-')
		writeExpr(b, ex.Expr, levelUnary)
	case BinaryExpr:
		lvl := opLevel(ex.Op)
		left := lvl
		if ex.Op.IsComparison() {
			left = lvl + 1
		}
		writeExpr(b, ex.Left, left)
		b.WriteString(" " + ex.Op.String() + " ")
		writeExpr(b, ex.Right, lvl+1)
	case IfExpr:
		b.WriteString("if ")
		writeExpr(b, ex.Cond, levelOpen)
		b.WriteString(" then ")
		if _, ok := ex.Else.(NilExpr); ok || ex.Else == nil {
			writeExpr(b, ex.Then, levelOpen)
			return
		}
		writeExpr(b, ex.Then, levelOr)
		b.WriteString(" else ")
		writeExpr(b, ex.Else, levelOpen)
	case NilExpr:
		b.WriteString("nil")
	case AssignExpr:
		writeLValue(b, ex.Target)
		b.WriteString(" := ")
		writeExpr(b, ex.Value, levelOpen)
	case SeqExpr:
		b.WriteByte('(')
		writeSeq(b, ex.Exprs)
		b.WriteByte(')')
	case LetExpr:
		b.WriteString("let")
		for _, d := range ex.Decls {
			b.WriteByte(' ')
			writeDecl(b, d)
		}
		b.WriteString(" in ")
		if seq, ok := ex.Body.(SeqExpr); ok {
			writeSeq(b, seq.Exprs)
		} else if ex.Body != nil {
			writeExpr(b, ex.Body, levelOpen)
		}
		b.WriteString(" end")
	case ForExpr:
		fmt.Fprintf(b, "for %s := ", ex.Var)
		writeExpr(b, ex.Start, levelOpen)
		b.WriteString(" to ")
		writeExpr(b, ex.End, levelOpen)
		b.WriteString(" do ")
		writeExpr(b, ex.Body, levelOpen)
	case WhileExpr:
		b.WriteString("while ")
		writeExpr(b, ex.Cond, levelOpen)
		b.WriteString(" do ")
		writeExpr(b, ex.Body, levelOpen)
	case CallExpr:
		b.WriteString(ex.Name)
		b.WriteByte('(')
		for i, a := range ex.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a, levelOpen)
		}
		b.WriteByte(')')
	case RecordExpr:
		b.WriteString(ex.Type)
		b.WriteByte('{')
		for i, f := range ex.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name + " = ")
			writeExpr(b, f.Value, levelOpen)
		}
		b.WriteByte('}')
	case ArrayExpr:
		b.WriteString(ex.Type)
		b.WriteByte('[')
		writeExpr(b, ex.Size, levelOpen)
		b.WriteString("] of ")
		writeExpr(b, ex.Init, levelOpen)
	case BreakExpr:
		b.WriteString("break")
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

func writeSeq(b *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			b.WriteString("; ")
		}
		writeExpr(b, e, levelOpen)
	}
}

func writeLValue(b *strings.Builder, lv LValue) {
	switch l := lv.(type) {
	case IdentLValue:
		b.WriteString(l.Name)
	case FieldLValue:
		writeLValue(b, l.Base)
		b.WriteString("." + l.Field)
	case IndexLValue:
		writeLValue(b, l.Base)
		b.WriteByte('[')
		writeExpr(b, l.Index, levelOpen)
		b.WriteByte(']')
	}
}

func writeDecl(b *strings.Builder, d Decl) {
	switch dc := d.(type) {
	case TypeDecl:
		b.WriteString("type " + dc.Name + " = ")
		writeTypeSpec(b, dc.Type)
	case VarDecl:
		b.WriteString("var " + dc.Name)
		if dc.Type != "" {
			b.WriteString(": " + dc.Type)
		}
		b.WriteString(" := ")
		writeExpr(b, dc.Init, levelOpen)
	case FunctionDecl:
		b.WriteString("function " + dc.Name + "(")
		for i, p := range dc.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name + ": " + p.Type)
		}
		b.WriteByte(')')
		if dc.Result != "" {
			b.WriteString(": " + dc.Result)
		}
		b.WriteString(" = ")
		writeExpr(b, dc.Body, levelOpen)
	}
}

func writeTypeSpec(b *strings.Builder, ts TypeSpec) {
	switch t := ts.(type) {
	case NameTy:
		b.WriteString(t.Name)
	case RecordTy:
		b.WriteByte('{')
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name + ": " + f.Type)
		}
		b.WriteByte('}')
	case ArrayTy:
		b.WriteString("array of " + t.Elem)
	}
}

// QuoteString renders s as a Tiger string literal.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&b, `\%03d`, s[i-1])
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\%03d`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
