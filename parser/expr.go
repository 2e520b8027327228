package parser

import (
	"github.com/gosuda/tigress/ast"
)

const maxNesting = 512

var primaryStart = []string{"integer", "string", "identifier", "(", "-", "let", "nil", "break"}

type exprParser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *exprParser) peek() token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *exprParser) peekAt(i int) token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *exprParser) next() token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *exprParser) is(lit string) bool {
	t := p.peek()
	return (t.kind == tokSymbol || t.kind == tokKeyword) && t.lit == lit
}

func (p *exprParser) accept(lit string) bool {
	if p.is(lit) {
		p.next()
		return true
	}
	return false
}

func (p *exprParser) expect(rule, lit string) error {
	if p.accept(lit) {
		return nil
	}
	return p.fail(rule, lit)
}

func (p *exprParser) ident(rule string) (string, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return "", p.fail(rule, "identifier")
	}
	p.next()
	return t.lit, nil
}

func (p *exprParser) fail(rule string, expected ...string) error {
	t := p.peek()
	return newSyntaxError(t.pos, rule, expected, describe(t), "")
}

func (p *exprParser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		t := p.peek()
		return newSyntaxError(t.pos, "expression", nil, describe(t), "expression nesting too deep")
	}
	return nil
}

func (p *exprParser) leave() {
	p.depth--
}

// parseExpr parses at the lowest binding level: loops, then if, then
// assignment, then the operator levels.
func (p *exprParser) parseExpr() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch {
	case p.is("for"):
		return p.parseFor()
	case p.is("while"):
		return p.parseWhile()
	case p.is("if"):
		return p.parseIf()
	case p.assignAhead():
		return p.parseAssign()
	default:
		return p.parseOr()
	}
}

func (p *exprParser) parseFor() (ast.Expr, error) {
	p.next()
	name, err := p.ident("for")
	if err != nil {
		return nil, err
	}
	if err := p.expect("for", ":="); err != nil {
		return nil, err
	}
	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect("for", "to"); err != nil {
		return nil, err
	}
	end, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect("for", "do"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.ForExpr{Var: name, Start: start, End: end, Body: body}, nil
}

func (p *exprParser) parseWhile() (ast.Expr, error) {
	p.next()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect("while", "do"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.WhileExpr{Cond: cond, Body: body}, nil
}

// parseIf tries the else-bearing form first. The then branch is parsed before
// looking for else, so a dangling else attaches to the innermost if.
func (p *exprParser) parseIf() (ast.Expr, error) {
	p.next()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect("if", "then"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.accept("else") {
		return ast.IfExpr{Cond: cond, Then: then, Else: ast.NilExpr{}}, nil
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.IfExpr{Cond: cond, Then: then, Else: els}, nil
}

// assignAhead scans an l-value shaped token run (ident, .field, [ ... ])
// without building anything and reports whether := follows it.
func (p *exprParser) assignAhead() bool {
	i := p.pos
	if p.peekAt(i).kind != tokIdent {
		return false
	}
	i++
	for {
		t := p.peekAt(i)
		if t.kind != tokSymbol {
			return false
		}
		switch t.lit {
		case ":=":
			return true
		case ".":
			if p.peekAt(i+1).kind != tokIdent {
				return false
			}
			i += 2
		case "[":
			rb, ok := p.matchingBracket(i)
			if !ok {
				return false
			}
			i = rb + 1
		default:
			return false
		}
	}
}

func (p *exprParser) matchingBracket(open int) (int, bool) {
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		t := p.tokens[i]
		if t.kind == tokEOF {
			return 0, false
		}
		if t.kind != tokSymbol {
			continue
		}
		switch t.lit {
		case "[":
			depth++
		case "]":
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func (p *exprParser) parseAssign() (ast.Expr, error) {
	target, err := p.parseLValue()
	if err != nil {
		return nil, err
	}
	if err := p.expect("assignment", ":="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.AssignExpr{Target: target, Value: value}, nil
}

func (p *exprParser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept("|") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseAnd() (ast.Expr, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	for p.accept("&") {
		right, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseCmp() (ast.Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind != tokSymbol || !isComparison(t.lit) {
		return left, nil
	}
	p.next()
	right, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if n := p.peek(); n.kind == tokSymbol && isComparison(n.lit) {
		return nil, newSyntaxError(n.pos, "comparison", nil, describe(n),
			"comparison operators are non-associative; parenthesize %s", n.lit)
	}
	return ast.BinaryExpr{Op: comparisonOp(t.lit), Left: left, Right: right}, nil
}

func comparisonOp(lit string) ast.Op {
	switch lit {
	case "=":
		return ast.OpEq
	case "<>":
		return ast.OpNe
	case "<":
		return ast.OpLt
	case ">":
		return ast.OpGt
	case "<=":
		return ast.OpLe
	default:
		return ast.OpGe
	}
}

func (p *exprParser) parseAdd() (ast.Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch {
		case p.accept("+"):
			op = ast.OpAdd
		case p.accept("-"):
			op = ast.OpSub
		default:
			return left, nil
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *exprParser) parseMul() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch {
		case p.accept("*"):
			op = ast.OpMul
		case p.accept("/"):
			op = ast.OpDiv
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *exprParser) parseUnary() (ast.Expr, error) {
	if !p.is("-") {
		return p.parsePrimary()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.next()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.NegExpr{Expr: operand}, nil
}

func (p *exprParser) parsePrimary() (ast.Expr, error) {
	t := p.peek()
	switch t.kind {
	case tokInt:
		p.next()
		return ast.IntLit{Value: t.val}, nil
	case tokString:
		p.next()
		return ast.StringLit{Value: t.lit}, nil
	case tokIdent:
		return p.parseIdentForm()
	case tokKeyword:
		switch t.lit {
		case "nil":
			p.next()
			return ast.NilExpr{}, nil
		case "break":
			p.next()
			return ast.BreakExpr{}, nil
		case "let":
			return p.parseLet()
		}
	case tokSymbol:
		if t.lit == "(" {
			return p.parseParen()
		}
	}
	return nil, p.fail("expression", primaryStart...)
}

func (p *exprParser) parseParen() (ast.Expr, error) {
	p.next()
	if p.accept(")") {
		return ast.SeqExpr{}, nil
	}
	exprs, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if err := p.expect("sequence", ")"); err != nil {
		return nil, err
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return ast.SeqExpr{Exprs: exprs}, nil
}

func (p *exprParser) parseSeq() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if !p.accept(";") {
			return exprs, nil
		}
	}
}

// parseIdentForm handles everything that starts with an identifier: calls,
// record and array construction, and l-value reads.
func (p *exprParser) parseIdentForm() (ast.Expr, error) {
	name := p.peek().lit
	after := p.peekAt(p.pos + 1)
	if after.kind == tokSymbol {
		switch after.lit {
		case "(":
			p.pos += 2
			return p.parseCall(name)
		case "{":
			p.pos += 2
			return p.parseRecord(name)
		case "[":
			if rb, ok := p.matchingBracket(p.pos + 1); ok {
				if of := p.peekAt(rb + 1); of.kind == tokKeyword && of.lit == "of" {
					p.pos += 2
					return p.parseArray(name)
				}
			}
		}
	}
	lv, err := p.parseLValue()
	if err != nil {
		return nil, err
	}
	if id, ok := lv.(ast.IdentLValue); ok {
		return ast.VarExpr{Name: id.Name}, nil
	}
	return ast.LValueExpr{Target: lv}, nil
}

func (p *exprParser) parseCall(name string) (ast.Expr, error) {
	var args []ast.Expr
	if !p.accept(")") {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			if p.accept(")") {
				break
			}
			if err := p.expect("call", ","); err != nil {
				return nil, err
			}
		}
	}
	return ast.CallExpr{Name: name, Args: args}, nil
}

func (p *exprParser) parseRecord(name string) (ast.Expr, error) {
	var fields []ast.FieldInit
	if !p.accept("}") {
		for {
			field, err := p.ident("record")
			if err != nil {
				return nil, err
			}
			if err := p.expect("record", "="); err != nil {
				return nil, err
			}
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.FieldInit{Name: field, Value: v})
			if p.accept("}") {
				break
			}
			if err := p.expect("record", ","); err != nil {
				return nil, err
			}
		}
	}
	return ast.RecordExpr{Type: name, Fields: fields}, nil
}

func (p *exprParser) parseArray(name string) (ast.Expr, error) {
	size, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect("array", "]"); err != nil {
		return nil, err
	}
	if err := p.expect("array", "of"); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.ArrayExpr{Type: name, Size: size, Init: init}, nil
}

// parseLValue folds .field and [index] suffixes left to right onto the base
// identifier.
func (p *exprParser) parseLValue() (ast.LValue, error) {
	name, err := p.ident("lvalue")
	if err != nil {
		return nil, err
	}
	var lv ast.LValue = ast.IdentLValue{Name: name}
	for {
		switch {
		case p.accept("."):
			field, err := p.ident("lvalue")
			if err != nil {
				return nil, err
			}
			lv = ast.FieldLValue{Base: lv, Field: field}
		case p.accept("["):
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect("lvalue", "]"); err != nil {
				return nil, err
			}
			lv = ast.IndexLValue{Base: lv, Index: idx}
		default:
			return lv, nil
		}
	}
}
