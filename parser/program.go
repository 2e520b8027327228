package parser

import (
	"errors"

	"github.com/gosuda/tigress/ast"
)

// Parse turns one program into its syntax tree. Several top-level
// expressions separated by ; are returned as a sequence.
func Parse(src string) (ast.Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{tokens: toks}
	exprs, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.fail("program", ";", "end of input")
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return ast.SeqExpr{Exprs: exprs}, nil
}

// IsIncomplete reports whether err came from input that ended early, so an
// interactive reader can ask for another line instead of failing.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	if se.Found == "end of input" {
		return true
	}
	return se.Msg == "unterminated string" || se.Msg == "unterminated comment"
}
