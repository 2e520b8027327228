package parser

import "github.com/gosuda/tigress/ast"

func (p *exprParser) parseLet() (ast.Expr, error) {
	p.next()
	var decls []ast.Decl
	for !p.is("in") {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	p.next()

	var body []ast.Expr
	if !p.is("end") {
		exprs, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		body = exprs
	}
	if err := p.expect("let", "end"); err != nil {
		return nil, err
	}
	return ast.LetExpr{Decls: decls, Body: ast.SeqExpr{Exprs: body}}, nil
}

func (p *exprParser) parseDecl() (ast.Decl, error) {
	switch {
	case p.accept("type"):
		return p.parseTypeDecl()
	case p.accept("var"):
		return p.parseVarDecl()
	case p.accept("function"):
		return p.parseFunctionDecl()
	default:
		return nil, p.fail("declaration", "type", "var", "function", "in")
	}
}

func (p *exprParser) parseTypeDecl() (ast.Decl, error) {
	name, err := p.ident("type declaration")
	if err != nil {
		return nil, err
	}
	if err := p.expect("type declaration", "="); err != nil {
		return nil, err
	}
	ty, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	return ast.TypeDecl{Name: name, Type: ty}, nil
}

func (p *exprParser) parseTypeSpec() (ast.TypeSpec, error) {
	switch {
	case p.accept("{"):
		var fields []ast.Field
		if p.accept("}") {
			return ast.RecordTy{}, nil
		}
		for {
			f, err := p.parseTypedName("record type")
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.Field{Name: f.Name, Type: f.Type})
			if p.accept("}") {
				return ast.RecordTy{Fields: fields}, nil
			}
			if err := p.expect("record type", ","); err != nil {
				return nil, err
			}
		}
	case p.accept("array"):
		if err := p.expect("array type", "of"); err != nil {
			return nil, err
		}
		elem, err := p.ident("array type")
		if err != nil {
			return nil, err
		}
		return ast.ArrayTy{Elem: elem}, nil
	default:
		if p.peek().kind != tokIdent {
			return nil, p.fail("type", "identifier", "{", "array")
		}
		return ast.NameTy{Name: p.next().lit}, nil
	}
}

func (p *exprParser) parseTypedName(rule string) (ast.Param, error) {
	name, err := p.ident(rule)
	if err != nil {
		return ast.Param{}, err
	}
	if err := p.expect(rule, ":"); err != nil {
		return ast.Param{}, err
	}
	ty, err := p.ident(rule)
	if err != nil {
		return ast.Param{}, err
	}
	return ast.Param{Name: name, Type: ty}, nil
}

func (p *exprParser) parseVarDecl() (ast.Decl, error) {
	name, err := p.ident("variable declaration")
	if err != nil {
		return nil, err
	}
	ty := ""
	if p.accept(":") {
		if ty, err = p.ident("variable declaration"); err != nil {
			return nil, err
		}
	}
	if err := p.expect("variable declaration", ":="); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.VarDecl{Name: name, Type: ty, Init: init}, nil
}

func (p *exprParser) parseFunctionDecl() (ast.Decl, error) {
	name, err := p.ident("function declaration")
	if err != nil {
		return nil, err
	}
	if err := p.expect("function declaration", "("); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.accept(")") {
		for {
			prm, err := p.parseTypedName("function declaration")
			if err != nil {
				return nil, err
			}
			params = append(params, prm)
			if p.accept(")") {
				break
			}
			if err := p.expect("function declaration", ","); err != nil {
				return nil, err
			}
		}
	}
	result := ""
	if p.accept(":") {
		if result, err = p.ident("function declaration"); err != nil {
			return nil, err
		}
	}
	if err := p.expect("function declaration", "="); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.FunctionDecl{Name: name, Params: params, Result: result, Body: body}, nil
}
