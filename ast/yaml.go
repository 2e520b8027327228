package ast

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML dumps the tree as a YAML document. Every node becomes a mapping
// whose first key is "node".
func MarshalYAML(e Expr) ([]byte, error) {
	return yaml.Marshal(exprNode(e))
}

func mapping(kind string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	return add(n, "node", scalar(kind))
}

func add(n *yaml.Node, key string, v *yaml.Node) *yaml.Node {
	n.Content = append(n.Content, scalar(key), v)
	return n
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intScalar(v int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
}

func sequence(items []*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

func exprList(es []Expr) *yaml.Node {
	items := make([]*yaml.Node, 0, len(es))
	for _, e := range es {
		items = append(items, exprNode(e))
	}
	return sequence(items)
}

func exprNode(e Expr) *yaml.Node {
	switch ex := e.(type) {
	case IntLit:
		return add(mapping("int"), "value", intScalar(ex.Value))
	case StringLit:
		return add(mapping("string"), "value", scalar(ex.Value))
	case VarExpr:
		return add(mapping("var"), "name", scalar(ex.Name))
	case LValueExpr:
		return add(mapping("lvalue"), "target", lvalueNode(ex.Target))
	case NegExpr:
		return add(mapping("neg"), "expr", exprNode(ex.Expr))
	case BinaryExpr:
		n := add(mapping("binary"), "op", scalar(ex.Op.String()))
		add(n, "left", exprNode(ex.Left))
		return add(n, "right", exprNode(ex.Right))
	case IfExpr:
		n := add(mapping("if"), "cond", exprNode(ex.Cond))
		add(n, "then", exprNode(ex.Then))
		return add(n, "else", exprNode(ex.Else))
	case NilExpr:
		return mapping("nil")
	case AssignExpr:
		n := add(mapping("assign"), "target", lvalueNode(ex.Target))
		return add(n, "value", exprNode(ex.Value))
	case SeqExpr:
		return add(mapping("seq"), "exprs", exprList(ex.Exprs))
	case LetExpr:
		decls := make([]*yaml.Node, 0, len(ex.Decls))
		for _, d := range ex.Decls {
			decls = append(decls, declNode(d))
		}
		n := add(mapping("let"), "decls", sequence(decls))
		return add(n, "body", exprNode(ex.Body))
	case ForExpr:
		n := add(mapping("for"), "var", scalar(ex.Var))
		add(n, "start", exprNode(ex.Start))
		add(n, "end", exprNode(ex.End))
		return add(n, "body", exprNode(ex.Body))
	case WhileExpr:
		n := add(mapping("while"), "cond", exprNode(ex.Cond))
		return add(n, "body", exprNode(ex.Body))
	case CallExpr:
		n := add(mapping("call"), "name", scalar(ex.Name))
		return add(n, "args", exprList(ex.Args))
	case RecordExpr:
		fields := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range ex.Fields {
			add(fields, f.Name, exprNode(f.Value))
		}
		n := add(mapping("record"), "type", scalar(ex.Type))
		return add(n, "fields", fields)
	case ArrayExpr:
		n := add(mapping("array"), "type", scalar(ex.Type))
		add(n, "size", exprNode(ex.Size))
		return add(n, "init", exprNode(ex.Init))
	case BreakExpr:
		return mapping("break")
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	default:
		return scalar(fmt.Sprintf("%T", e))
	}
}

func lvalueNode(lv LValue) *yaml.Node {
	switch l := lv.(type) {
	case IdentLValue:
		return add(mapping("ident"), "name", scalar(l.Name))
	case FieldLValue:
		n := add(mapping("field"), "base", lvalueNode(l.Base))
		return add(n, "field", scalar(l.Field))
	case IndexLValue:
		n := add(mapping("index"), "base", lvalueNode(l.Base))
		return add(n, "index", exprNode(l.Index))
	default:
		return scalar(fmt.Sprintf("%T", lv))
	}
}

func declNode(d Decl) *yaml.Node {
	switch dc := d.(type) {
	case TypeDecl:
		n := add(mapping("type"), "name", scalar(dc.Name))
		return add(n, "type", typeSpecNode(dc.Type))
	case VarDecl:
		n := add(mapping("var"), "name", scalar(dc.Name))
		if dc.Type != "" {
			add(n, "type", scalar(dc.Type))
		}
		return add(n, "init", exprNode(dc.Init))
	case FunctionDecl:
		params := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range dc.Params {
			add(params, p.Name, scalar(p.Type))
		}
		n := add(mapping("function"), "name", scalar(dc.Name))
		add(n, "params", params)
		if dc.Result != "" {
			add(n, "result", scalar(dc.Result))
		}
		return add(n, "body", exprNode(dc.Body))
	default:
		return scalar(fmt.Sprintf("%T", d))
	}
}

func typeSpecNode(ts TypeSpec) *yaml.Node {
	switch t := ts.(type) {
	case NameTy:
		return scalar(t.Name)
	case RecordTy:
		fields := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range t.Fields {
			add(fields, f.Name, scalar(f.Type))
		}
		return add(mapping("record"), "fields", fields)
	case ArrayTy:
		return add(mapping("array"), "of", scalar(t.Elem))
	default:
		return scalar(fmt.Sprintf("%T", ts))
	}
}
