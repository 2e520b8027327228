package ast

type Expr interface {
	isExpr()
}

type IntLit struct {
	Value int64
}

func (IntLit) isExpr() {}

type StringLit struct {
	Value string
}

func (StringLit) isExpr() {}

// VarExpr reads a bare identifier. Field and index reads use LValueExpr.
type VarExpr struct {
	Name string
}

func (VarExpr) isExpr() {}

type LValueExpr struct {
	Target LValue
}

func (LValueExpr) isExpr() {}

type NegExpr struct {
	Expr Expr
}

func (NegExpr) isExpr() {}

type BinaryExpr struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}

type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr // NilExpr when the source has no else branch
}

func (IfExpr) isExpr() {}

// NilExpr is the no-value sentinel. The nil keyword parses to it as well.
type NilExpr struct{}

func (NilExpr) isExpr() {}

type AssignExpr struct {
	Target LValue
	Value  Expr
}

func (AssignExpr) isExpr() {}

type SeqExpr struct {
	Exprs []Expr
}

func (SeqExpr) isExpr() {}

type LetExpr struct {
	Decls []Decl
	Body  Expr
}

func (LetExpr) isExpr() {}

type ForExpr struct {
	Var   string
	Start Expr
	End   Expr
	Body  Expr
}

func (ForExpr) isExpr() {}

type WhileExpr struct {
	Cond Expr
	Body Expr
}

func (WhileExpr) isExpr() {}

type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}

type RecordExpr struct {
	Type   string
	Fields []FieldInit
}

func (RecordExpr) isExpr() {}

type FieldInit struct {
	Name  string
	Value Expr
}

type ArrayExpr struct {
	Type string
	Size Expr
	Init Expr
}

func (ArrayExpr) isExpr() {}

type BreakExpr struct{}

func (BreakExpr) isExpr() {}

type LValue interface {
	isLValue()
}

type IdentLValue struct {
	Name string
}

func (IdentLValue) isLValue() {}

type FieldLValue struct {
	Base  LValue
	Field string
}

func (FieldLValue) isLValue() {}

type IndexLValue struct {
	Base  LValue
	Index Expr
}

func (IndexLValue) isLValue() {}

type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpOr
	OpAnd
)

var opSymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "=",
	OpNe:  "<>",
	OpLt:  "<",
	OpGt:  ">",
	OpLe:  "<=",
	OpGe:  ">=",
	OpOr:  "|",
	OpAnd: "&",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return "?"
	}
	return opSymbols[op]
}

func (op Op) IsArithmetic() bool {
	return op == OpAdd || op == OpSub || op == OpMul || op == OpDiv
}

func (op Op) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

type Decl interface {
	isDecl()
}

type TypeDecl struct {
	Name string
	Type TypeSpec
}

func (TypeDecl) isDecl() {}

type VarDecl struct {
	Name string
	Type string // empty when no type is declared
	Init Expr
}

func (VarDecl) isDecl() {}

type FunctionDecl struct {
	Name   string
	Params []Param
	Result string // empty for procedures
	Body   Expr
}

func (FunctionDecl) isDecl() {}

type Param struct {
	Name string
	Type string
}

type TypeSpec interface {
	isTypeSpec()
}

type NameTy struct {
	Name string
}

func (NameTy) isTypeSpec() {}

type RecordTy struct {
	Fields []Field
}

func (RecordTy) isTypeSpec() {}

type Field struct {
	Name string
	Type string
}

type ArrayTy struct {
	Elem string
}

func (ArrayTy) isTypeSpec() {}
