package ast

type TypeKind int

const (
	AnyType TypeKind = iota
	IntType
	StringType
	NilType
	UnitType
	RecordType
	ArrayType
)

// Type is the tag attached to a Typed node. Name is set for record and array
// types and holds the declared type name.
type Type struct {
	Kind TypeKind
	Name string
}

var (
	Int    = Type{Kind: IntType}
	String = Type{Kind: StringType}
	Nil    = Type{Kind: NilType}
	Unit   = Type{Kind: UnitType}
	Any    = Type{Kind: AnyType}
)

func (t Type) String() string {
	switch t.Kind {
	case IntType:
		return "int"
	case StringType:
		return "string"
	case NilType:
		return "nil"
	case UnitType:
		return "unit"
	case RecordType, ArrayType:
		return t.Name
	default:
		return "any"
	}
}

// Typed is an expression annotated bottom-up with its static type.
type Typed struct {
	Node     Expr
	Type     Type
	Children []*Typed
}

// TypeOf returns the tag stored on the node.
func TypeOf(t *Typed) Type {
	if t == nil {
		return Unit
	}
	return t.Type
}
