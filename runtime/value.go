package truntime

type ValueKind int

const (
	NilKind ValueKind = iota
	IntKind
	StringKind
	RecordKind
	ArrayKind
	UnitKind
)

func (k ValueKind) String() string {
	switch k {
	case IntKind:
		return "int"
	case StringKind:
		return "string"
	case RecordKind:
		return "record"
	case ArrayKind:
		return "array"
	case UnitKind:
		return "unit"
	default:
		return "nil"
	}
}

// Value is a runtime value. Records and arrays carry a handle to their heap
// object, so copying a Value aliases the object instead of duplicating it.
type Value struct {
	kind ValueKind
	i    int64
	s    string
	rec  *Record
	arr  *Array
}

func Int(v int64) Value {
	return Value{kind: IntKind, i: v}
}

func Str(v string) Value {
	return Value{kind: StringKind, s: v}
}

// Nil is the value of the nil keyword, assignments, an if without else and
// empty sequences.
func Nil() Value {
	return Value{}
}

// Unit is what a finished loop yields. It equals only itself.
func Unit() Value {
	return Value{kind: UnitKind}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) Int64() int64 {
	return v.i
}

func (v Value) Str() string {
	return v.s
}

func (v Value) Record() *Record {
	return v.rec
}

func (v Value) Array() *Array {
	return v.arr
}

func (v Value) IsNil() bool {
	return v.kind == NilKind
}

func (v Value) typeName() string {
	switch v.kind {
	case RecordKind:
		return v.rec.def.Name
	case ArrayKind:
		return v.arr.def.Name
	default:
		return v.kind.String()
	}
}

// Equal compares two values of the same kind: ints and strings by content,
// records and arrays by identity of the heap object. Values of different
// kinds are never equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case IntKind:
		return a.i == b.i
	case StringKind:
		return a.s == b.s
	case RecordKind:
		return a.rec == b.rec
	case ArrayKind:
		return a.arr == b.arr
	default:
		return true
	}
}
