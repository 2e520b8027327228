package truntime

import (
	"strconv"
	"strings"

	"github.com/gosuda/tigress/ast"
)

// Format renders v the way a program result is printed. Records and arrays
// are expanded through the store; an object already being printed is shown
// as its type name followed by "{...}" or "[...]".
func (vm *VM) Format(v Value) string {
	var sb strings.Builder
	vm.format(&sb, v, map[any]bool{})
	return sb.String()
}

func (vm *VM) format(sb *strings.Builder, v Value, open map[any]bool) {
	switch v.kind {
	case IntKind:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case StringKind:
		sb.WriteString(ast.QuoteString(v.s))
	case RecordKind:
		sb.WriteString(v.rec.Type())
		if open[v.rec] {
			sb.WriteString("{...}")
			return
		}
		open[v.rec] = true
		defer delete(open, v.rec)
		sb.WriteByte('{')
		for i, f := range v.rec.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f)
			sb.WriteString(" = ")
			vm.format(sb, vm.store.Load(v.rec.Slots[f]), open)
		}
		sb.WriteByte('}')
	case ArrayKind:
		sb.WriteString(v.arr.Type())
		if open[v.arr] {
			sb.WriteString("[...]")
			return
		}
		open[v.arr] = true
		defer delete(open, v.arr)
		sb.WriteByte('[')
		for i, loc := range v.arr.Slots {
			if i > 0 {
				sb.WriteString(", ")
			}
			vm.format(sb, vm.store.Load(loc), open)
		}
		sb.WriteByte(']')
	case UnitKind:
		sb.WriteString("()")
	default:
		sb.WriteString("nil")
	}
}
