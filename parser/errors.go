package parser

import (
	"fmt"
	"strings"
)

// SyntaxError reports where parsing stopped and what the grammar would have
// accepted there.
type SyntaxError struct {
	Offset   int // byte offset into the source
	Line     int
	Column   int
	Rule     string
	Expected []string
	Found    string
	Msg      string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error at %d:%d", e.Line, e.Column)
	if e.Rule != "" {
		fmt.Fprintf(&b, " in %s", e.Rule)
	}
	if e.Msg != "" {
		b.WriteString(": " + e.Msg)
		return b.String()
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, ": expected %s", strings.Join(e.Expected, " or "))
	}
	if e.Found != "" {
		fmt.Fprintf(&b, ", found %s", e.Found)
	}
	return b.String()
}

func newSyntaxError(at position, rule string, expected []string, found string, format string, args ...any) *SyntaxError {
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &SyntaxError{
		Offset:   at.offset,
		Line:     at.line,
		Column:   at.col,
		Rule:     rule,
		Expected: expected,
		Found:    found,
		Msg:      msg,
	}
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return fmt.Sprintf("string %q", t.lit)
	case tokIdent:
		return fmt.Sprintf("identifier %s", t.lit)
	case tokKeyword:
		return fmt.Sprintf("keyword %s", t.lit)
	default:
		return fmt.Sprintf("%q", t.lit)
	}
}
