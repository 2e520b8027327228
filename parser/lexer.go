package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokString
	tokIdent
	tokKeyword
	tokSymbol
)

type token struct {
	kind tokenKind
	lit  string
	val  int64
	pos  position
}

type position struct {
	offset int
	line   int
	col    int
}

var keywords = map[string]struct{}{
	"array":    {},
	"break":    {},
	"do":       {},
	"else":     {},
	"end":      {},
	"for":      {},
	"function": {},
	"if":       {},
	"in":       {},
	"let":      {},
	"nil":      {},
	"of":       {},
	"then":     {},
	"to":       {},
	"type":     {},
	"var":      {},
	"while":    {},
}

// IsKeyword reports whether s is reserved and can never be an identifier.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func tokenize(src string) ([]token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	toks := make([]token, 0, len(src)/2)
	for {
		if err := lx.skipSpaceAndComments(); err != nil {
			return nil, err
		}
		if lx.off >= len(lx.src) {
			toks = append(toks, token{kind: tokEOF, lit: "end of input", pos: lx.here()})
			return toks, nil
		}
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
	}
}

func (lx *lexer) here() position {
	return position{offset: lx.off, line: lx.line, col: lx.col}
}

func (lx *lexer) peekRune(ahead int) rune {
	off := lx.off
	for i := 0; ; i++ {
		if off >= len(lx.src) {
			return -1
		}
		r, size := utf8.DecodeRuneInString(lx.src[off:])
		if i == ahead {
			return r
		}
		off += size
	}
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) errorf(at position, format string, args ...any) error {
	return newSyntaxError(at, "token", nil, "", format, args...)
}

func (lx *lexer) skipSpaceAndComments() error {
	for lx.off < len(lx.src) {
		r := lx.peekRune(0)
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			lx.advance()
			continue
		}
		if r == '/' && lx.peekRune(1) == '*' {
			start := lx.here()
			lx.advance()
			lx.advance()
			depth := 1
			for depth > 0 {
				if lx.off >= len(lx.src) {
					return lx.errorf(start, "unterminated comment")
				}
				switch {
				case lx.peekRune(0) == '/' && lx.peekRune(1) == '*':
					lx.advance()
					lx.advance()
					depth++
				case lx.peekRune(0) == '*' && lx.peekRune(1) == '/':
					lx.advance()
					lx.advance()
					depth--
				default:
					lx.advance()
				}
			}
			continue
		}
		return nil
	}
	return nil
}

func (lx *lexer) next() (token, error) {
	start := lx.here()
	ch := lx.peekRune(0)
	switch {
	case isDigit(ch):
		for isDigit(lx.peekRune(0)) {
			lx.advance()
		}
		lit := lx.src[start.offset:lx.off]
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return token{}, lx.errorf(start, "integer literal %s out of range", lit)
		}
		return token{kind: tokInt, lit: lit, val: v, pos: start}, nil
	case ch == '"':
		return lx.lexString(start)
	case isIdentStart(ch):
		for isIdentPart(lx.peekRune(0)) {
			lx.advance()
		}
		lit := lx.src[start.offset:lx.off]
		if IsKeyword(lit) {
			return token{kind: tokKeyword, lit: lit, pos: start}, nil
		}
		return token{kind: tokIdent, lit: lit, pos: start}, nil
	}

	two := ""
	if r2 := lx.peekRune(1); r2 >= 0 {
		two = string([]rune{ch, r2})
	}
	switch two {
	case ":=", "<>", "<=", ">=":
		lx.advance()
		lx.advance()
		return token{kind: tokSymbol, lit: two, pos: start}, nil
	}
	switch ch {
	case ',', ':', ';', '(', ')', '[', ']', '{', '}', '.', '+', '-', '*', '/', '=', '<', '>', '&', '|':
		lx.advance()
		return token{kind: tokSymbol, lit: string(ch), pos: start}, nil
	}
	return token{}, lx.errorf(start, "unexpected character %q", ch)
}

func (lx *lexer) lexString(start position) (token, error) {
	lx.advance()
	var b strings.Builder
	for {
		if lx.off >= len(lx.src) {
			return token{}, lx.errorf(start, "unterminated string")
		}
		r := lx.advance()
		if r == '"' {
			return token{kind: tokString, lit: b.String(), pos: start}, nil
		}
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if err := lx.lexEscape(&b); err != nil {
			return token{}, err
		}
	}
}

func (lx *lexer) lexEscape(b *strings.Builder) error {
	at := lx.here()
	if lx.off >= len(lx.src) {
		return lx.errorf(at, "unterminated string")
	}
	r := lx.advance()
	switch {
	case r == 'n':
		b.WriteByte('\n')
	case r == 't':
		b.WriteByte('\t')
	case r == 'r':
		b.WriteByte('\r')
	case r == '"' || r == '\\':
		b.WriteRune(r)
	case isDigit(r):
		if !isDigit(lx.peekRune(0)) || !isDigit(lx.peekRune(1)) {
			return lx.errorf(at, "escape \\ddd needs three digits")
		}
		digits := string([]rune{r, lx.advance(), lx.advance()})
		code, _ := strconv.Atoi(digits)
		if code > 255 {
			return lx.errorf(at, "escape \\%s out of range", digits)
		}
		b.WriteByte(byte(code))
	case isBlank(r):
		// \f___f\ spans whitespace inside a literal
		for isBlank(lx.peekRune(0)) {
			lx.advance()
		}
		if lx.peekRune(0) != '\\' {
			return lx.errorf(at, "unterminated whitespace escape")
		}
		lx.advance()
	default:
		return lx.errorf(at, "unknown escape \\%c", r)
	}
	return nil
}
