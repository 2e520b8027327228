package parser

import "unicode"

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r >= 0 && unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r >= 0 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func isComparison(lit string) bool {
	switch lit {
	case "=", "<>", "<", ">", "<=", ">=":
		return true
	default:
		return false
	}
}
