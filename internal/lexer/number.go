package lexer

import (
	"math"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-toon/internal/token"
)

// Infer derives the type of an unquoted, trimmed token.
//
// Precedence: null, booleans (both case-insensitive), then numbers, then
// string. A token containing '.' can only be a FLOAT; a token without one
// can only be an INT, and only in its canonical spelling.
func Infer(lit string) token.Type {
	if typ, ok := token.LookupKeyword(lit); ok {
		return typ
	}
	if strings.ContainsRune(lit, '.') {
		if IsFloat(lit) {
			return token.FLOAT
		}
		return token.STRING
	}
	if IsCanonicalInt(lit) {
		return token.INT
	}
	return token.STRING
}

// IsNumeric reports whether lit would be read back as a number.
func IsNumeric(lit string) bool {
	typ := Infer(lit)
	return typ == token.INT || typ == token.FLOAT
}

// IsCanonicalInt reports whether lit is an integer whose canonical base-10
// rendering is lit itself: no sign other than '-', no leading zeros, no
// "-0". The magnitude is not bounded.
func IsCanonicalInt(lit string) bool {
	i := 0
	if i < len(lit) && lit[i] == '-' {
		i++
	}
	start := i
	i, ok := parseIntegerPart(lit, i)
	if !ok || i != len(lit) {
		return false
	}
	// "-0" reformats as "0".
	return !(start == 1 && lit[start:] == "0")
}

// IsFloat reports whether lit is a finite decimal floating-point literal
// containing a '.'.
func IsFloat(lit string) bool {
	i := 0
	if i < len(lit) && (lit[i] == '-' || lit[i] == '+') {
		i++
	}
	intStart := i
	i = consumeDigits(lit, i)
	intDigits := i - intStart

	if i >= len(lit) || lit[i] != '.' {
		return false
	}
	i++
	fracStart := i
	i = consumeDigits(lit, i)
	if intDigits == 0 && i == fracStart {
		return false
	}

	i, ok := parseExponentPart(lit, i)
	if !ok || i != len(lit) {
		return false
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func consumeDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func parseIntegerPart(s string, i int) (newIndex int, ok bool) {
	integerStart := i
	i = consumeDigits(s, i)
	if i == integerStart {
		return i, false // No digits found.
	}
	integerPart := s[integerStart:i]
	if len(integerPart) > 1 && integerPart[0] == '0' {
		return i, false // Leading zeros are not allowed.
	}
	return i, true
}

func parseExponentPart(s string, i int) (newIndex int, ok bool) {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return i, true
	}
	i++ // Consume 'e' or 'E'.
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	exponentStart := i
	i = consumeDigits(s, i)
	if i == exponentStart {
		return i, false // No digits in exponent.
	}
	return i, true
}
