package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-toon/internal/token"
)

// NoDelimiter makes the lexer read the whole input as a single cell.
const NoDelimiter rune = -1

const eof rune = -1

type state uint8

const (
	stateNormal state = iota
	stateInQuotes
	stateEscaped
)

// Lexer splits a single line into cells.
type Lexer struct {
	input string
	pos   int // offset of the byte after ch
	ch    rune
	delim rune

	st       state
	buf      strings.Builder
	pending  strings.Builder // whitespace after a closing quote
	quoted   bool // current cell contained a quoted section
	closed   bool // a quoted section of the current cell has ended
	sawDelim bool
	cells    []token.Token
}

// New creates a Lexer for one line. Cells are separated by delim unless it
// is NoDelimiter.
func New(line string, delim rune) *Lexer {
	l := &Lexer{input: line, delim: delim}
	l.readRune()
	return l
}

// TokenizeRow splits line into typed cells. Quoted cells are taken
// literally; unquoted cells are trimmed and passed through Infer. Inside
// quotes a backslash makes the next character literal, except that \n, \r
// and \t stand for newline, carriage return and tab.
//
// An empty unquoted cell after the last delimiter is kept only while fewer
// than expected cells have been collected.
func TokenizeRow(line string, delim rune, expected int) []token.Token {
	return New(line, delim).Tokenize(expected)
}

// ReadScalar reads text as a single cell.
func ReadScalar(text string) token.Token {
	cells := New(text, NoDelimiter).Tokenize(1)
	if len(cells) == 0 {
		return token.Token{Type: token.STRING}
	}
	return cells[0]
}

// Tokenize runs the state machine to the end of the line.
func (l *Lexer) Tokenize(expected int) []token.Token {
	for l.ch != eof {
		switch l.st {
		case stateEscaped:
			l.buf.WriteRune(unescape(l.ch))
			l.st = stateInQuotes
		case stateInQuotes:
			switch l.ch {
			case '\\':
				l.st = stateEscaped
			case '"':
				l.st = stateNormal
				l.closed = true
			default:
				l.buf.WriteRune(l.ch)
			}
		default:
			switch {
			case l.ch == '"':
				l.flushPending()
				if !l.quoted && isBlank(l.buf.String()) {
					// Whitespace in front of the opening quote is not content.
					l.buf.Reset()
				}
				l.st = stateInQuotes
				l.quoted = true
				l.closed = false
			case l.ch == l.delim:
				l.sawDelim = true
				l.closeCell()
			case l.closed && (l.ch == ' ' || l.ch == '\t'):
				// Held back until the cell turns out to go on.
				l.pending.WriteRune(l.ch)
			default:
				l.flushPending()
				l.buf.WriteRune(l.ch)
			}
		}
		l.advance()
	}

	if l.st == stateEscaped {
		// A dangling backslash at the end of the line is kept as-is.
		l.buf.WriteByte('\\')
	}

	trailingEmpty := l.sawDelim && !l.quoted && isBlank(l.buf.String())
	if !trailingEmpty || len(l.cells) < expected {
		l.closeCell()
	}
	return l.cells
}

func (l *Lexer) closeCell() {
	var tok token.Token
	if l.quoted {
		tok = token.Token{Type: token.STRING, Literal: l.buf.String(), Quoted: true}
	} else {
		lit := strings.TrimSpace(l.buf.String())
		tok = token.Token{Type: Infer(lit), Literal: lit}
	}
	l.cells = append(l.cells, tok)
	l.buf.Reset()
	l.pending.Reset()
	l.quoted = false
	l.closed = false
	l.st = stateNormal
}

func (l *Lexer) flushPending() {
	l.buf.WriteString(l.pending.String())
	l.pending.Reset()
}

func (l *Lexer) readRune() {
	if l.pos >= len(l.input) {
		l.ch = eof
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.ch = r
	l.pos += size
}

func (l *Lexer) advance() {
	l.readRune()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// unescape returns the character denoted by an escape sequence. Any
// character other than the named control escapes stands for itself.
func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	}
	return ch
}
