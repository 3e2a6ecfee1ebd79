package toon

import (
	"bytes"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	toonerrors "github.com/KimNorgaard/go-toon/errors"
	"github.com/KimNorgaard/go-toon/internal/lexer"
	"github.com/KimNorgaard/go-toon/internal/token"
)

var arrayName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// formatter writes a Value as TOON text. Lines are joined by a single
// newline; the output carries no trailing newline.
type formatter struct {
	buf    bytes.Buffer
	indent string
	opts   *options
	lines  int
}

func newFormatter(opts *options) *formatter {
	return &formatter{indent: strings.Repeat(" ", opts.indent), opts: opts}
}

func (f *formatter) format(v Value) ([]byte, error) {
	var err error
	switch v.kind {
	case KindObject:
		err = f.writeMembers(v.members, 0)
	case KindArray:
		switch {
		case len(v.items) == 0:
		case isUniform(v.items):
			err = toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "uniform array at top level must be wrapped in a named object")
		default:
			err = f.writeList(v.items, 0)
		}
	default:
		var s string
		if s, err = f.scalar(v); err == nil {
			f.line(0, s)
		}
	}
	if err != nil {
		return nil, err
	}
	return f.buf.Bytes(), nil
}

func (f *formatter) line(depth int, text string) {
	if f.lines > 0 {
		f.buf.WriteByte('\n')
	}
	for i := 0; i < depth; i++ {
		f.buf.WriteString(f.indent)
	}
	f.buf.WriteString(text)
	f.lines++
}

func (f *formatter) checkDepth(depth int) error {
	if depth >= f.opts.maxDepth {
		return toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "maximum nesting depth %d exceeded", f.opts.maxDepth)
	}
	return nil
}

func (f *formatter) writeMembers(members []Member, depth int) error {
	if err := f.checkDepth(depth); err != nil {
		return err
	}
	for _, m := range members {
		switch m.Value.kind {
		case KindArray:
			if err := f.writeTable(m.Key, m.Value.items, depth); err != nil {
				return err
			}
		case KindObject:
			f.line(depth, formatKey(m.Key)+":")
			if err := f.writeMembers(m.Value.members, depth+1); err != nil {
				return errors.Wrapf(err, "in %q", m.Key)
			}
		default:
			s, err := f.scalar(m.Value)
			if err != nil {
				return errors.Wrapf(err, "key %q", m.Key)
			}
			f.line(depth, formatKey(m.Key)+": "+s)
		}
	}
	return nil
}

func (f *formatter) writeTable(name string, items []Value, depth int) error {
	if !arrayName.MatchString(name) {
		return toonerrors.Newf(toonerrors.ErrInvalidKey, "array name %q is not an identifier", name)
	}
	rows := items
	if f.opts.flattenSep != "" {
		rows = make([]Value, len(items))
		for i, it := range items {
			rows[i] = Flatten(it, f.opts.flattenSep, f.opts.flattenDepth)
		}
	}
	if reason := nonUniformReason(rows); reason != "" {
		return toonerrors.Newf(toonerrors.ErrNonUniformArray, "array %q %s", name, reason)
	}

	fields := rows[0].Keys()
	if len(fields) == 0 {
		return toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "array %q holds objects without fields", name)
	}
	for _, field := range fields {
		if err := checkField(field); err != nil {
			return errors.Wrapf(err, "array %q", name)
		}
	}

	f.line(depth, name+"["+strconv.Itoa(len(rows))+"]{"+strings.Join(fields, ",")+"}:")
	delim := string(f.opts.delimiter)
	cells := make([]string, len(fields))
	for i, row := range rows {
		for j, field := range fields {
			v, _ := row.Get(field)
			if v.kind == KindObject || v.kind == KindArray {
				return toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "field %q of row %d in array %q holds a nested %s", field, i, name, v.kind)
			}
			s, err := f.scalar(v)
			if err != nil {
				return errors.Wrapf(err, "field %q of row %d in array %q", field, i, name)
			}
			cells[j] = s
		}
		f.line(depth+1, strings.Join(cells, delim))
	}
	return nil
}

func (f *formatter) writeList(items []Value, depth int) error {
	if err := f.checkDepth(depth); err != nil {
		return err
	}
	for i, it := range items {
		switch it.kind {
		case KindObject:
			f.line(depth, "-")
			if err := f.writeMembers(it.members, depth+1); err != nil {
				return errors.Wrapf(err, "item %d", i)
			}
		case KindArray:
			if len(it.items) == 0 {
				return toonerrors.Newf(toonerrors.ErrNonUniformArray, "item %d is an empty array", i)
			}
			f.line(depth, "-")
			if err := f.writeList(it.items, depth+1); err != nil {
				return errors.Wrapf(err, "item %d", i)
			}
		default:
			s, err := f.scalar(it)
			if err != nil {
				return errors.Wrapf(err, "item %d", i)
			}
			f.line(depth, "- "+s)
		}
	}
	return nil
}

func (f *formatter) scalar(v Value) (string, error) {
	switch v.kind {
	case KindNull:
		return "null", nil
	case KindBool:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case KindNumber:
		return formatNumber(v)
	case KindString:
		return quoteIfNeeded(v.s, f.opts.delimiter), nil
	}
	return "", toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "%s is not a scalar", v.kind)
}

// isUniform reports whether items is a non-empty list of objects sharing
// one key set.
func isUniform(items []Value) bool {
	return nonUniformReason(items) == ""
}

func nonUniformReason(items []Value) string {
	if len(items) == 0 {
		return "is empty"
	}
	first := items[0]
	for i, it := range items {
		if it.kind != KindObject {
			return "element " + strconv.Itoa(i) + " is a " + it.kind.String() + ", not an object"
		}
		if i == 0 {
			continue
		}
		if len(it.members) != len(first.members) {
			return "element " + strconv.Itoa(i) + " has a different set of keys"
		}
		for _, m := range first.members {
			if _, ok := it.Get(m.Key); !ok {
				return "element " + strconv.Itoa(i) + " lacks key " + strconv.Quote(m.Key)
			}
		}
	}
	return ""
}

func checkField(field string) error {
	switch {
	case field == "":
		return toonerrors.Newf(toonerrors.ErrInvalidKey, "empty field name")
	case field != strings.TrimSpace(field):
		return toonerrors.Newf(toonerrors.ErrInvalidKey, "field %q has surrounding whitespace", field)
	case strings.ContainsAny(field, `,{}:"`) || strings.IndexFunc(field, unicode.IsControl) >= 0:
		return toonerrors.Newf(toonerrors.ErrInvalidKey, "field %q cannot appear in an array header", field)
	}
	return nil
}

// formatKey quotes a member key that would not read back as a plain key.
func formatKey(key string) string {
	if key == "" ||
		key != strings.TrimSpace(key) ||
		strings.HasPrefix(key, "-") ||
		strings.ContainsAny(key, `:"[]{}\`) ||
		strings.IndexFunc(key, unicode.IsControl) >= 0 {
		return quote(key)
	}
	return key
}

// quoteIfNeeded returns s unchanged when it reads back as the same string
// and quoted otherwise.
func quoteIfNeeded(s string, delim rune) string {
	if needsQuote(s, delim) {
		return quote(s)
	}
	return s
}

func needsQuote(s string, delim rune) bool {
	switch {
	case s == "", s == "-":
		return true
	case s != strings.TrimSpace(s):
		return true
	case strings.ContainsAny(s, ",\":[]{}\\ "), strings.ContainsRune(s, delim):
		return true
	case strings.IndexFunc(s, unicode.IsControl) >= 0:
		return true
	case token.IsKeyword(s), lexer.IsNumeric(s):
		return true
	}
	return false
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func formatNumber(v Value) (string, error) {
	switch v.num {
	case numInt:
		return strconv.FormatInt(v.i, 10), nil
	case numBig:
		return v.big.String(), nil
	}
	if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
		return "", toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "number %v has no textual form", v.f)
	}
	return formatFloat(v.f), nil
}

// formatFloat returns the shortest representation of f that parses back
// to f and always contains a decimal point.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e15) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		if !strings.Contains(mant, ".") {
			mant += ".0"
		}
		return mant + "e" + exp
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
