package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	toonerrors "github.com/KimNorgaard/go-toon/errors"
	"github.com/KimNorgaard/go-toon/internal/ast"
	"github.com/KimNorgaard/go-toon/internal/lexer"
)

const (
	DefaultIndent   = 2
	DefaultMaxDepth = 1000
)

var (
	headerPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.\-]*)\[(\d+)\]\{([^{}]*)\}:$`)
	// Anything carrying a bracketed count or a brace field fragment is meant
	// to be a header, even when it fails headerPattern.
	headerLookalike = regexp.MustCompile(`\[\s*[+-]?\d+\s*\]|\{[^{}]*\}`)
)

// Config holds the settings the parser honors.
type Config struct {
	Indent    int  // spaces per nesting level
	Delimiter rune // row cell delimiter
	MaxDepth  int  // maximum nesting depth
}

// Parser builds a document tree from indentation-structured lines.
//
// The contract for all parse functions is that they are entered with p.pos
// on the first line of the construct, and they return with p.pos on the
// first line after it.
type Parser struct {
	lines []lexer.Line
	pos   int
	cfg   Config
	depth int
	// last bare scalar line seen at the root
	scalar *ast.Scalar
}

// New creates a new parser over data.
func New(data []byte, cfg Config) *Parser {
	if cfg.Indent <= 0 {
		cfg.Indent = DefaultIndent
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Parser{lines: lexer.SplitLines(data), cfg: cfg}
}

// Parse parses the whole document. Parsing stops at the first error, which
// is always a *errors.ParseError.
func (p *Parser) Parse() (*ast.Document, error) {
	doc := &ast.Document{}

	p.skipBlank()
	if p.done() {
		return doc, nil
	}

	first := p.cur()
	base := first.Indent

	if kind, _ := p.classify(first); kind == lineItem {
		list, err := p.parseList(base)
		if err != nil {
			return nil, err
		}
		doc.Root = list
	} else {
		obj, err := p.parseObject(base, true)
		if err != nil {
			return nil, err
		}
		// A bare scalar is the document only when no key was collected.
		doc.Root = obj
		if len(obj.Entries) == 0 && p.scalar != nil {
			doc.Root = p.scalar
		}
	}

	p.skipBlank()
	if !p.done() {
		line := p.cur()
		if line.Indent > base {
			return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "unexpected indentation %d in %q", line.Indent, line.Text)
		}
		return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "%q cannot follow the document root", line.Text)
	}
	return doc, nil
}

type lineKind uint8

const (
	lineScalar lineKind = iota
	lineItem
	lineTable
	linePair
	lineSection
)

// classified carries what classify learned about a line.
type classified struct {
	key  string
	rest string
	m    []string // header submatches
}

func (p *Parser) classify(line lexer.Line) (lineKind, classified) {
	text := line.Text
	if text == "-" || strings.HasPrefix(text, "- ") {
		return lineItem, classified{rest: strings.TrimSpace(text[1:])}
	}
	if m := headerPattern.FindStringSubmatch(text); m != nil {
		return lineTable, classified{m: m}
	}
	if key, rest, ok := splitKey(text); ok {
		if strings.TrimSpace(rest) == "" {
			return lineSection, classified{key: key}
		}
		return linePair, classified{key: key, rest: strings.TrimSpace(rest)}
	}
	return lineScalar, classified{}
}

// parseObject parses the entries at indent. At the root, bare scalar lines
// are tolerated: the last one is kept in p.scalar.
func (p *Parser) parseObject(indent int, root bool) (*ast.Object, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	obj := &ast.Object{Line: p.cur().Num}
	for {
		p.skipBlank()
		if p.done() {
			break
		}
		line := p.cur()
		if line.Indent < indent {
			break
		}
		if line.Indent > indent {
			return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "unexpected indentation %d in %q, expected %d", line.Indent, line.Text, indent)
		}
		if err := p.checkHeaderLookalike(line); err != nil {
			return nil, err
		}

		kind, c := p.classify(line)
		switch kind {
		case lineTable:
			table, err := p.parseTable(line, c.m)
			if err != nil {
				return nil, err
			}
			obj.Entries = append(obj.Entries, table)
		case linePair:
			p.pos++
			obj.Entries = append(obj.Entries, &ast.Pair{
				Line:  line.Num,
				Name:  c.key,
				Value: &ast.Scalar{Line: line.Num, Token: lexer.ReadScalar(c.rest)},
			})
		case lineSection:
			p.pos++
			body, err := p.parseBlock(indent+p.cfg.Indent, line.Num)
			if err != nil {
				return nil, err
			}
			obj.Entries = append(obj.Entries, &ast.Section{Line: line.Num, Name: c.key, Body: body})
		case lineItem:
			return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "list item %q inside an object", line.Text)
		default:
			if root {
				p.pos++
				p.scalar = &ast.Scalar{Line: line.Num, Token: lexer.ReadScalar(line.Text)}
				continue
			}
			return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "%q is neither a key nor an array header", line.Text)
		}
	}
	return obj, nil
}

// parseBlock parses the nested block of a section or a dash item. A block
// without lines is an empty object.
func (p *Parser) parseBlock(indent, owner int) (ast.Node, error) {
	p.skipBlank()
	if p.done() || p.cur().Indent < indent {
		return &ast.Object{Line: owner}, nil
	}
	line := p.cur()
	if line.Indent > indent {
		return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "unexpected indentation %d in %q, expected %d", line.Indent, line.Text, indent)
	}
	if kind, _ := p.classify(line); kind == lineItem {
		return p.parseList(indent)
	}
	return p.parseObject(indent, false)
}

func (p *Parser) parseList(indent int) (*ast.List, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	list := &ast.List{Line: p.cur().Num}
	for {
		p.skipBlank()
		if p.done() {
			break
		}
		line := p.cur()
		if line.Indent < indent {
			break
		}
		if line.Indent > indent {
			return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "unexpected indentation %d in %q, expected %d", line.Indent, line.Text, indent)
		}
		kind, c := p.classify(line)
		if kind != lineItem {
			return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "expected a list item, got %q", line.Text)
		}
		p.pos++

		item := &ast.Item{Line: line.Num}
		if c.rest == "" {
			body, err := p.parseBlock(indent+p.cfg.Indent, line.Num)
			if err != nil {
				return nil, err
			}
			item.Value = body
		} else {
			if headerLookalike.MatchString(unquoted(c.rest)) {
				return nil, p.errorf(line, toonerrors.ErrMalformedHeader, "list item %q looks like an array header", c.rest)
			}
			item.Value = &ast.Scalar{Line: line.Num, Token: lexer.ReadScalar(c.rest)}
		}
		list.Items = append(list.Items, item)
	}
	return list, nil
}

func (p *Parser) parseTable(header lexer.Line, m []string) (*ast.Table, error) {
	count, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, p.errorf(header, toonerrors.ErrMalformedHeader, "invalid count in header %q", header.Text)
	}
	fields, err := splitFields(m[3])
	if err != nil {
		return nil, p.errorf(header, toonerrors.ErrMalformedHeader, "header %q: %s", header.Text, err)
	}

	table := &ast.Table{Line: header.Num, Name: m[1], Count: count, Fields: fields}
	p.pos++

	rowIndent := header.Indent + p.cfg.Indent
	for !p.done() {
		line := p.cur()
		if line.Blank() || line.Indent < rowIndent {
			break
		}
		if line.Indent > rowIndent {
			return nil, p.errorf(line, toonerrors.ErrUnexpectedLine, "unexpected indentation %d in row %q of array %q, expected %d", line.Indent, line.Text, table.Name, rowIndent)
		}
		cells := lexer.TokenizeRow(line.Text, p.cfg.Delimiter, len(fields))
		if len(cells) != len(fields) {
			return nil, p.errorf(line, toonerrors.ErrFieldCountMismatch, "row %q of array %q has %d cells, expected %d", line.Text, table.Name, len(cells), len(fields))
		}
		table.Rows = append(table.Rows, cells)
		p.pos++
	}

	if len(table.Rows) != count {
		return nil, p.errorf(header, toonerrors.ErrArrayCountMismatch, "array %q declared %d rows, found %d", table.Name, count, len(table.Rows))
	}
	return table, nil
}

func (p *Parser) checkHeaderLookalike(line lexer.Line) error {
	if headerPattern.MatchString(line.Text) {
		return nil
	}
	if headerLookalike.MatchString(unquoted(line.Text)) {
		return p.errorf(line, toonerrors.ErrMalformedHeader, "%q is not a valid array header", line.Text)
	}
	return nil
}

func splitFields(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return []string{}, nil
	}
	parts := strings.Split(list, ",")
	fields := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, f := range parts {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, errors.New("empty field name")
		}
		if strings.ContainsAny(f, `":`) {
			return nil, errors.Newf("invalid field name %q", f)
		}
		if seen[f] {
			return nil, errors.Newf("duplicate field name %q", f)
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields, nil
}

// splitKey splits a "key: rest" line. The key may be quoted.
func splitKey(text string) (key, rest string, ok bool) {
	if strings.HasPrefix(text, `"`) {
		end := closingQuote(text)
		if end < 0 || end+1 >= len(text) || text[end+1] != ':' {
			return "", "", false
		}
		return lexer.ReadScalar(text[:end+1]).Literal, text[end+2:], true
	}
	idx := strings.IndexByte(text, ':')
	if idx <= 0 {
		return "", "", false
	}
	if strings.ContainsRune(text[:idx], '"') {
		// A quote before the colon means the colon is inside a quoted scalar.
		return "", "", false
	}
	key = strings.TrimSpace(text[:idx])
	if key == "" {
		return "", "", false
	}
	return key, text[idx+1:], true
}

// closingQuote returns the index of the quote closing the one at text[0],
// or -1.
func closingQuote(text string) int {
	escaped := false
	for i := 1; i < len(text); i++ {
		switch {
		case escaped:
			escaped = false
		case text[i] == '\\':
			escaped = true
		case text[i] == '"':
			return i
		}
	}
	return -1
}

// unquoted returns text with every quoted section removed.
func unquoted(text string) string {
	if !strings.ContainsRune(text, '"') {
		return text
	}
	var b strings.Builder
	inQuotes, escaped := false, false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case inQuotes && ch == '\\':
			escaped = true
		case ch == '"':
			inQuotes = !inQuotes
		case !inQuotes:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.cfg.MaxDepth {
		return p.errorf(p.cur(), toonerrors.ErrUnexpectedLine, "maximum nesting depth %d exceeded", p.cfg.MaxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) skipBlank() {
	for !p.done() && p.cur().Blank() {
		p.pos++
	}
}

func (p *Parser) done() bool {
	return p.pos >= len(p.lines)
}

func (p *Parser) cur() lexer.Line {
	return p.lines[p.pos]
}

func (p *Parser) errorf(line lexer.Line, kind error, format string, args ...any) error {
	return &toonerrors.ParseError{Line: line.Num, Err: toonerrors.Newf(kind, format, args...)}
}

// IsHeaderLike reports whether text contains an array header or a fragment
// resembling one outside of quoted sections.
func IsHeaderLike(text string) bool {
	for _, line := range lexer.SplitLines([]byte(text)) {
		if headerPattern.MatchString(line.Text) || headerLookalike.MatchString(unquoted(line.Text)) {
			return true
		}
	}
	return false
}
