package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-toon/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the 1-based line the node starts on.
	Pos() int
	// String returns a compact, single-line representation of the node.
	String() string
}

// Entry is a node that contributes a member to an object.
type Entry interface {
	Node
	// Key returns the member name the entry is stored under.
	Key() string
	entryNode()
}

// Document is the root node of a TOON document. Root is nil for an empty
// document, otherwise one of *Scalar, *Object or *List.
type Document struct {
	Root Node
}

// Pos returns the line of the root node.
func (d *Document) Pos() int {
	if d.Root == nil {
		return 0
	}
	return d.Root.Pos()
}

// String returns a string representation of the node.
func (d *Document) String() string {
	if d.Root == nil {
		return ""
	}
	return d.Root.String()
}

// Scalar is a single inferred or quoted value.
type Scalar struct {
	Line  int
	Token token.Token
}

func (s *Scalar) Pos() int { return s.Line }
func (s *Scalar) String() string {
	if s.Token.Quoted {
		return strconv.Quote(s.Token.Literal)
	}
	return s.Token.Literal
}

// Object is a sequence of entries at one indentation level.
type Object struct {
	Line    int
	Entries []Entry
}

func (o *Object) Pos() int { return o.Line }
func (o *Object) String() string {
	var out bytes.Buffer
	parts := make([]string, 0, len(o.Entries))
	for _, e := range o.Entries {
		parts = append(parts, e.String())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}

// List is a sequence of dash items at one indentation level.
type List struct {
	Line  int
	Items []*Item
}

func (l *List) Pos() int { return l.Line }
func (l *List) String() string {
	var out bytes.Buffer
	parts := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		parts = append(parts, it.String())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

// Item is one dash item. Value is a *Scalar, *Object or *List; an item with
// no nested lines holds an empty *Object.
type Item struct {
	Line  int
	Value Node
}

func (i *Item) Pos() int       { return i.Line }
func (i *Item) String() string { return i.Value.String() }

// Table is an array header together with its data rows.
type Table struct {
	Line   int
	Name   string
	Count  int
	Fields []string
	Rows   [][]token.Token
}

func (t *Table) entryNode()  {}
func (t *Table) Pos() int    { return t.Line }
func (t *Table) Key() string { return t.Name }
func (t *Table) String() string {
	return t.Name + "[" + strconv.Itoa(t.Count) + "]{" + strings.Join(t.Fields, ",") + "}"
}

// Pair is a "key: value" line.
type Pair struct {
	Line  int
	Name  string
	Value *Scalar
}

func (p *Pair) entryNode()     {}
func (p *Pair) Pos() int       { return p.Line }
func (p *Pair) Key() string    { return p.Name }
func (p *Pair) String() string { return p.Name + ":" + p.Value.String() }

// Section is a "key:" line followed by a nested block. Body is an *Object or
// a *List.
type Section struct {
	Line int
	Name string
	Body Node
}

func (s *Section) entryNode()     {}
func (s *Section) Pos() int       { return s.Line }
func (s *Section) Key() string    { return s.Name }
func (s *Section) String() string { return s.Name + ":" + s.Body.String() }
