package toon

import (
	"math/big"
	"strconv"

	"github.com/KimNorgaard/go-toon/internal/ast"
	"github.com/KimNorgaard/go-toon/internal/token"
)

// builder turns a parsed document into a Value.
type builder struct {
	unflattenSep string
}

func (b *builder) document(doc *ast.Document) Value {
	if doc == nil || doc.Root == nil {
		return Null()
	}
	return b.node(doc.Root)
}

func (b *builder) node(n ast.Node) Value {
	switch n := n.(type) {
	case *ast.Scalar:
		return scalarValue(n.Token)
	case *ast.Object:
		obj := Object()
		for _, e := range n.Entries {
			obj.Set(e.Key(), b.entry(e))
		}
		return obj
	case *ast.List:
		items := make([]Value, len(n.Items))
		for i, it := range n.Items {
			items[i] = b.node(it.Value)
		}
		return Array(items...)
	case *ast.Item:
		return b.node(n.Value)
	}
	return Null()
}

func (b *builder) entry(e ast.Entry) Value {
	switch e := e.(type) {
	case *ast.Pair:
		return scalarValue(e.Value.Token)
	case *ast.Section:
		return b.node(e.Body)
	case *ast.Table:
		return b.table(e)
	}
	return Null()
}

func (b *builder) table(t *ast.Table) Value {
	rows := make([]Value, len(t.Rows))
	for i, cells := range t.Rows {
		row := Value{kind: KindObject, members: make([]Member, len(t.Fields))}
		for j, field := range t.Fields {
			row.members[j] = Member{Key: field, Value: scalarValue(cells[j])}
		}
		if b.unflattenSep != "" {
			row = Unflatten(row, b.unflattenSep)
		}
		rows[i] = row
	}
	return Array(rows...)
}

// scalarValue converts an inferred cell token into a Value.
func scalarValue(tok token.Token) Value {
	if tok.Quoted {
		return String(tok.Literal)
	}
	switch tok.Type {
	case token.NULL:
		return Null()
	case token.TRUE:
		return Bool(true)
	case token.FALSE:
		return Bool(false)
	case token.INT:
		if i, err := strconv.ParseInt(tok.Literal, 10, 64); err == nil {
			return Int(i)
		}
		if n, ok := new(big.Int).SetString(tok.Literal, 10); ok {
			return BigInt(n)
		}
	case token.FLOAT:
		if f, err := strconv.ParseFloat(tok.Literal, 64); err == nil {
			return Float(f)
		}
	}
	return String(tok.Literal)
}
