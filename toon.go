package toon

import (
	"bytes"

	"github.com/KimNorgaard/go-toon/internal/parser"
)

// Parse reads a TOON document. Empty or whitespace-only input yields null.
// Errors in the input are reported as *ParseError.
func Parse(data []byte, opts ...Option) (Value, error) {
	o, err := newOptions(opts)
	if err != nil {
		return Value{}, err
	}
	return parse(data, &o)
}

func parse(data []byte, o *options) (Value, error) {
	p := parser.New(data, parser.Config{
		Indent:    o.indent,
		Delimiter: o.delimiter,
		MaxDepth:  o.maxDepth,
	})
	doc, err := p.Parse()
	if err != nil {
		return Value{}, err
	}
	b := &builder{unflattenSep: o.unflattenSep}
	return b.document(doc), nil
}

// Stringify returns the TOON text of v. The output has no trailing
// newline and is identical for equal inputs.
func Stringify(v Value, opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return newFormatter(&o).format(v)
}

// Marshal returns the TOON encoding of v.
//
// Structs become objects whose keys follow the "toon" struct tag, such as
// `toon:"name,omitempty"`, in field order. Map keys are sorted. Slices of
// structs stored under an object key become tabular arrays.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the TOON-encoded data and stores the result in the
// value pointed to by v.
//
// An interface{} target receives map[string]any, []any, int64, *big.Int,
// float64, string, bool or nil. Object keys are matched against struct
// fields by tag or name, exactly first and case-insensitively second.
func Unmarshal(data []byte, v any, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	val, err := parse(data, &o)
	if err != nil {
		return err
	}
	return assign(val, v, &o)
}
