package toon

import (
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/KimNorgaard/go-toon/internal/parser"
)

// An Option configures parsing or serialization.
type Option func(*options) error

type options struct {
	indent       int
	delimiter    rune
	maxDepth     int
	flattenSep   string
	flattenDepth int
	unflattenSep string
}

func newOptions(opts []Option) (options, error) {
	o := options{
		indent:    parser.DefaultIndent,
		delimiter: ',',
		maxDepth:  parser.DefaultMaxDepth,
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return options{}, err
		}
	}
	return o, nil
}

// Indent sets the number of spaces per nesting level. It applies to both
// reading and writing; the default is 2.
func Indent(spaces int) Option {
	return func(o *options) error {
		if spaces < 0 {
			return errors.New("toon: indent spaces cannot be negative")
		}
		if spaces == 0 {
			return errors.New("toon: indent spaces cannot be zero in an indentation-based format")
		}
		o.indent = spaces
		return nil
	}
}

// Delimiter sets the rune separating the cells of a row. The default is a
// comma. Header field lists always use commas.
func Delimiter(r rune) Option {
	return func(o *options) error {
		switch {
		case r == '"' || r == '\\' || r == '\n' || r == '\r':
			return errors.Newf("toon: %q cannot be used as a delimiter", r)
		case r == utf8.RuneError || (r != '\t' && unicode.IsSpace(r)):
			return errors.Newf("toon: %q cannot be used as a delimiter", r)
		}
		o.delimiter = r
		return nil
	}
}

// MaxDepth sets the maximum nesting depth accepted when parsing, mapping
// into Go values, or serializing.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.New("toon: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// FlattenKeys makes the serializer flatten nested objects inside tabular
// rows into keys joined by sep, such as "address.city". A depth of zero
// or less flattens without limit.
func FlattenKeys(sep string, depth int) Option {
	return func(o *options) error {
		if sep == "" {
			return errors.New("toon: flatten separator cannot be empty")
		}
		o.flattenSep = sep
		o.flattenDepth = depth
		return nil
	}
}

// UnflattenKeys makes the parser rebuild nested objects from tabular
// fields joined by sep.
func UnflattenKeys(sep string) Option {
	return func(o *options) error {
		if sep == "" {
			return errors.New("toon: unflatten separator cannot be empty")
		}
		o.unflattenSep = sep
		return nil
	}
}
