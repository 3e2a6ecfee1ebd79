package toon

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"

	toonerrors "github.com/KimNorgaard/go-toon/errors"
)

var (
	_ json.Marshaler   = Value{}
	_ json.Unmarshaler = (*Value)(nil)
)

// FromJSON decodes a JSON document into a Value, keeping the order of
// object keys. Integers are kept exact, growing into big integers when
// needed.
func FromJSON(data []byte) (Value, error) {
	if !json.Valid(data) {
		return Value{}, errors.New("toon: invalid JSON")
	}
	raw, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, errors.Wrap(err, "toon: decoding JSON")
	}
	return parseJSONValue(dataType, raw)
}

func parseJSONValue(dataType jsonparser.ValueType, data []byte) (Value, error) {
	switch dataType {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case jsonparser.Number:
		return parseJSONNumber(data)
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case jsonparser.Array:
		items := []Value{}
		var err error
		_, perr := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
			if err != nil {
				return
			}
			var v Value
			v, err = parseJSONValue(dataType, value)
			items = append(items, v)
		})
		if err != nil {
			return Value{}, err
		}
		if perr != nil {
			return Value{}, perr
		}
		return Array(items...), nil
	case jsonparser.Object:
		obj := Object()
		err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
			// ObjectEach hands over keys already unescaped.
			v, err := parseJSONValue(dataType, value)
			if err != nil {
				return err
			}
			obj.Set(string(key), v)
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return obj, nil
	}
	return Value{}, errors.Newf("toon: unexpected JSON value %q", data)
}

func parseJSONNumber(data []byte) (Value, error) {
	if bytes.ContainsAny(data, ".eE") {
		f, err := jsonparser.ParseFloat(data)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	}
	if i, err := jsonparser.ParseInt(data); err == nil {
		return Int(i), nil
	}
	n, ok := new(big.Int).SetString(string(data), 10)
	if !ok {
		return Value{}, errors.Newf("toon: invalid JSON number %q", data)
	}
	return BigInt(n), nil
}

// ToJSON encodes v as JSON with object keys in member order. A non-empty
// indent puts every member and element on its own line.
func ToJSON(v Value, indent string) ([]byte, error) {
	var sb strings.Builder
	if err := writeJSON(&sb, v, indent, 0, true); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return ToJSON(v, "")
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	val, err := FromJSON(data)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// writeJSON writes v to sb. Unless strict, non-finite floats are written
// as Go prints them instead of failing.
func writeJSON(sb *strings.Builder, v Value, indent string, depth int, strict bool) error {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		s, err := formatNumber(v)
		if err != nil {
			if strict {
				return err
			}
			s = strconv.FormatFloat(v.f, 'g', -1, 64)
		}
		sb.WriteString(s)
	case KindString:
		writeJSONString(sb, v.s)
	case KindArray:
		if len(v.items) == 0 {
			sb.WriteString("[]")
			return nil
		}
		sb.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			newline(sb, indent, depth+1)
			if err := writeJSON(sb, it, indent, depth+1, strict); err != nil {
				return err
			}
		}
		newline(sb, indent, depth)
		sb.WriteByte(']')
	case KindObject:
		if len(v.members) == 0 {
			sb.WriteString("{}")
			return nil
		}
		sb.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			newline(sb, indent, depth+1)
			writeJSONString(sb, m.Key)
			sb.WriteByte(':')
			if indent != "" {
				sb.WriteByte(' ')
			}
			if err := writeJSON(sb, m.Value, indent, depth+1, strict); err != nil {
				return errors.Wrapf(err, "key %q", m.Key)
			}
		}
		newline(sb, indent, depth)
		sb.WriteByte('}')
	default:
		return toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "value of kind %d", v.kind)
	}
	return nil
}

func newline(sb *strings.Builder, indent string, depth int) {
	if indent == "" {
		return
	}
	sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		sb.WriteString(indent)
	}
}

const hexDigits = "0123456789abcdef"

// writeJSONString writes s as a JSON string literal. The encoder is
// hand-written because encoding/json cannot keep object members in order.
func writeJSONString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				sb.WriteByte('\\')
				sb.WriteByte(c)
			case c == '\n':
				sb.WriteString(`\n`)
			case c == '\r':
				sb.WriteString(`\r`)
			case c == '\t':
				sb.WriteString(`\t`)
			case c < 0x20:
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[c>>4])
				sb.WriteByte(hexDigits[c&0xf])
			default:
				sb.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			sb.WriteString(`\ufffd`)
		case r == '\u2028' || r == '\u2029':
			sb.WriteString(`\u202`)
			sb.WriteByte(hexDigits[r&0xf])
		default:
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	sb.WriteByte('"')
}
