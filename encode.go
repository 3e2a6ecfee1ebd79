package toon

import (
	"encoding"
	"io"
	"math/big"
	"reflect"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"

	toonerrors "github.com/KimNorgaard/go-toon/errors"
	"github.com/KimNorgaard/go-toon/internal/mapper"
)

// Marshaler is the interface implemented by types that can convert
// themselves into a Value.
type Marshaler interface {
	MarshalTOON() (Value, error)
}

var (
	marshalerType     = reflect.TypeFor[Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	valueType         = reflect.TypeFor[Value]()
	bigIntType        = reflect.TypeFor[big.Int]()
)

// Encoder writes TOON documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the TOON encoding of v to the stream. Nothing is written
// when encoding fails.
func (e *Encoder) Encode(v any) error {
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}
	es := &encodeState{maxDepth: o.maxDepth}
	val, err := es.marshalValue(reflect.ValueOf(v))
	if err != nil {
		return err
	}
	out, err := newFormatter(&o).format(val)
	if err != nil {
		return err
	}
	_, err = e.w.Write(out)
	return err
}

// ValueOf converts a Go value into a Value the way Marshal does.
func ValueOf(v any) (Value, error) {
	es := &encodeState{maxDepth: defaultMaxDepth}
	return es.marshalValue(reflect.ValueOf(v))
}

type encodeState struct {
	depth    int
	maxDepth int
}

func (e *encodeState) marshalCustom(v reflect.Value, m Marshaler) (Value, error) {
	val, err := m.MarshalTOON()
	if err != nil {
		return Value{}, &MarshalerError{Type: v.Type(), Err: err}
	}
	return val, nil
}

func (e *encodeState) marshalText(v reflect.Value, m encoding.TextMarshaler) (Value, error) {
	b, err := m.MarshalText()
	if err != nil {
		return Value{}, &MarshalerError{Type: v.Type(), Err: err}
	}
	return String(string(b)), nil
}

// isEmptyValue reports whether the value v is empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	case reflect.Struct:
		if v.Type() == valueType {
			return v.Interface().(Value).IsNull()
		}
	}
	return false
}

func (e *encodeState) marshalValue(v reflect.Value) (Value, error) { //nolint:gocyclo
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return Null(), nil
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.maxDepth {
		return Value{}, toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "maximum nesting depth %d exceeded", e.maxDepth)
	}

	// Check for custom marshalers on the value itself and on a pointer to
	// it, to handle both value and pointer receivers.
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return Null(), nil
	}
	if v.Type().Implements(marshalerType) {
		return e.marshalCustom(v, v.Interface().(Marshaler))
	}
	if v.Kind() != reflect.Pointer && reflect.PointerTo(v.Type()).Implements(marshalerType) {
		return e.marshalCustom(v, addressable(v).Addr().Interface().(Marshaler))
	}

	// Follow pointers and interfaces to find the concrete value.
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Null(), nil
		}
		v = v.Elem()
	}

	switch v.Type() {
	case valueType:
		return v.Interface().(Value), nil
	case bigIntType:
		return BigInt(addressable(v).Addr().Interface().(*big.Int)), nil
	}
	if reflect.PointerTo(v.Type()).Implements(textMarshalerType) {
		return e.marshalText(v, addressable(v).Addr().Interface().(encoding.TextMarshaler))
	}

	switch v.Kind() {
	case reflect.String:
		return String(v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return NumberOf(v.Uint()), nil
	case reflect.Float32:
		// Shortest float32 form, so 0.1 stays 0.1.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(v.Float(), 'g', -1, 32), 64)
		return Float(f), nil
	case reflect.Float64:
		return Float(v.Float()), nil
	case reflect.Bool:
		return Bool(v.Bool()), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return Null(), nil
		}
		items := make([]Value, v.Len())
		for i := range items {
			item, err := e.marshalValue(v.Index(i))
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Array(items...), nil
	case reflect.Map:
		if v.IsNil() {
			return Null(), nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return Value{}, toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "map key type must be a string, got %s", v.Type().Key())
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			switch {
			case a.String() < b.String():
				return -1
			case a.String() > b.String():
				return 1
			}
			return 0
		})
		obj := Value{kind: KindObject, members: make([]Member, 0, len(keys))}
		for _, key := range keys {
			val, err := e.marshalValue(v.MapIndex(key))
			if err != nil {
				return Value{}, errors.Wrapf(err, "key %q", key.String())
			}
			obj.members = append(obj.members, Member{Key: key.String(), Value: val})
		}
		return obj, nil
	case reflect.Struct:
		return e.marshalStruct(v)
	default:
		return Value{}, toonerrors.Newf(toonerrors.ErrUnsupportedValueType, "cannot marshal Go value of type %s", v.Type())
	}
}

func (e *encodeState) marshalStruct(v reflect.Value) (Value, error) {
	fields := mapper.TypeFields(v.Type())
	obj := Value{kind: KindObject, members: make([]Member, 0, len(fields.List))}
	for _, f := range fields.List {
		fv, err := v.FieldByIndexErr(f.Index)
		if err != nil {
			// Promoted through a nil embedded pointer.
			continue
		}
		if f.OmitEmpty && isEmptyValue(fv) {
			continue
		}
		val, err := e.marshalValue(fv)
		if err != nil {
			return Value{}, errors.Wrapf(err, "field %s", f.Name)
		}
		obj.members = append(obj.members, Member{Key: f.Name, Value: val})
	}
	return obj, nil
}

// addressable returns v itself when it can be addressed, otherwise a copy
// that can.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	pv := reflect.New(v.Type())
	pv.Elem().Set(v)
	return pv.Elem()
}
