package toon

import (
	"encoding"
	"io"
	"math/big"
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/KimNorgaard/go-toon/internal/mapper"
	"github.com/KimNorgaard/go-toon/internal/parser"
)

const defaultMaxDepth = parser.DefaultMaxDepth

// Unmarshaler is the interface implemented by types that can populate
// themselves from a Value.
type Unmarshaler interface {
	UnmarshalTOON(Value) error
}

var (
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Decoder reads and decodes TOON documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Functional options can be provided to configure the decoding process,
// such as setting a maximum decoding depth with the MaxDepth option.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the whole input and stores the document it holds in the
// value pointed to by v. See Unmarshal for the conversion rules.
//
// Note: the format has no document separator, so Decode consumes the
// reader to EOF.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return errors.New("toon: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	return Unmarshal(data, v, d.opts...)
}

// Assign stores val in the value pointed to by v, following the same rules
// as Unmarshal.
func Assign(val Value, v any, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	return assign(val, v, &o)
}

func assign(val Value, v any, o *options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.Newf("toon: Unmarshal(non-pointer %T or nil)", v)
	}
	ds := &decodeState{maxDepth: o.maxDepth}
	return ds.mapValue(val, rv.Elem())
}

type decodeState struct {
	depth    int
	maxDepth int
}

func (ds *decodeState) mapValue(val Value, rv reflect.Value) error { //nolint:gocyclo
	ds.depth++
	defer func() { ds.depth-- }()
	if ds.depth > ds.maxDepth {
		return errors.Newf("toon: reached max recursion depth %d", ds.maxDepth)
	}

	if val.IsNull() {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
	}

	// Attempt to use a custom unmarshaler if available.
	handled, err := ds.tryCustomUnmarshal(val, rv)
	if err != nil || handled {
		return err
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
		if handled, err := ds.tryCustomUnmarshal(val, rv); err != nil || handled {
			return err
		}
	}

	switch rv.Type() {
	case valueType:
		rv.Set(reflect.ValueOf(val))
		return nil
	case bigIntType:
		n, ok := val.BigInt()
		if !ok {
			return ds.typeError(val, rv)
		}
		rv.Addr().Interface().(*big.Int).Set(n)
		return nil
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(val, rv)
	}
	if !rv.CanSet() {
		return errors.Newf("toon: cannot set value of type %s", rv.Type())
	}

	switch val.kind {
	case KindNull:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case KindBool:
		if rv.Kind() != reflect.Bool {
			return ds.typeError(val, rv)
		}
		rv.SetBool(val.b)
		return nil
	case KindString:
		if rv.Kind() != reflect.String {
			return ds.typeError(val, rv)
		}
		rv.SetString(val.s)
		return nil
	case KindNumber:
		return ds.mapNumber(val, rv)
	case KindArray:
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(val.items, rv)
		case reflect.Array:
			return ds.mapArray(val.items, rv)
		}
		return ds.typeError(val, rv)
	case KindObject:
		switch rv.Kind() {
		case reflect.Struct:
			return ds.mapStruct(val.members, rv)
		case reflect.Map:
			return ds.mapMap(val.members, rv)
		}
		return ds.typeError(val, rv)
	}
	return ds.typeError(val, rv)
}

// tryCustomUnmarshal attempts to use Unmarshaler or encoding.TextUnmarshaler
// on rv. It reports whether one was found and used, in which case the
// caller should not proceed with default unmarshaling.
func (ds *decodeState) tryCustomUnmarshal(val Value, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if pv.Type().Implements(unmarshalerType) {
		if err := pv.Interface().(Unmarshaler).UnmarshalTOON(val); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	// TextUnmarshaler can only be used on string values.
	if s, isString := val.Str(); isString && pv.Type().Implements(textUnmarshalerType) {
		if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}
	return false, nil
}

func (ds *decodeState) typeError(val Value, rv reflect.Value) error {
	what := val.kind.String()
	if val.kind == KindNumber {
		what = "float"
		if val.IsInteger() {
			what = "integer"
		}
	}
	return errors.Newf("toon: cannot unmarshal %s into Go value of type %s", what, rv.Type())
}

func (ds *decodeState) mapNumber(val Value, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !val.IsInteger() {
			return ds.typeError(val, rv)
		}
		i, ok := val.Int64()
		if !ok || rv.OverflowInt(i) {
			return errors.Newf("toon: integer value %s overflows Go value of type %s", val, rv.Type())
		}
		rv.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if !val.IsInteger() {
			return ds.typeError(val, rv)
		}
		n, _ := val.BigInt()
		if n.Sign() < 0 || !n.IsUint64() || rv.OverflowUint(n.Uint64()) {
			return errors.Newf("toon: integer value %s overflows Go value of type %s", val, rv.Type())
		}
		rv.SetUint(n.Uint64())
		return nil
	case reflect.Float32, reflect.Float64:
		f, _ := val.Float64()
		if rv.OverflowFloat(f) {
			return errors.Newf("toon: float value %s overflows Go value of type %s", val, rv.Type())
		}
		rv.SetFloat(f)
		return nil
	}
	return ds.typeError(val, rv)
}

func (ds *decodeState) mapSlice(items []Value, rv reflect.Value) error {
	newSlice := reflect.MakeSlice(rv.Type(), len(items), len(items))
	for i, item := range items {
		if err := ds.mapValue(item, newSlice.Index(i)); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(items []Value, rv reflect.Value) error {
	if rv.Len() != len(items) {
		return errors.Newf("toon: cannot unmarshal array of length %d into Go array of length %d", len(items), rv.Len())
	}
	for i, item := range items {
		if err := ds.mapValue(item, rv.Index(i)); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func (ds *decodeState) mapMap(members []Member, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return errors.Newf("toon: cannot unmarshal object into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(mapType, len(members)))
	} else {
		rv.Clear()
	}
	elemType := mapType.Elem()
	for _, m := range members {
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(m.Value, newVal); err != nil {
			return errors.Wrapf(err, "key %q", m.Key)
		}
		rv.SetMapIndex(reflect.ValueOf(m.Key).Convert(mapType.Key()), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(members []Member, rv reflect.Value) error {
	fields := mapper.TypeFields(rv.Type())
	for _, m := range members {
		f, ok := fields.Lookup(m.Key)
		if !ok {
			continue
		}
		fv, ok := fieldByIndexAlloc(rv, f.Index)
		if !ok {
			continue
		}
		if err := ds.mapValue(m.Value, fv); err != nil {
			return errors.Wrapf(err, "field %s", f.Name)
		}
	}
	return nil
}

// fieldByIndexAlloc walks index like FieldByIndex, allocating nil embedded
// pointers on the way.
func fieldByIndexAlloc(rv reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				if !rv.CanSet() {
					return reflect.Value{}, false
				}
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, rv.CanSet()
}

func (ds *decodeState) mapInterface(val Value, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return errors.Newf("toon: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	if val.IsNull() {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	rv.Set(reflect.ValueOf(val.Interface()))
	return nil
}

// Interface returns v as plain Go data: nil, bool, int64, *big.Int,
// float64, string, []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		switch v.num {
		case numInt:
			return v.i
		case numBig:
			return new(big.Int).Set(v.big)
		}
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	}
	return nil
}
