package toon

import (
	"math"
	"math/big"
	"strings"

	"golang.org/x/exp/constraints"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

type numKind uint8

const (
	numInt numKind = iota
	numBig
	numFloat
)

// Value is a JSON-compatible value. The zero Value is null.
//
// Objects keep their members in insertion order; that order is the order
// in which they are serialized.
type Value struct {
	kind Kind

	b   bool
	num numKind
	i   int64
	big *big.Int // only for integers outside the int64 range
	f   float64
	s   string

	members []Member
	items   []Value
}

// Member is a key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer number.
func Int(i int64) Value { return Value{kind: KindNumber, num: numInt, i: i} }

// BigInt returns an integer number of arbitrary size. Values that fit in an
// int64 are stored as such.
func BigInt(n *big.Int) Value {
	if n == nil {
		return Null()
	}
	if n.IsInt64() {
		return Int(n.Int64())
	}
	return Value{kind: KindNumber, num: numBig, big: new(big.Int).Set(n)}
}

// Float returns a fractional number.
func Float(f float64) Value { return Value{kind: KindNumber, num: numFloat, f: f} }

// NumberOf returns a number for any Go integer or floating point type.
// Unsigned values beyond the int64 range become big integers.
func NumberOf[T constraints.Integer | constraints.Float](n T) Value {
	var half T = 1
	half /= 2
	if half != 0 {
		return Float(float64(n))
	}
	var minusOne T
	minusOne--
	if minusOne < 0 {
		return Int(int64(n))
	}
	u := uint64(n)
	if u > math.MaxInt64 {
		return BigInt(new(big.Int).SetUint64(u))
	}
	return Int(int64(u))
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Object returns an object holding members in order. A repeated key
// replaces the earlier value and keeps its position.
func Object(members ...Member) Value {
	v := Value{kind: KindObject, members: make([]Member, 0, len(members))}
	for _, m := range members {
		v.Set(m.Key, m.Value)
	}
	return v
}

// Array returns an array of items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsInteger reports whether v is a number read or built as an integer.
func (v Value) IsInteger() bool {
	return v.kind == KindNumber && v.num != numFloat
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Int64 returns v as an int64 if it is an integer within range.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber || v.num != numInt {
		return 0, false
	}
	return v.i, true
}

// BigInt returns v as a big integer if it is an integer.
func (v Value) BigInt() (*big.Int, bool) {
	if v.kind != KindNumber {
		return nil, false
	}
	switch v.num {
	case numInt:
		return big.NewInt(v.i), true
	case numBig:
		return new(big.Int).Set(v.big), true
	}
	return nil, false
}

// Float64 returns any number as a float64. Big integers are rounded.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	switch v.num {
	case numInt:
		return float64(v.i), true
	case numBig:
		f, _ := new(big.Float).SetInt(v.big).Float64()
		return f, true
	}
	return v.f, true
}

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Members returns the members of an object in order.
func (v Value) Members() ([]Member, bool) {
	return v.members, v.kind == KindObject
}

// Items returns the elements of an array.
func (v Value) Items() ([]Value, bool) {
	return v.items, v.kind == KindArray
}

// Len returns the number of members of an object or elements of an array.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.members)
	case KindArray:
		return len(v.items)
	default:
		return 0
	}
}

// Get returns the member value stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Keys returns the member keys of an object in order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Set stores val under key. An existing key keeps its position. Set on a
// null value turns it into an empty object first; on any other kind it
// panics.
func (v *Value) Set(key string, val Value) {
	switch v.kind {
	case KindNull:
		*v = Value{kind: KindObject}
	case KindObject:
	default:
		panic("toon: Set on " + v.kind.String() + " value")
	}
	for i := range v.members {
		if v.members[i].Key == key {
			v.members[i].Value = val
			return
		}
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Delete removes key from an object and reports whether it was present.
func (v *Value) Delete(key string) bool {
	if v.kind != KindObject {
		return false
	}
	for i := range v.members {
		if v.members[i].Key == key {
			v.members = append(v.members[:i:i], v.members[i+1:]...)
			return true
		}
	}
	return false
}

// Equal reports whether v and o are deeply equal. Numbers compare by
// numeric value, so 1 equals 1.0; object member order is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindNumber:
		return v.numberCmp(o) == 0
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.members) != len(o.members) {
			return false
		}
		for _, m := range v.members {
			ov, ok := o.Get(m.Key)
			if !ok || !m.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// numberCmp compares two numbers. NaN compares unequal to everything.
func (v Value) numberCmp(o Value) int {
	if v.num == numInt && o.num == numInt {
		switch {
		case v.i < o.i:
			return -1
		case v.i > o.i:
			return 1
		}
		return 0
	}
	if v.num != numFloat && o.num != numFloat {
		a, _ := v.BigInt()
		b, _ := o.BigInt()
		return a.Cmp(b)
	}
	a, b := v.bigFloat(), o.bigFloat()
	if a == nil || b == nil {
		return 2
	}
	return a.Cmp(b)
}

func (v Value) bigFloat() *big.Float {
	switch v.num {
	case numInt:
		return new(big.Float).SetInt64(v.i)
	case numBig:
		return new(big.Float).SetInt(v.big)
	}
	if math.IsNaN(v.f) {
		return nil
	}
	return big.NewFloat(v.f)
}

// String returns a compact JSON-like rendering of v for debugging.
func (v Value) String() string {
	var sb strings.Builder
	writeJSON(&sb, v, "", 0, false) //nolint:errcheck
	return sb.String()
}
