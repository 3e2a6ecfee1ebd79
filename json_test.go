package toon_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-toon"
)

func TestFromJSON_KeepsKeyOrder(t *testing.T) {
	v, err := toon.FromJSON([]byte(`{"zeta": 1, "alpha": {"y": true, "x": null}, "mid": [1, "two", 3.5]}`))
	require.NoError(t, err)
	require.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())
	alpha, _ := v.Get("alpha")
	require.Equal(t, []string{"y", "x"}, alpha.Keys())
	require.Equal(t, `{"zeta":1,"alpha":{"y":true,"x":null},"mid":[1,"two",3.5]}`, v.String())
}

func TestFromJSON_Numbers(t *testing.T) {
	v, err := toon.FromJSON([]byte(`[1, -2, 1.0, 2e3, 12345678901234567890123]`))
	require.NoError(t, err)
	items, ok := v.Items()
	require.True(t, ok)
	require.True(t, items[0].IsInteger())
	require.True(t, items[1].IsInteger())
	require.False(t, items[2].IsInteger())
	require.False(t, items[3].IsInteger())
	f, _ := items[3].Float64()
	require.Equal(t, 2000.0, f)
	require.True(t, items[4].IsInteger())
	require.Equal(t, "12345678901234567890123", items[4].String())
}

func TestFromJSON_Strings(t *testing.T) {
	v, err := toon.FromJSON([]byte(`{"a\"b": "line\nbreak é 😀"}`))
	require.NoError(t, err)
	s, ok := v.Get(`a"b`)
	require.True(t, ok)
	str, _ := s.Str()
	require.Equal(t, "line\nbreak é \U0001F600", str)
}

func TestFromJSON_DuplicateKeys(t *testing.T) {
	v, err := toon.FromJSON([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	require.Equal(t, `{"a":3,"b":2}`, v.String())
}

func TestFromJSON_Invalid(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a":}`, `[1,]`, `nope`, `{"a":1} x`} {
		_, err := toon.FromJSON([]byte(in))
		require.Error(t, err, "input %q", in)
	}
}

func TestToJSON(t *testing.T) {
	v := obj(
		"name", toon.String("tab\there"),
		"list", toon.Array(toon.Int(1), obj("k", toon.Null())),
		"empty", obj(),
		"none", toon.Array(),
		"ctrl", toon.String("\x01 "),
	)
	out, err := toon.ToJSON(v, "")
	require.NoError(t, err)
	require.Equal(t, `{"name":"tab\there","list":[1,{"k":null}],"empty":{},"none":[],"ctrl":"\u0001 "}`, string(out))
	require.True(t, json.Valid(out))

	out, err = toon.ToJSON(obj("a", toon.Int(1), "b", toon.Array(toon.Bool(true))), "  ")
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}", string(out))

	_, err = toon.ToJSON(obj("x", toon.Float(math.Inf(1))), "")
	require.ErrorIs(t, err, toon.ErrUnsupportedValueType)
}

func TestValue_JSONInterfaces(t *testing.T) {
	type envelope struct {
		Data toon.Value `json:"data"`
	}
	var e envelope
	require.NoError(t, json.Unmarshal([]byte(`{"data": {"b": 1, "a": [true]}}`), &e))
	require.Equal(t, []string{"b", "a"}, e.Data.Keys())

	out, err := json.Marshal(e)
	require.NoError(t, err)
	require.Equal(t, `{"data":{"b":1,"a":[true]}}`, string(out))
}

func TestJSONToTOONAndBack(t *testing.T) {
	in := `{"users":[{"id":1,"name":"Alice","tags":"a,b"},{"id":2,"name":"Bob","tags":""}],"total":2}`
	v, err := toon.FromJSON([]byte(in))
	require.NoError(t, err)

	text, err := toon.Stringify(v)
	require.NoError(t, err)
	require.Equal(t, "users[2]{id,name,tags}:\n  1,Alice,\"a,b\"\n  2,Bob,\"\"\ntotal: 2", string(text))

	back, err := toon.Parse(text)
	require.NoError(t, err)
	out, err := toon.ToJSON(back, "")
	require.NoError(t, err)
	require.Equal(t, in, string(out))
}
