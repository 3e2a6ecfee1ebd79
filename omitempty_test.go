package toon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-toon"
)

// TestMarshal_OmitEmpty tests the functionality of the ",omitempty" struct tag.
func TestMarshal_OmitEmpty(t *testing.T) {
	// Struct where all exportable fields are tagged with omitempty.
	type OmitStruct struct {
		String     string         `toon:"string,omitempty"`
		Int        int            `toon:"int,omitempty"`
		Float      float64        `toon:"float,omitempty"`
		Bool       bool           `toon:"bool,omitempty"`
		Slice      []Product      `toon:"slice,omitempty"`
		Map        map[string]int `toon:"map,omitempty"`
		Pointer    *int           `toon:"pointer,omitempty"`
		Value      toon.Value     `toon:"value,omitempty"`
		Struct     *OmitStruct    `toon:"struct,omitempty"`
		unexported string         // Unexported fields are always ignored.
	}

	t.Run("All fields are zero-valued and should be omitted", func(t *testing.T) {
		v := OmitStruct{unexported: "should be ignored"}
		b, err := toon.Marshal(v)
		require.NoError(t, err)
		// An empty object has no lines.
		require.Equal(t, "", string(b))
	})

	t.Run("All fields have non-zero values and should be included", func(t *testing.T) {
		pointerVal := 123
		v := OmitStruct{
			String:  "hello",
			Int:     1,
			Float:   3.14,
			Bool:    true, // Bool is tricky, false is the zero value
			Slice:   []Product{{ID: 1, Name: "a", Price: 0.5}},
			Map:     map[string]int{"b": 2},
			Pointer: &pointerVal,
			Value:   toon.Bool(false),
			Struct:  &OmitStruct{String: "nested"},
		}
		b, err := toon.Marshal(v)
		require.NoError(t, err)
		require.Equal(t, `string: hello
int: 1
float: 3.14
bool: true
slice[1]{id,name,price}:
  1,a,0.5
map:
  b: 2
pointer: 123
value: false
struct:
  string: nested`, string(b))
	})

	t.Run("Empty but non-nil collections are omitted", func(t *testing.T) {
		v := OmitStruct{Slice: []Product{}, Map: map[string]int{}, String: "x"}
		b, err := toon.Marshal(v)
		require.NoError(t, err)
		require.Equal(t, "string: x", string(b))
	})

	t.Run("Fields without omitempty are kept", func(t *testing.T) {
		type NoOmitStruct struct {
			String  string         `toon:"string"`
			Int     int            `toon:"int"`
			Map     map[string]int `toon:"map"`
			Pointer *int           `toon:"pointer"`
		}
		b, err := toon.Marshal(NoOmitStruct{})
		require.NoError(t, err)
		require.Equal(t, "string: \"\"\nint: 0\nmap: null\npointer: null", string(b))
	})
}
