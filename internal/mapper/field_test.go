package mapper_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-toon/internal/mapper"
)

type base struct {
	ID   int    `toon:"id"`
	Name string `toon:"name"`
}

type Meta struct {
	Created string `toon:"created,omitempty"`
}

type record struct {
	base
	*Meta
	Name    string `toon:"name"`
	Comment string `toon:"-"`
	Count   int    `toon:",omitempty"`
	secret  string
}

func names(fs *mapper.Fields) []string {
	var out []string
	for _, f := range fs.List {
		out = append(out, f.Name)
	}
	return out
}

func TestTypeFields(t *testing.T) {
	fs := mapper.TypeFields(reflect.TypeOf(record{}))
	require.Equal(t, []string{"id", "created", "name", "Count"}, names(fs))

	id, ok := fs.Lookup("id")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, id.Index)

	name, ok := fs.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, []int{2}, name.Index, "the shallower field wins")

	created, ok := fs.Lookup("created")
	require.True(t, ok)
	assert.True(t, created.OmitEmpty)
	assert.Equal(t, []int{1, 0}, created.Index)

	count, ok := fs.Lookup("Count")
	require.True(t, ok)
	assert.True(t, count.OmitEmpty)

	_, ok = fs.Lookup("Comment")
	assert.False(t, ok)
	_, ok = fs.Lookup("secret")
	assert.False(t, ok)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	fs := mapper.TypeFields(reflect.TypeOf(record{}))

	f, ok := fs.Lookup("NAME")
	require.True(t, ok)
	assert.Equal(t, "name", f.Name)

	f, ok = fs.Lookup("count")
	require.True(t, ok)
	assert.Equal(t, "Count", f.Name)

	_, ok = fs.Lookup("missing")
	assert.False(t, ok)
}

func TestTypeFields_Cached(t *testing.T) {
	a := mapper.TypeFields(reflect.TypeOf(record{}))
	b := mapper.TypeFields(reflect.TypeOf(record{}))
	require.Same(t, a, b)
}
