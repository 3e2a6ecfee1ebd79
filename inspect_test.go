package toon_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-toon"
)

func TestInspect(t *testing.T) {
	v, err := toon.Parse([]byte("users[2]{id,name}:\n  1,Alice\n  2,Bob\n\nproducts[3]{sku}:\n  A\n  B\n  C\nname: demo"))
	require.NoError(t, err)

	st := toon.Inspect(v)
	require.Equal(t, toon.Stats{
		Arrays: map[string]toon.ArrayStats{
			"users":    {Count: 2, Fields: []string{"id", "name"}},
			"products": {Count: 3, Fields: []string{"sku"}},
		},
		TotalArrays: 2,
		TotalItems:  5,
	}, st)

	out, err := json.Marshal(st)
	require.NoError(t, err)
	require.JSONEq(t, `{"arrays":{"users":{"count":2,"fields":["id","name"]},"products":{"count":3,"fields":["sku"]}},"total_arrays":2,"total_items":5}`, string(out))
}

func TestInspect_NonObjects(t *testing.T) {
	st := toon.Inspect(toon.Array(toon.Int(1)))
	require.Equal(t, 0, st.TotalArrays)
	require.Empty(t, st.Arrays)

	st = toon.Inspect(obj("tags", toon.Array(toon.String("a")), "none", toon.Array()))
	require.Equal(t, toon.ArrayStats{Count: 1, Fields: []string{}}, st.Arrays["tags"])
	require.Equal(t, toon.ArrayStats{Count: 0, Fields: []string{}}, st.Arrays["none"])
	require.Equal(t, 1, st.TotalItems)
}
