package toon_test

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-toon"
	"github.com/KimNorgaard/go-toon/internal/testutil"
)

var update = flag.Bool("update", false, "update golden files")

func TestGolden(t *testing.T) {
	names, err := testutil.Corpus()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := testutil.ReadTestData(name + ".toon")
			require.NoError(t, err)

			var actual []byte
			v, err := toon.Parse(src)
			parsed := err == nil
			if !parsed {
				// For documents that are expected to fail parsing,
				// the golden file will contain the error message.
				actual = []byte(err.Error())
			} else {
				// Valid documents are written back out in canonical form.
				actual, err = toon.Stringify(v)
				require.NoError(t, err)
			}

			goldenFile := testutil.Golden(name)
			if *update {
				require.NoError(t, os.WriteFile(goldenFile, actual, 0o644))
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")
			require.Equal(t, string(expected), string(actual), "Round-trip output does not match golden file.")

			if parsed {
				again, err := toon.Parse(actual)
				require.NoError(t, err)
				require.True(t, v.Equal(again))
			}
		})
	}
}
