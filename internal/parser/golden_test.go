package parser_test

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-toon/internal/parser"
	"github.com/KimNorgaard/go-toon/internal/testutil"
)

var update = flag.Bool("update", false, "update golden files")

func TestParserGolden(t *testing.T) {
	names, err := testutil.Corpus()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := testutil.ReadTestData(name + ".toon")
			require.NoError(t, err)

			var actual string
			doc, err := parser.New(src, parser.Config{}).Parse()
			if err != nil {
				actual = err.Error()
			} else {
				actual = doc.String()
			}

			goldenFile := testutil.Golden(name)
			if *update {
				require.NoError(t, os.WriteFile(goldenFile, []byte(actual), 0o644))
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")
			require.Equal(t, string(expected), actual, "Parser output does not match golden file.")
		})
	}
}
