package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// TestdataFS holds the shared corpus of TOON documents.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData reads and returns the content of an embedded test file.
func ReadTestData(name string) ([]byte, error) {
	data, err := fs.ReadFile(TestdataFS, path.Join("testdata", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// Corpus returns the names of the embedded .toon files without their
// extension, sorted.
func Corpus() ([]string, error) {
	matches, err := fs.Glob(TestdataFS, "testdata/*.toon")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".toon"))
	}
	sort.Strings(names)
	return names, nil
}

// Golden returns the path of the golden file for the corpus entry name,
// relative to the calling package's directory.
func Golden(name string) string {
	return path.Join("testdata", name+".golden")
}
