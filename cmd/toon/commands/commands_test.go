package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-toon/cmd/toon/commands"
)

const usersTOON = "users[2]{id,name}:\n  1,Alice\n  2,Bob"

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := commands.NewApp(strings.NewReader(stdin), &out, &errOut)
	err := app.Run(context.Background(), append([]string{"toon"}, args...))
	return out.String(), errOut.String(), err
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	out, _, err := run(t, "users[1]{id,name}:\n  1,Alice", "parse")
	require.NoError(t, err)
	require.Equal(t, `{
  "users": [
    {
      "id": 1,
      "name": "Alice"
    }
  ]
}
`, out)
}

func TestParse_File(t *testing.T) {
	path := writeTemp(t, t.TempDir(), "users.toon", usersTOON)
	out, _, err := run(t, "", "parse", path)
	require.NoError(t, err)
	require.JSONEq(t, `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`, out)
}

func TestParse_Unflatten(t *testing.T) {
	out, _, err := run(t, "users[1]{id,address.city}:\n  1,NYC", "parse", "--unflatten", ".")
	require.NoError(t, err)
	require.JSONEq(t, `{"users":[{"id":1,"address":{"city":"NYC"}}]}`, out)
}

func TestParse_Errors(t *testing.T) {
	_, _, err := run(t, "items[2]{id}:\n  1", "parse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared 2 rows, found 1")

	_, _, err = run(t, "", "parse", filepath.Join(t.TempDir(), "missing.toon"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestStringify(t *testing.T) {
	in := `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"defaults", nil, usersTOON + "\n"},
		{"indent", []string{"--indent", "4"}, "users[2]{id,name}:\n    1,Alice\n    2,Bob\n"},
		{"tab delimiter", []string{"-d", "tab"}, "users[2]{id,name}:\n  1\tAlice\n  2\tBob\n"},
		{"pipe delimiter", []string{"--delimiter", "|"}, "users[2]{id,name}:\n  1|Alice\n  2|Bob\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"stringify"}, tt.args...)
			out, _, err := run(t, in, args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, out)
		})
	}
}

func TestStringify_Flatten(t *testing.T) {
	out, _, err := run(t, `{"users":[{"id":1,"address":{"city":"NYC"}}]}`, "stringify", "--flatten", ".")
	require.NoError(t, err)
	require.Equal(t, "users[1]{id,address.city}:\n  1,NYC\n", out)
}

func TestStringify_Errors(t *testing.T) {
	_, _, err := run(t, `{"a":`, "stringify")
	require.Error(t, err)

	_, _, err = run(t, `{"a":1}`, "stringify", "--delimiter", "ab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delimiter must be a single character")

	_, _, err = run(t, `{"a":1}`, "stringify", "--indent", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be zero")
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, usersTOON, "validate")
	require.NoError(t, err)
	require.Equal(t, `{"valid":true,"format":"toon"}`+"\n", out)

	out, _, err = run(t, "items[2]{id}:\n  1", "validate")
	require.ErrorIs(t, err, commands.ErrInvalid)
	require.JSONEq(t, `{"valid":false,"error":"toon: parsing error at line 1: array \"items\" declared 2 rows, found 1: array count mismatch"}`, out)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{usersTOON, "toon"},
		{`{"a":1}`, "json"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		out, _, err := run(t, tt.in, "detect")
		require.NoError(t, err)
		assert.Equal(t, tt.want+"\n", out, "input %q", tt.in)
	}
}

func TestConvert(t *testing.T) {
	out, _, err := run(t, `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`, "convert")
	require.NoError(t, err)
	require.Equal(t, usersTOON+"\n", out)

	out, _, err = run(t, usersTOON, "convert")
	require.NoError(t, err)
	require.JSONEq(t, `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`, out)

	_, _, err = run(t, "   ", "convert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither JSON nor TOON")
}

func TestConvert_Output(t *testing.T) {
	dir := t.TempDir()
	src := writeTemp(t, dir, "users.toon", usersTOON)
	dst := filepath.Join(dir, "out", "users.json")

	out, _, err := run(t, "", "convert", "-o", dst, src)
	require.NoError(t, err)
	require.Equal(t, "converted toon to json: "+dst+"\n", out)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.JSONEq(t, `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`, string(data))

	_, _, err = run(t, "", "convert", "-o", dst, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "", "convert", "-o", dst, "--force", src)
	require.NoError(t, err)
}

func TestStats(t *testing.T) {
	out, _, err := run(t, usersTOON+"\ntags:\n  - a\n  - b\n  - c", "stats")
	require.NoError(t, err)
	require.JSONEq(t, `{
		"format": "toon",
		"arrays": {
			"users": {"count": 2, "fields": ["id", "name"]},
			"tags": {"count": 3, "fields": []}
		},
		"total_arrays": 2,
		"total_items": 5
	}`, out)

	out, _, err = run(t, `{"items":[{"id":1}]}`, "stats")
	require.NoError(t, err)
	require.JSONEq(t, `{
		"format": "json",
		"arrays": {"items": {"count": 1, "fields": ["id"]}},
		"total_arrays": 1,
		"total_items": 1
	}`, out)

	_, _, err = run(t, "", "stats")
	require.Error(t, err)
}

func TestBatch(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "converted")
	writeTemp(t, in, "a.json", `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`)
	writeTemp(t, in, "b.json", `{"name":"b","count":2}`)
	writeTemp(t, in, "notes.txt", "ignored")

	out, errOut, err := run(t, "", "batch", "--jobs", "2", "--verbose", in, outDir)
	require.NoError(t, err)
	require.Equal(t, "converted 2 files\n", out)
	assert.Equal(t, 2, strings.Count(errOut, "msg=converted"))

	data, err := os.ReadFile(filepath.Join(outDir, "a.toon"))
	require.NoError(t, err)
	require.Equal(t, usersTOON+"\n", string(data))

	data, err = os.ReadFile(filepath.Join(outDir, "b.toon"))
	require.NoError(t, err)
	require.Equal(t, "name: b\ncount: 2\n", string(data))

	_, err = os.Stat(filepath.Join(outDir, "notes.toon"))
	require.True(t, os.IsNotExist(err))

	// Back to JSON.
	back := filepath.Join(t.TempDir(), "json")
	out, errOut, err = run(t, "", "batch", "--from", "toon", "--to", "json", outDir, back)
	require.NoError(t, err)
	require.Equal(t, "converted 2 files\n", out)
	require.Empty(t, errOut)

	data, err = os.ReadFile(filepath.Join(back, "a.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`, string(data))
}

func TestBatch_Errors(t *testing.T) {
	in := t.TempDir()
	outDir := t.TempDir()

	_, _, err := run(t, "", "batch", in, outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no files matching "*.json"`)

	_, _, err = run(t, "", "batch", "--from", "json", "--to", "json", in, outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both json")

	_, _, err = run(t, "", "batch", "--to", "yaml", in, outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "yaml"`)

	_, _, err = run(t, "", "batch", in)
	require.Error(t, err)

	writeTemp(t, in, "bad.json", `{"a":`)
	_, errOut, err := run(t, "", "batch", "--pattern", "bad.*", in, outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "converting "+filepath.Join(in, "bad.json"))
	assert.Contains(t, errOut, "conversion failed")
}
