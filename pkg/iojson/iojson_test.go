package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalError(t *testing.T) {
	out := MarshalError("boom", map[string]any{"id": "b-1"})

	var got Error
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "boom", got.Message)
	assert.Equal(t, "b-1", got.Data["id"])
}

func TestMarshalError_Unencodable(t *testing.T) {
	out := MarshalError("boom", map[string]any{"fn": func() {}})
	assert.Contains(t, out, `"json_error"`)
	assert.True(t, json.Valid([]byte(out)))
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"total": 3}))
	assert.Equal(t, "{\n  \"total\": 3\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteLines(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteLines(&out, []map[string]int{{"a": 1}, {"b": 2}}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, lines)
}

func TestFileReader(t *testing.T) {
	type row struct {
		Name string `json:"name"`
	}

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"name":"x"}]`), 0o644))

		fr := &FileReader[[]row]{path: path}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, []row{{Name: "x"}}, got)
	})

	t.Run("from stdin", func(t *testing.T) {
		fr := &FileReader[row]{stdin: strings.NewReader(`{"name":"y"}`)}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, "y", got.Name)
	})

	t.Run("bad json", func(t *testing.T) {
		fr := &FileReader[row]{stdin: strings.NewReader(`{`)}
		_, err := fr.Read()
		require.ErrorContains(t, err, "decode JSON")
	})

	t.Run("missing file", func(t *testing.T) {
		fr := &FileReader[row]{path: filepath.Join(t.TempDir(), "nope.json")}
		_, err := fr.Read()
		require.ErrorContains(t, err, "open file")
	})
}
