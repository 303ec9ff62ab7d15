package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	saved, err := WriteCSV(path, []string{"id", "name"}, [][]string{
		{"1", "Alice"},
		{"2", "Bob, Jr."},
	})
	require.NoError(t, err)
	assert.Equal(t, path, saved)

	content, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Alice\n2,\"Bob, Jr.\"\n", string(content))
}

func TestWriteCSVNoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	saved, err := WriteCSV(path, nil, [][]string{{"a", "b"}})
	require.NoError(t, err)

	content, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(content))
}

func TestWriteCSVCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "out.csv")

	saved, err := WriteCSV(path, []string{"x"}, nil)
	require.NoError(t, err)
	assert.FileExists(t, saved)
}

func TestWriteString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")

	saved, err := WriteString(path, "a,b\n1,2\n")
	require.NoError(t, err)

	content, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))
}

func TestUniquePathMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.csv")
	assert.Equal(t, path, UniquePath(path))
}

func TestUniquePathExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taken.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	got := UniquePath(path)
	assert.NotEqual(t, path, got)
	assert.True(t, strings.HasPrefix(got, filepath.Join(dir, "taken-")))
	assert.True(t, strings.HasSuffix(got, ".csv"))
}

func TestWriteStringDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	first, err := WriteString(path, "first\n")
	require.NoError(t, err)
	second, err := WriteString(path, "second\n")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(content))
}
