package atomicfile_test

import (
	"os"
	"path/filepath"
	"renewer/pkg/atomicfile"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadFile_Missing(t *testing.T) {
	b, err := atomicfile.ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Nil(t, b)
}

func TestWriteFile_ReplacesAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")

	require.NoError(t, atomicfile.WriteFile(path, []byte("first"), 0o600))
	require.NoError(t, atomicfile.WriteFile(path, []byte("second"), 0o600))

	b, err := atomicfile.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(b))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}
