package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubDir_RelativeToCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubDir("exports")
	require.NoError(t, err)

	want := filepath.Join(tmp, "exports")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	again, err := EnsureSubDir("exports")
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEnsureSubDir_Absolute(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	got, err := EnsureSubDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)
}

func TestEnsureSubDir_FailsIfFileExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("exports", []byte("x"), 0o660))

	_, err := EnsureSubDir("exports")
	require.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.json")

	require.NoError(t, WriteFileAtomic(path, []byte("[1]"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("[1,2]"), 0o600))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[1,2]", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "x.csv"), []byte("x"), 0o600)
	require.Error(t, err)
}
