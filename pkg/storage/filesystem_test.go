package storage

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	n, err := store.Put("a.pdf", strings.NewReader("%PDF-1.4"), 1024)
	require.NoError(t, err)
	require.EqualValues(t, 8, n)

	f, err := store.Open("a.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(body))

	require.NoError(t, store.Delete("a.pdf"))
	require.NoError(t, store.Delete("a.pdf"))
	_, err = os.Stat(store.Path("a.pdf"))
	require.True(t, os.IsNotExist(err))
}

func TestLocalStoragePutEnforcesLimit(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put("big.pdf", strings.NewReader(strings.Repeat("x", 11)), 10)
	require.ErrorIs(t, err, ErrFileTooLarge)
	_, statErr := os.Stat(store.Path("big.pdf"))
	require.True(t, os.IsNotExist(statErr))

	_, err = store.Put("exact.pdf", strings.NewReader(strings.Repeat("x", 10)), 10)
	require.NoError(t, err)
}

func TestLocalStorageStaysInBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(store.Path("../../etc/passwd"), dir))
	_, err = store.Put("", strings.NewReader("x"), 0)
	require.Error(t, err)
}
