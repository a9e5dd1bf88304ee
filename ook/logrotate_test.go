package ook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDailyWriterCreatesFileOnFirstWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyWriter(dir, "ook-%Y%m%d.log")
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.Equal(t, 6, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDailyWriterAppendsAcrossWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyWriter(dir, "ook.log")
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("a"))
	require.NoError(t, err)
	_, err = w.Write([]byte("b"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "ook.log"))
	require.NoError(t, err)
	require.Equal(t, "ab", string(data))
}

func TestDailyWriterImplementsWriteCloser(t *testing.T) {
	var _ interface {
		Write([]byte) (int, error)
		Close() error
	} = (*DailyWriter)(nil)
}
