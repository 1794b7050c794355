package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nwcli/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	return config.NewPaths(t.TempDir())
}

func TestWriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	err := w.WriteSimpleCSV("out.csv", []string{"Name", "Value"}, [][]string{
		{"Alice", "1.00"},
		{"Bob", "2.50"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(paths.ProcessedDir, "out.csv"))
	require.NoError(t, err)

	// BOM prefix plus header and both records.
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Contains(t, string(data), "Name,Value\n")
	assert.Contains(t, string(data), "Alice,1.00\n")
	assert.Contains(t, string(data), "Bob,2.50\n")
}

func TestWriteCSV_Append(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"Name"}, [][]string{{"Alice"}}))
	require.NoError(t, w.WriteCSV("out.csv", WriteOptions{
		Records: [][]string{{"Bob"}},
		Append:  true,
	}))

	data, err := os.ReadFile(filepath.Join(paths.ProcessedDir, "out.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alice\nBob\n")
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	stream, err := w.CreateStreamWriter("stream.csv", []string{"Name", "Month"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"Alice", "1"}))
	require.NoError(t, stream.WriteRecord([]string{"Alice", "2"}))
	require.NoError(t, stream.Close())

	data, err := os.ReadFile(filepath.Join(paths.ProcessedDir, "stream.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name,Month\nAlice,1\nAlice,2\n")
}

func TestResolvePath_AbsolutePassthrough(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	abs := filepath.Join(t.TempDir(), "explicit.csv")
	require.NoError(t, w.WriteSimpleCSV(abs, []string{"Name"}, [][]string{{"Alice"}}))
	assert.FileExists(t, abs)
}
