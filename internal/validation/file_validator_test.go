package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *FileValidator {
	return NewFileValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestValidateInputDirectory(t *testing.T) {
	v := newValidator()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "participant_data.csv"), []byte("Name\n"), 0644))
	assert.NoError(t, v.ValidateInputDirectory(dir))
}

func TestValidateInputDirectory_Missing(t *testing.T) {
	v := newValidator()
	err := v.ValidateInputDirectory(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidateInputDirectory_NotADirectory(t *testing.T) {
	v := newValidator()
	file := filepath.Join(t.TempDir(), "file.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := v.ValidateInputDirectory(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidateCSVFile(t *testing.T) {
	v := newValidator()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "professions.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Profession\n"), 0644))
	assert.NoError(t, v.ValidateCSVFile(csvPath))

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0644))
	err := v.ValidateCSVFile(txtPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a CSV")

	err = v.ValidateCSVFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidateOutputDirectory(t *testing.T) {
	v := newValidator()
	out := filepath.Join(t.TempDir(), "processed")

	require.NoError(t, v.ValidateOutputDirectory(out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
