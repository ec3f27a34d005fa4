package util

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathExists(t *testing.T) {
	dir := t.TempDir()

	exists, err := PathExists(dir)
	assert.True(t, exists)
	assert.NoError(t, err)

	exists, _ = PathExists(filepath.Join(dir, "missing"))
	assert.False(t, exists)
}

func TestArchiveDirectory(t *testing.T) {
	t.Run("success - directory files end up in the archive", func(t *testing.T) {
		// arrange
		dir := t.TempDir()
		target := filepath.Join(dir, "run-1")
		if err := os.MkdirAll(filepath.Join(target, "nested"), 0o755); err != nil {
			t.Fatal(err)
		}
		os.WriteFile(filepath.Join(target, "app.jar"), []byte("jar"), 0o644)
		os.WriteFile(filepath.Join(target, "nested", "report.xml"), []byte("<x/>"), 0o644)

		// act
		archivePath, err := ArchiveDirectory(target)

		// assert
		assert.NoError(t, err)
		assert.FileExists(t, archivePath)

		zr, err := zip.OpenReader(archivePath)
		assert.NoError(t, err)
		defer zr.Close()
		names := make([]string, 0, len(zr.File))
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		assert.Contains(t, names, filepath.Join("run-1", "app.jar"))
		assert.Contains(t, names, filepath.Join("run-1", "nested", "report.xml"))
	})
}
