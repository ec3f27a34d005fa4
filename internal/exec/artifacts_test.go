package exec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haltia/conveyor/internal/engine"
	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestArtifactCollector_Archive(t *testing.T) {
	t.Run("matched files are copied into the artifacts directory", func(t *testing.T) {
		// arrange
		host := localHost(t)
		root := t.TempDir()
		writeFile(t, filepath.Join(host.Workspace, "run-1", "app.jar"), "jar")
		writeFile(t, filepath.Join(host.Workspace, "run-1", "app-sources.jar"), "src")
		writeFile(t, filepath.Join(host.Workspace, "run-1", "readme.txt"), "txt")
		collector := NewArtifactCollector(nil, root)

		// act
		n, err := collector.Archive(context.Background(), host, "run-1", "*.jar", false)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.FileExists(t, filepath.Join(root, "run-1", "app.jar"))
		assert.FileExists(t, filepath.Join(root, "run-1", "app-sources.jar"))
		assert.NoFileExists(t, filepath.Join(root, "run-1", "readme.txt"))
	})

	t.Run("symlinked files are excluded unless followSymlinks is set", func(t *testing.T) {
		host := localHost(t)
		root := t.TempDir()
		writeFile(t, filepath.Join(host.Workspace, "run-1", "app.jar"), "jar")
		if err := os.Symlink(
			filepath.Join(host.Workspace, "run-1", "app.jar"),
			filepath.Join(host.Workspace, "run-1", "latest.jar"),
		); err != nil {
			t.Fatal(err)
		}
		collector := NewArtifactCollector(nil, root)

		n, err := collector.Archive(context.Background(), host, "run-1", "*.jar", false)

		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.NoFileExists(t, filepath.Join(root, "run-1", "latest.jar"))

		n, err = collector.Archive(context.Background(), host, "run-1", "*.jar", true)

		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.FileExists(t, filepath.Join(root, "run-1", "latest.jar"))
	})

	t.Run("empty glob returns ErrNoArtifactsMatched", func(t *testing.T) {
		host := localHost(t)
		collector := NewArtifactCollector(nil, t.TempDir())

		n, err := collector.Archive(context.Background(), host, "run-1", "*.jar", false)

		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, engine.ErrNoArtifactsMatched)
	})

	t.Run("directories matching the glob are skipped", func(t *testing.T) {
		host := localHost(t)
		writeFile(t, filepath.Join(host.Workspace, "run-1", "dist.d", "inner.jar"), "x")
		writeFile(t, filepath.Join(host.Workspace, "run-1", "app.d"), "file")
		collector := NewArtifactCollector(nil, t.TempDir())

		n, err := collector.Archive(context.Background(), host, "run-1", "*.d", false)

		assert.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
