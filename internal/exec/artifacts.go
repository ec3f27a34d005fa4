package exec

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/haltia/conveyor/internal/engine"
	"github.com/pkg/sftp"
)

// ArtifactCollector is the production artifact-storage collaborator. Matched
// files are copied from the host's working directory into a local directory
// tree under root, keyed by the run's working directory name. Remote hosts
// are drained over SFTP.
//
// With followSymlinks false, files reached through a symlink are excluded
// from archival entirely, not dereferenced.
type ArtifactCollector struct {
	dialer *Dialer
	root   string
}

func NewArtifactCollector(dialer *Dialer, root string) *ArtifactCollector {
	return &ArtifactCollector{dialer: dialer, root: root}
}

func (c *ArtifactCollector) Archive(
	ctx context.Context,
	host *engine.Host,
	workdir, pattern string,
	followSymlinks bool,
) (int, error) {
	dest := filepath.Join(c.root, workdir)
	if host.IsLocal() {
		return c.archiveLocal(host, workdir, pattern, followSymlinks, dest)
	}
	return c.archiveRemote(ctx, host, workdir, pattern, followSymlinks, dest)
}

func (c *ArtifactCollector) archiveLocal(
	host *engine.Host,
	workdir, pattern string,
	followSymlinks bool,
	dest string,
) (int, error) {
	matches, err := filepath.Glob(filepath.Join(host.Workspace, workdir, pattern))
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, m := range matches {
		fi, err := os.Lstat(m)
		if err != nil {
			return archived, err
		}
		if fi.IsDir() {
			continue
		}
		if !followSymlinks && fi.Mode()&fs.ModeSymlink != 0 {
			continue
		}
		if err := copyFile(m, filepath.Join(dest, filepath.Base(m))); err != nil {
			return archived, err
		}
		archived++
	}

	if archived == 0 {
		return 0, engine.ErrNoArtifactsMatched
	}
	return archived, nil
}

func (c *ArtifactCollector) archiveRemote(
	ctx context.Context,
	host *engine.Host,
	workdir, pattern string,
	followSymlinks bool,
	dest string,
) (int, error) {
	client, err := c.dialer.Dial(ctx, host)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		return 0, err
	}
	defer sftpClient.Close()

	matches, err := sftpClient.Glob(path.Join(host.Workspace, workdir, pattern))
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, m := range matches {
		fi, err := sftpClient.Lstat(m)
		if err != nil {
			return archived, err
		}
		if fi.IsDir() {
			continue
		}
		if !followSymlinks && fi.Mode()&fs.ModeSymlink != 0 {
			continue
		}
		if err := downloadFile(sftpClient, m, filepath.Join(dest, path.Base(m))); err != nil {
			return archived, err
		}
		archived++
	}

	if archived == 0 {
		return 0, engine.ErrNoArtifactsMatched
	}
	return archived, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return nil
}

func downloadFile(sftpClient *sftp.Client, remotePath, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	remoteFile, err := sftpClient.Open(remotePath)
	if err != nil {
		return err
	}
	defer remoteFile.Close()

	localFile, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer localFile.Close()

	if _, err := io.Copy(localFile, remoteFile); err != nil {
		return err
	}
	return nil
}
