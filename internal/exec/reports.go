package exec

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/haltia/conveyor/internal/engine"
	"github.com/pkg/sftp"
)

// ReportStore is the production test-report collaborator. Report files
// matching the glob are copied into root/<workdir>/; the retention policy
// then prunes the oldest published sets beyond KeepRuns. Working directory
// names are timestamps, so lexical order is chronological order.
type ReportStore struct {
	dialer *Dialer
	root   string
}

func NewReportStore(dialer *Dialer, root string) *ReportStore {
	return &ReportStore{dialer: dialer, root: root}
}

func (s *ReportStore) Publish(
	ctx context.Context,
	host *engine.Host,
	workdir, pattern string,
	retention engine.RetentionPolicy,
) (int, error) {
	dest := filepath.Join(s.root, workdir)

	var published int
	var err error
	if host.IsLocal() {
		published, err = s.publishLocal(host, workdir, pattern, dest)
	} else {
		published, err = s.publishRemote(ctx, host, workdir, pattern, dest)
	}
	if err != nil {
		return published, err
	}

	if err := s.prune(retention); err != nil {
		return published, err
	}
	return published, nil
}

func (s *ReportStore) publishLocal(
	host *engine.Host,
	workdir, pattern, dest string,
) (int, error) {
	matches, err := filepath.Glob(filepath.Join(host.Workspace, workdir, pattern))
	if err != nil {
		return 0, err
	}

	published := 0
	for _, m := range matches {
		fi, err := os.Lstat(m)
		if err != nil {
			return published, err
		}
		if fi.IsDir() {
			continue
		}
		if err := copyFile(m, filepath.Join(dest, filepath.Base(m))); err != nil {
			return published, err
		}
		published++
	}

	if published == 0 {
		return 0, engine.ErrNoReportsMatched
	}
	return published, nil
}

func (s *ReportStore) publishRemote(
	ctx context.Context,
	host *engine.Host,
	workdir, pattern, dest string,
) (int, error) {
	client, err := s.dialer.Dial(ctx, host)
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

	published := 0
	for _, m := range matches {
		fi, err := sftpClient.Lstat(m)
		if err != nil {
			return published, err
		}
		if fi.IsDir() {
			continue
		}
		if err := downloadFile(sftpClient, m, filepath.Join(dest, path.Base(m))); err != nil {
			return published, err
		}
		published++
	}

	if published == 0 {
		return 0, engine.ErrNoReportsMatched
	}
	return published, nil
}

// prune removes the oldest published report sets beyond the retention limit.
// KeepRuns zero keeps everything.
func (s *ReportStore) prune(retention engine.RetentionPolicy) error {
	if retention.KeepRuns <= 0 {
		return nil
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	dirs := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	if len(dirs) <= retention.KeepRuns {
		return nil
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })
	for _, e := range dirs[:len(dirs)-retention.KeepRuns] {
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
