package util

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	return false, err
}

// ArchiveDirectory zips the directory's files into <dirPath>.zip next to it
// and returns the archive path.
func ArchiveDirectory(dirPath string) (string, error) {
	archive, err := os.Create(dirPath + ".zip")
	if err != nil {
		return "", err
	}
	defer archive.Close()

	paths := make([]string, 0)
	filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})

	zw := zip.NewWriter(archive)
	for _, p := range paths {
		rel, err := filepath.Rel(path.Dir(dirPath), p)
		if err != nil {
			return "", err
		}
		if err := copyToArchive(zw, p, rel); err != nil {
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		return "", err
	}

	return archive.Name(), nil
}

func copyToArchive(zw *zip.Writer, p, name string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	zf, err := zw.Create(name)
	if err != nil {
		return err
	}

	if _, err := io.Copy(zf, f); err != nil {
		return err
	}
	return nil
}
