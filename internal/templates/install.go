package templates

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/base-cli/base/internal/errors"
	"github.com/base-cli/base/internal/logging"
)

// Install extracts archivePath into projectDir, renames the archive's
// top-level directory to key and deletes the archive.
//
// The generated directory name is taken from the first entry in the archive,
// matching the GitHub "<repo>-<branch>/" layout. Entries outside that
// directory are extracted as-is.
func Install(archivePath, projectDir, key string) error {
	logger := logging.GetLogger("installer")
	done := logging.LogOperationStart(logger, "install", archivePath)
	defer done()

	target := filepath.Join(projectDir, key)
	if _, err := os.Lstat(target); err == nil {
		return errors.New(errors.EFilesystem, "install", target, "target directory already exists")
	}

	topLevel, err := extract(archivePath, projectDir)
	if err != nil {
		return err
	}

	generated := filepath.Join(projectDir, topLevel)
	if err := os.Rename(generated, target); err != nil {
		return errors.Wrap(errors.EFilesystem, "rename", generated, err)
	}
	if err := os.Remove(archivePath); err != nil {
		return errors.Wrap(errors.EFilesystem, "remove", archivePath, err)
	}

	logger.Debug().Str("generated", topLevel).Str("key", key).Msg("Template installed")
	return nil
}

// extract writes every entry of the zip under destDir and returns the
// top-level directory name of the first entry.
func extract(archivePath, destDir string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", errors.Wrap(errors.EArchiveFormat, "open", archivePath, err)
	}
	defer r.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return "", errors.Wrap(errors.EFilesystem, "resolve", destDir, err)
	}

	topLevel := ""
	for i, f := range r.File {
		name := strings.TrimPrefix(filepath.ToSlash(f.Name), "./")
		if i == 0 {
			topLevel = topLevelDir(name, f.FileInfo().IsDir())
			if topLevel == "" {
				return "", errors.New(errors.EArchiveFormat, "install", archivePath,
					fmt.Sprintf("first entry %q is not inside a top-level directory", f.Name))
			}
		}

		dest := filepath.Join(root, filepath.FromSlash(name))
		if dest != root && !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
			return "", errors.New(errors.EArchiveFormat, "install", archivePath,
				fmt.Sprintf("entry %q escapes the destination directory", f.Name))
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return "", errors.Wrap(errors.EFilesystem, "mkdir", dest, err)
			}
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return "", err
		}
	}

	if topLevel == "" {
		return "", errors.New(errors.EArchiveFormat, "install", archivePath, "archive is empty")
	}
	return topLevel, nil
}

// topLevelDir returns the first path component of an entry if that component
// is a directory, or "" for a bare top-level file.
func topLevelDir(name string, isDir bool) string {
	head, _, found := strings.Cut(name, "/")
	if head == "" || (!found && !isDir) {
		return ""
	}
	return head
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrap(errors.EFilesystem, "mkdir", filepath.Dir(dest), err)
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrap(errors.EArchiveFormat, "open-entry", f.Name, err)
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrap(errors.EFilesystem, "create", dest, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Wrap(errors.EArchiveFormat, "extract", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.EFilesystem, "write", dest, err)
	}
	return nil
}
