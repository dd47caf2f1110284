package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/stagehand/pkg/errors"
	"github.com/arthur-debert/stagehand/pkg/types"
)

// The fixture primitives. All of them are safe to call repeatedly:
// CreateFolder succeeds when the folder already exists, DeleteFolder and
// DeleteFile succeed when the target is already absent. Any other OS
// failure propagates as a coded error naming the path and operation.

// CreateFolder creates path and any missing parents. Idempotent.
func CreateFolder(fsys types.FS, path string) error {
	if err := fsys.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "creating folder %s", path).
			WithDetail("path", path)
	}
	return nil
}

// DeleteFolder removes path and everything under it. An absent path is
// not an error.
func DeleteFolder(fsys types.FS, path string) error {
	if err := fsys.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrDirDelete, "deleting folder %s", path).
			WithDetail("path", path)
	}
	return nil
}

// WriteFile writes contents to path, creating parent folders first and
// overwriting any existing file.
func WriteFile(fsys types.FS, path, contents string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := CreateFolder(fsys, dir); err != nil {
			return err
		}
	}
	if err := fsys.WriteFile(path, []byte(contents), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "writing file %s", path).
			WithDetail("path", path)
	}
	return nil
}

// ReadFile reads path and returns its contents as text.
func ReadFile(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "reading file %s", path).
			WithDetail("path", path)
	}
	return string(data), nil
}

// DeleteFile removes path. An absent file is not an error.
func DeleteFile(fsys types.FS, path string) error {
	err := fsys.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileDelete, "deleting file %s", path).
			WithDetail("path", path)
	}
	return nil
}

// ChmodFile changes the mode of path.
func ChmodFile(fsys types.FS, path string, mode fs.FileMode) error {
	if err := fsys.Chmod(path, mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileChmod, "changing mode of %s", path).
			WithDetail("path", path)
	}
	return nil
}

// Exists reports whether path exists. Stat errors other than not-exist
// also report false; callers that care about the distinction should Stat
// directly.
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
