package system

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	defaultDirPerms  os.FileMode = 0755
	defaultFilePerms os.FileMode = 0644
)

// FileSystem handles file system operations on top of an afero.Fs
type FileSystem struct {
	fs afero.Fs
}

// NewFileSystem creates a FileSystem backed by the operating system
func NewFileSystem() *FileSystem {
	return NewFileSystemWithFs(afero.NewOsFs())
}

// NewFileSystemWithFs creates a FileSystem on top of an arbitrary afero.Fs.
func NewFileSystemWithFs(fs afero.Fs) *FileSystem {
	return &FileSystem{fs: fs}
}

// ReadText reads a whole file as a string.
// A missing file yields an error matching fs.ErrNotExist.
func (f *FileSystem) ReadText(path string) (string, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", &fs.PathError{Op: "read", Path: path, Err: fs.ErrInvalid}
	}

	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText creates or truncates a file and writes content to it.
// Existing files keep their permissions.
func (f *FileSystem) WriteText(path string, content string) error {
	return afero.WriteFile(f.fs, path, []byte(content), defaultFilePerms)
}

// EnsureDirectory creates a directory and its parents.
// If the directory already exists, it does nothing
func (f *FileSystem) EnsureDirectory(path string) error {
	if info, err := f.fs.Stat(path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", path)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check directory %s: %w", path, err)
	}

	if err := f.fs.MkdirAll(path, defaultDirPerms); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists
func (f *FileSystem) FileExists(path string) (bool, error) {
	info, err := f.fs.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check if file exists %s: %w", path, err)
}

// DirectoryExists checks if a directory exists
func (f *FileSystem) DirectoryExists(path string) (bool, error) {
	info, err := f.fs.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check if directory exists %s: %w", path, err)
}

// RemoveFile removes a file. Removing a missing file is not an error.
func (f *FileSystem) RemoveFile(path string) error {
	if err := f.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	return nil
}

// CopyFile copies a file from src to dst, creating the parent directory of
// dst when needed.
func (f *FileSystem) CopyFile(src, dst string) error {
	data, err := afero.ReadFile(f.fs, src)
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := f.EnsureDirectory(filepath.Dir(dst)); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := afero.WriteFile(f.fs, dst, data, defaultFilePerms); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// ListDirectory lists all entries in a directory.
// A missing directory has no entries.
func (f *FileSystem) ListDirectory(path string) ([]string, error) {
	entries, err := afero.ReadDir(f.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// IsWritableDir probes whether files can be created in dir by writing and
// removing a temporary file.
func (f *FileSystem) IsWritableDir(dir string) bool {
	tmp, err := afero.TempFile(f.fs, dir, ".shell-setup-probe-*")
	if err != nil {
		return false
	}
	name := tmp.Name()
	tmp.Close()
	_ = f.fs.Remove(name)
	return true
}
