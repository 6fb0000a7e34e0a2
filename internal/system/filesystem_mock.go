package system

import "github.com/spf13/afero"

// NewMemFileSystem creates a FileSystem that lives entirely in memory.
// Each call returns an isolated filesystem, so tests never share state.
func NewMemFileSystem() *FileSystem {
	return NewFileSystemWithFs(afero.NewMemMapFs())
}

// NewReadOnlyFileSystem wraps base so that every write fails with a
// permission error while reads still succeed.
func NewReadOnlyFileSystem(base afero.Fs) *FileSystem {
	return NewFileSystemWithFs(afero.NewReadOnlyFs(base))
}
