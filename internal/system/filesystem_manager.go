package system

// FileSystemManager defines the text file operations used when patching rc
// files. This allows swapping the real file system for an in-memory one in tests.
type FileSystemManager interface {
	ReadText(path string) (string, error)
	WriteText(path string, content string) error
	EnsureDirectory(path string) error
}

var (
	_ FileSystemManager = (*FileSystem)(nil)
)
