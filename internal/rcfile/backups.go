package rcfile

import (
	"fmt"
	"path/filepath"
)

// BackupSuffix is appended to the base name of a backed up rc file.
const BackupSuffix = ".bak"

// Backups copies rc files into a backup directory before they are modified.
// Each source path is copied at most once per Backups value, so the backup
// always holds the earliest contents seen during the session.
type Backups struct {
	dir      string
	storage  TextStorage
	notifier Notifier
	backedUp map[string]string
}

// NewBackups creates a backup manager writing into dir
func NewBackups(dir string, storage TextStorage, notifier Notifier) *Backups {
	return &Backups{
		dir:      dir,
		storage:  storage,
		notifier: notifier,
		backedUp: make(map[string]string),
	}
}

// BackupPath returns where a backup of path is stored inside dir.
func BackupPath(dir, path string) string {
	return filepath.Join(dir, filepath.Base(path)) + BackupSuffix
}

// Add writes contents to the backup location for path, unless path was
// already backed up by this manager.
func (b *Backups) Add(path string, contents string) error {
	if b == nil {
		return fmt.Errorf("failed to back up %s: no backup manager", path)
	}
	if _, ok := b.backedUp[path]; ok {
		return nil
	}

	dest := BackupPath(b.dir, path)
	if b.notifier != nil {
		b.notifier.Info(fmt.Sprintf("backing '%s' up to '%s'", path, dest))
	}

	if err := b.storage.EnsureDirectory(b.dir); err != nil {
		return fmt.Errorf("failed to back up %s to %s: %w", path, dest, err)
	}
	if err := b.storage.WriteText(dest, contents); err != nil {
		return fmt.Errorf("failed to back up %s to %s: %w", path, dest, err)
	}

	b.backedUp[path] = dest
	return nil
}

// Dir returns the backup directory
func (b *Backups) Dir() string {
	return b.dir
}

// BackedUp returns a copy of the source path to backup path mapping for
// every file backed up so far.
func (b *Backups) BackedUp() map[string]string {
	result := make(map[string]string, len(b.backedUp))
	for k, v := range b.backedUp {
		result[k] = v
	}
	return result
}
