package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Journal remembers which rc file every backup came from. Each entry is a
// file named after the backup (".bashrc.bak") whose content is the rc path.
type Journal struct {
	dir string
}

// NewJournal creates a new Journal instance. An empty dir selects the
// default location.
func NewJournal(dir string) *Journal {
	if dir == "" {
		dir = DefaultJournalDir()
	}
	return &Journal{dir: dir}
}

// validateEntryName ensures the entry name is safe and doesn't contain path traversal characters
func validateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("journal entry name cannot be empty")
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("journal entry name cannot contain path separators: %s", name)
	}
	if name == ".." || name == "." {
		return fmt.Errorf("journal entry name cannot be '.' or '..': %s", name)
	}
	return nil
}

// Record stores that backup name was taken from rcPath, replacing any
// earlier entry with the same name.
func (j *Journal) Record(name, rcPath string) error {
	if err := validateEntryName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	entryPath := filepath.Join(j.dir, name)
	if err := os.WriteFile(entryPath, []byte(rcPath+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write journal entry %s: %w", name, err)
	}
	return nil
}

// Lookup returns the rc path recorded for a backup name.
// Returns (path, found, error) where error indicates a problem reading the entry.
func (j *Journal) Lookup(name string) (string, bool, error) {
	if err := validateEntryName(name); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(filepath.Join(j.dir, name))
	if err == nil {
		return strings.TrimSpace(string(data)), true, nil
	}
	if os.IsNotExist(err) {
		return "", false, nil
	}
	return "", false, fmt.Errorf("failed to read journal entry %s: %w", name, err)
}

// Remove deletes a journal entry
func (j *Journal) Remove(name string) error {
	if err := validateEntryName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(j.dir, name))
	if os.IsNotExist(err) {
		return nil // Not an error if it doesn't exist
	}
	return err
}

// RemoveAll removes every journal entry
func (j *Journal) RemoveAll() error {
	if _, err := os.Stat(j.dir); os.IsNotExist(err) {
		return nil // Directory doesn't exist, nothing to remove
	}

	return os.RemoveAll(j.dir)
}

// Entries returns every backup name with the rc path it came from
func (j *Journal) Entries() (map[string]string, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rcPath, found, err := j.Lookup(entry.Name())
		if err != nil {
			return nil, err
		}
		if found && rcPath != "" {
			result[entry.Name()] = rcPath
		}
	}

	return result, nil
}

// Dir returns the journal directory path
func (j *Journal) Dir() string {
	return j.dir
}
