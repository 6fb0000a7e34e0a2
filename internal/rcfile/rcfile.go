// Package rcfile patches shell startup files ("rc files") so that a tool is
// registered exactly once, keeping a backup of every file it modifies.
//
// The package performs no I/O of its own. All file access goes through a
// TextStorage passed in by the caller, and backup notices go through a
// Notifier, so tests can run against an in-memory filesystem.
package rcfile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// TextStorage is the set of file operations the patcher needs.
type TextStorage interface {
	// ReadText returns the file contents. A missing file must produce an
	// error matching fs.ErrNotExist.
	ReadText(path string) (string, error)
	// WriteText creates or truncates the file and writes content to it.
	WriteText(path string, content string) error
	// EnsureDirectory creates the directory and any missing parents.
	EnsureDirectory(path string) error
}

// Notifier receives informational messages meant for the user.
type Notifier interface {
	Info(msg string)
}

// Patch describes text to insert at the start and/or end of an rc file.
type Patch struct {
	Prepend string
	Append  string
}

// AppendOnly returns a Patch that only appends text.
func AppendOnly(text string) Patch {
	return Patch{Append: text}
}

// IsEmpty reports whether the patch has nothing to insert.
func (p Patch) IsEmpty() bool {
	return p.Prepend == "" && p.Append == ""
}

// Patcher applies patches to rc files through a TextStorage.
type Patcher struct {
	storage TextStorage
	logger  zerolog.Logger
}

// NewPatcher creates a Patcher backed by storage that logs to logger
func NewPatcher(storage TextStorage, logger zerolog.Logger) *Patcher {
	return &Patcher{
		storage: storage,
		logger:  logger,
	}
}

// Apply makes sure patch.Prepend appears at the start and patch.Append at the
// end of the file at path, without duplicating text that is already present.
// It returns true only if the file was written.
//
// Existing contents are handed to backups before the file is changed, so
// backups must not be nil when the file may already exist. A
// target that cannot be written for lack of permission is reported as
// unchanged rather than as an error.
func (p *Patcher) Apply(path string, patch Patch, backups *Backups) (bool, error) {
	prepend, appendText := patch.Prepend, patch.Append
	if prepend == "" && appendText == "" {
		return false, nil
	}

	contents, present, err := p.read(path)
	if err != nil {
		return false, err
	}

	if present {
		if prepend != "" {
			if strings.Contains(contents, prepend) {
				prepend = ""
			} else {
				prepend = ensureSuffix(prepend, "\n")
			}
		}
		if appendText != "" {
			if strings.Contains(contents, appendText) {
				appendText = ""
			} else if !strings.HasSuffix(contents, "\n") {
				// keep the new text off the last existing line
				appendText = ensureSuffix(ensurePrefix(appendText, "\n"), "\n")
			} else {
				appendText = ensureSuffix(appendText, "\n")
			}
		}
	} else {
		if prepend != "" {
			prepend = ensureSuffix(prepend, "\n")
		}
		if appendText != "" {
			appendText = ensureSuffix(appendText, "\n")
		}
	}

	if prepend == "" && appendText == "" {
		p.logger.Debug().Str("path", path).Msg("rc file already up to date")
		return false, nil
	}

	if present {
		if err := backups.Add(path, contents); err != nil {
			return false, err
		}
	}

	dir := filepath.Dir(path)
	if err := p.storage.EnsureDirectory(dir); err != nil {
		return false, fmt.Errorf("failed to create directory for rc file %s: %w", path, err)
	}

	if err := p.storage.WriteText(path, prepend+contents+appendText); err != nil {
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, errors.ErrUnsupported) {
			p.logger.Warn().Err(err).Str("path", path).Msg("rc file is not writable, skipping")
			return false, nil
		}
		return false, fmt.Errorf("failed to update shell rc file %s: %w", path, err)
	}

	p.logger.Debug().
		Str("path", path).
		Bool("prepended", prepend != "").
		Bool("appended", appendText != "").
		Msg("rc file updated")
	return true, nil
}

// read returns the current contents of path and whether the file exists.
func (p *Patcher) read(path string) (string, bool, error) {
	contents, err := p.storage.ReadText(path)
	if err == nil {
		return contents, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	return "", false, fmt.Errorf("failed to read rc file %s: %w", path, err)
}

func ensurePrefix(s, prefix string) string {
	if strings.HasPrefix(s, prefix) {
		return s
	}
	return prefix + s
}

func ensureSuffix(s, suffix string) string {
	if strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}
