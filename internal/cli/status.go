package cli

import (
	"fmt"
	"strings"

	"github.com/zoro11031/shell-setup/internal/rcfile"
)

// FileStatus describes one rc file relative to the configured snippets
type FileStatus struct {
	Path       string
	Exists     bool
	HasPrepend bool
	HasAppend  bool
	BackupPath string
	HasBackup  bool
}

// Registered reports whether every configured snippet is present
func (s FileStatus) Registered(patch rcfile.Patch) bool {
	return s.Exists &&
		(patch.Prepend == "" || s.HasPrepend) &&
		(patch.Append == "" || s.HasAppend)
}

// CollectStatus inspects each rc file. The presence check is the same
// substring test the patcher uses, so a file reported as registered is one
// a patch run would leave alone.
func CollectStatus(ctx *SetupContext, files []string, patch rcfile.Patch, backupDir string) ([]FileStatus, error) {
	var statuses []FileStatus
	for _, f := range files {
		st := FileStatus{Path: f, BackupPath: rcfile.BackupPath(backupDir, f)}

		exists, err := ctx.FS.FileExists(f)
		if err != nil {
			return nil, err
		}
		st.Exists = exists
		if exists {
			contents, err := ctx.FS.ReadText(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read rc file %s: %w", f, err)
			}
			st.HasPrepend = patch.Prepend != "" && strings.Contains(contents, patch.Prepend)
			st.HasAppend = patch.Append != "" && strings.Contains(contents, patch.Append)
		}

		if st.HasBackup, err = ctx.FS.FileExists(st.BackupPath); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// ShowStatus prints the status of every rc file
func ShowStatus(ctx *SetupContext, files []string, patch rcfile.Patch, backupDir string) error {
	statuses, err := CollectStatus(ctx, files, patch, backupDir)
	if err != nil {
		return err
	}

	ctx.UI.Header("Shell integration status")
	if patch.IsEmpty() {
		ctx.UI.Warning("No snippets configured, only existence and backups are shown")
	}

	registered := 0
	for _, st := range statuses {
		switch {
		case !st.Exists:
			ctx.UI.Item(false, fmt.Sprintf("%s (missing)", st.Path))
		case patch.IsEmpty():
			ctx.UI.Item(true, st.Path)
		case st.Registered(patch):
			registered++
			ctx.UI.Item(true, fmt.Sprintf("%s (registered)", st.Path))
		default:
			ctx.UI.Item(false, fmt.Sprintf("%s (not registered)", st.Path))
		}
		if st.HasBackup {
			ctx.UI.Printf("      backup: %s", st.BackupPath)
		}
	}

	ctx.UI.Print("")
	ctx.UI.Separator()
	if !patch.IsEmpty() {
		ctx.UI.Infof("Registered in %d/%d rc files", registered, len(statuses))
	}
	ctx.UI.Infof("Configuration file: %s", ctx.Config.FilePath())
	ctx.UI.Infof("Backup directory: %s", backupDir)
	ctx.UI.Infof("Backup journal: %s", ctx.Journal.Dir())
	return nil
}
