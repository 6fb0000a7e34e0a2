package cli

import (
	"fmt"
	"path/filepath"
	"sort"
)

// RestoreOptions controls a restore run
type RestoreOptions struct {
	Files     []string // limit to these rc files; empty means every journaled file
	BackupDir string
	Force     bool
	Prune     bool // delete each backup once it has been restored
}

// RestoreBackups copies journaled backups back over the rc files they were
// taken from and clears their journal entries. The backup files are kept
// unless opts.Prune is set.
// Returns the rc files that were restored.
func RestoreBackups(ctx *SetupContext, opts RestoreOptions) ([]string, error) {
	backupDir, err := ctx.ResolveBackupDir(opts.BackupDir)
	if err != nil {
		return nil, err
	}

	entries, err := ctx.Journal.Entries()
	if err != nil {
		return nil, err
	}

	var only map[string]bool
	if len(opts.Files) > 0 {
		files, err := ctx.ResolveRcFiles(opts.Files)
		if err != nil {
			return nil, err
		}
		only = make(map[string]bool, len(files))
		for _, f := range files {
			only[f] = true
		}
	}

	var names []string
	for name, rcPath := range entries {
		if only == nil || only[rcPath] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		ctx.UI.Info("No recorded backups to restore")
		return nil, nil
	}

	ctx.UI.Header("Restore rc files")
	labels := make([]string, len(names))
	for i, name := range names {
		labels[i] = fmt.Sprintf("%s <- %s", entries[name], filepath.Join(backupDir, name))
		ctx.UI.Printf("  %s", labels[i])
	}
	ctx.UI.Print("")

	if !opts.Force {
		picked, err := ctx.UI.PromptMultiSelect("Files to restore", labels)
		if err != nil {
			return nil, err
		}
		selected := make([]string, 0, len(picked))
		for _, i := range picked {
			selected = append(selected, names[i])
		}
		names = selected
		if len(names) == 0 {
			ctx.UI.Info("Nothing selected")
			return nil, nil
		}

		ctx.UI.Warning("Changes made to these files since the backup will be lost")
		confirm, err := ctx.UI.PromptYesNo("Restore these files?", false)
		if err != nil {
			return nil, err
		}
		if !confirm {
			ctx.UI.Info("Restore cancelled")
			return nil, nil
		}
	}

	var restored []string
	for _, name := range names {
		rcPath := entries[name]
		backupPath := filepath.Join(backupDir, name)

		exists, err := ctx.FS.FileExists(backupPath)
		if err != nil {
			return restored, err
		}
		if !exists {
			ctx.UI.Warningf("Backup %s is missing, skipping %s", backupPath, rcPath)
			continue
		}

		if err := ctx.FS.CopyFile(backupPath, rcPath); err != nil {
			return restored, fmt.Errorf("failed to restore %s: %w", rcPath, err)
		}
		if err := ctx.Journal.Remove(name); err != nil {
			ctx.UI.Warningf("Failed to clear journal entry %s: %v", name, err)
		}
		if opts.Prune {
			if err := ctx.FS.RemoveFile(backupPath); err != nil {
				ctx.UI.Warningf("%v", err)
			}
		}

		ctx.Logger.Debug().Str("path", rcPath).Str("backup", backupPath).Msg("rc file restored")
		ctx.UI.Successf("Restored %s", rcPath)
		restored = append(restored, rcPath)
	}

	return restored, nil
}
