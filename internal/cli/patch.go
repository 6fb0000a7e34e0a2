package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/zoro11031/shell-setup/internal/common"
	"github.com/zoro11031/shell-setup/internal/config"
	"github.com/zoro11031/shell-setup/internal/rcfile"
)

// PatchOptions controls a patch run
type PatchOptions struct {
	Files     []string // rc file arguments; empty means the configured list
	Prepend   string
	Append    string
	BackupDir string
	Validate  bool
	AssumeYes bool
}

// PatchResult reports what a patch run did to each rc file
type PatchResult struct {
	Changed   []string
	Unchanged []string
	BackedUp  map[string]string
}

// PatchFromConfig fills empty snippets from configuration
func (ctx *SetupContext) PatchFromConfig(opts PatchOptions) PatchOptions {
	if opts.Prepend == "" && opts.Append == "" {
		opts.Prepend = ctx.Config.GetOrDefault(config.KeyRcPrepend, "")
		opts.Append = ctx.Config.GetOrDefault(config.KeyRcAppend, "")
	}
	return opts
}

// RunPatch applies the prepend/append snippets to every rc file in order.
// Files are patched independently: an error stops the run, leaving files
// patched before it in place. Backups taken before the error are still
// recorded in the journal.
func RunPatch(ctx *SetupContext, opts PatchOptions) (*PatchResult, error) {
	patch := rcfile.Patch{Prepend: opts.Prepend, Append: opts.Append}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("nothing to insert: set --prepend/--append or %s/%s", config.KeyRcPrepend, config.KeyRcAppend)
	}

	if opts.Validate {
		if err := common.ValidateShellSnippet("prepend", patch.Prepend); err != nil {
			return nil, err
		}
		if err := common.ValidateShellSnippet("append", patch.Append); err != nil {
			return nil, err
		}
	}

	files, err := ctx.ResolveRcFiles(opts.Files)
	if err != nil {
		return nil, err
	}
	backupDir, err := ctx.ResolveBackupDir(opts.BackupDir)
	if err != nil {
		return nil, err
	}
	if err := ctx.checkBackupNames(files, backupDir); err != nil {
		return nil, err
	}

	ctx.UI.Header("Register shell integration")
	ctx.UI.Preview("prepend", patch.Prepend)
	ctx.UI.Preview("append", patch.Append)
	ctx.UI.Print("")
	for _, f := range files {
		ctx.UI.Printf("  %s", f)
	}
	ctx.UI.Print("")

	if !opts.AssumeYes {
		ok, err := ctx.UI.PromptYesNo(fmt.Sprintf("Update %d rc file(s)?", len(files)), true)
		if err != nil {
			return nil, err
		}
		if !ok {
			ctx.UI.Info("Cancelled, no files changed")
			return &PatchResult{BackedUp: map[string]string{}}, nil
		}
	}

	backups := rcfile.NewBackups(backupDir, ctx.FS, ctx.UI)
	patcher := rcfile.NewPatcher(ctx.FS, ctx.Logger.With().Str("component", "rcfile").Logger())
	result := &PatchResult{}

	defer func() {
		result.BackedUp = backups.BackedUp()
		ctx.recordBackups(result.BackedUp)
	}()

	for _, f := range files {
		changed, err := patcher.Apply(f, patch, backups)
		if err != nil {
			return result, err
		}
		if changed {
			result.Changed = append(result.Changed, f)
			ctx.UI.Successf("Updated %s", f)
		} else {
			result.Unchanged = append(result.Unchanged, f)
			ctx.UI.Infof("%s left unchanged", f)
		}
	}

	ctx.Logger.Info().
		Int("changed", len(result.Changed)).
		Int("unchanged", len(result.Unchanged)).
		Str("backupDir", backups.Dir()).
		Msg("patch run finished")
	return result, nil
}

// checkBackupNames rejects a run in which two rc files would share a backup
// file, or in which a backup recorded for another rc file would be
// overwritten. Backups are named after the rc file's base name only.
func (ctx *SetupContext) checkBackupNames(files []string, backupDir string) error {
	owners := make(map[string]string, len(files))
	for _, f := range files {
		dest := rcfile.BackupPath(backupDir, f)
		if other, ok := owners[dest]; ok {
			return fmt.Errorf("%s and %s would both be backed up to %s, patch them in separate runs", other, f, dest)
		}
		owners[dest] = f

		recorded, found, err := ctx.Journal.Lookup(filepath.Base(dest))
		if err != nil {
			return err
		}
		if found && recorded != f {
			return fmt.Errorf("%s already holds the backup of %s, restore or prune it before patching %s", dest, recorded, f)
		}
	}
	return nil
}

// recordBackups writes journal entries for backups taken this session.
// Journal failures are only reported as warnings.
func (ctx *SetupContext) recordBackups(backedUp map[string]string) {
	sources := make([]string, 0, len(backedUp))
	for src := range backedUp {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	for _, src := range sources {
		if err := ctx.Journal.Record(filepath.Base(backedUp[src]), src); err != nil {
			ctx.UI.Warningf("Failed to record backup of %s: %v", src, err)
		}
	}
}
