package main

import (
	"github.com/spf13/cobra"
	"github.com/zoro11031/shell-setup/internal/cli"
)

var (
	restoreForce     bool
	restorePrune     bool
	restoreBackupDir string
)

var restoreCmd = &cobra.Command{
	Use:   "restore [rc-file...]",
	Short: "Restore rc files from their backups",
	Long: `Copy the backups taken by patch back over the rc files they came from.

Only backups recorded by this tool are restored. Without arguments every
recorded rc file is restored. The backup files themselves are kept unless
--prune is given.`,
	RunE: restoreRcFiles,
}

func init() {
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "Skip confirmation prompt")
	restoreCmd.Flags().BoolVar(&restorePrune, "prune", false, "Delete each backup after restoring it")
	restoreCmd.Flags().StringVar(&restoreBackupDir, "backup-dir", "", "Directory for rc file backups")
	rootCmd.AddCommand(restoreCmd)
}

func restoreRcFiles(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(false)
	if err != nil {
		return err
	}

	restored, err := cli.RestoreBackups(ctx, cli.RestoreOptions{
		Files:     args,
		BackupDir: restoreBackupDir,
		Force:     restoreForce,
		Prune:     restorePrune,
	})
	if err != nil {
		return err
	}

	if len(restored) > 0 {
		ctx.UI.Print("")
		ctx.UI.Separator()
		ctx.UI.Successf("Restored %d rc file(s)", len(restored))
	}
	return nil
}
