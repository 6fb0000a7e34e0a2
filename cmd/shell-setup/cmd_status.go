package main

import (
	"github.com/spf13/cobra"
	"github.com/zoro11031/shell-setup/internal/cli"
	"github.com/zoro11031/shell-setup/internal/rcfile"
)

var statusBackupDir string

var statusCmd = &cobra.Command{
	Use:   "status [rc-file...]",
	Short: "Show which rc files contain the configured snippets",
	Long:  `Display, for every rc file, whether it exists, whether the configured snippets are present and whether a backup was taken.`,
	RunE:  showStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusBackupDir, "backup-dir", "", "Directory for rc file backups")
	rootCmd.AddCommand(statusCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(true)
	if err != nil {
		return err
	}

	files, err := ctx.ResolveRcFiles(args)
	if err != nil {
		return err
	}
	dir, err := ctx.ResolveBackupDir(statusBackupDir)
	if err != nil {
		return err
	}

	opts := ctx.PatchFromConfig(cli.PatchOptions{})
	return cli.ShowStatus(ctx, files, rcfile.Patch{Prepend: opts.Prepend, Append: opts.Append}, dir)
}
