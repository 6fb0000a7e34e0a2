package main

import (
	"github.com/spf13/cobra"
	"github.com/zoro11031/shell-setup/internal/cli"
	"github.com/zoro11031/shell-setup/internal/logging"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long:  `Check the home directory, the registered tool, the rc file directories, the backup directory and the configured snippets.`,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(true)
	if err != nil {
		return err
	}

	if err := cli.RunDoctor(ctx); err != nil {
		return err
	}

	ctx.UI.Print("")
	ctx.UI.Infof("Log file: %s", logging.LogFilePath())
	return nil
}
