package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/zoro11031/shell-setup/internal/cli"
	"github.com/zoro11031/shell-setup/internal/config"
)

type patchFlags struct {
	prepend        string
	append         string
	backupDir      string
	assumeYes      bool
	nonInteractive bool
	noValidate     bool
}

var patchOpts patchFlags

var patchCmd = &cobra.Command{
	Use:   "patch [rc-file...]",
	Short: "Insert snippets into shell rc files",
	Long: `Insert the prepend snippet at the start and the append snippet at the end
of each rc file. Text already present in a file is not added again.

Without arguments the files listed in RC_FILES are patched. Without
--prepend/--append the RC_PREPEND and RC_APPEND values are used.`,
	Example: `  shell-setup patch --append 'export PATH="$HOME/.deno/bin:$PATH"'
  shell-setup patch --yes ~/.bashrc ~/.config/fish/config.fish`,
	RunE: runPatch,
}

func init() {
	patchCmd.Flags().AddFlagSet(patchOpts.flagSet())
	rootCmd.AddCommand(patchCmd)
}

func (f *patchFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("patch", pflag.ContinueOnError)
	fs.StringVar(&f.prepend, "prepend", "", "Text to insert at the start of each rc file")
	fs.StringVar(&f.append, "append", "", "Text to insert at the end of each rc file")
	fs.StringVar(&f.backupDir, "backup-dir", "", "Directory for rc file backups")
	fs.BoolVarP(&f.assumeYes, "yes", "y", false, "Do not ask for confirmation")
	fs.BoolVar(&f.nonInteractive, "non-interactive", false, "Never prompt, use defaults")
	fs.BoolVar(&f.noValidate, "no-validate", false, "Skip shell syntax validation of the snippets")
	return fs
}

func runPatch(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(patchOpts.nonInteractive)
	if err != nil {
		return err
	}

	opts := ctx.PatchFromConfig(cli.PatchOptions{
		Files:     args,
		Prepend:   patchOpts.prepend,
		Append:    patchOpts.append,
		BackupDir: patchOpts.backupDir,
		Validate:  !patchOpts.noValidate && ctx.Config.GetBool(config.KeyValidateSnippets, true),
		AssumeYes: patchOpts.assumeYes,
	})

	result, err := cli.RunPatch(ctx, opts)
	if err != nil {
		return err
	}

	if len(result.Changed) > 0 {
		ctx.UI.Print("")
		ctx.UI.Info("Restart your shell or source the rc file to pick up the changes")
	}
	return nil
}
