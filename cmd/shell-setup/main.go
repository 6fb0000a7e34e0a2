package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoro11031/shell-setup/internal/cli"
	"github.com/zoro11031/shell-setup/internal/logging"
	"github.com/zoro11031/shell-setup/pkg/version"
)

var (
	verbosity  int
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "shell-setup",
	Short: "Register a tool in your shell rc files",
	Long: `Insert shell snippets into rc files such as ~/.bashrc and ~/.zshrc.

Snippets are only added when missing, so running the tool again is safe.
Every rc file is backed up once before its first change and can be
restored later.

Run without arguments to launch the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(verbosity)
	},
	RunE: runInteractiveMenu,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeat for more)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default $XDG_CONFIG_HOME/shell-setup/shell-setup.conf)")
	rootCmd.AddCommand(versionCmd)
}

func newContext(nonInteractive bool) (*cli.SetupContext, error) {
	ctx, err := cli.NewSetupContextWithOptions(cli.Options{
		ConfigPath:     configPath,
		NonInteractive: nonInteractive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize setup context: %w", err)
	}
	return ctx, nil
}

func runInteractiveMenu(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(false)
	if err != nil {
		return err
	}

	menu := cli.NewMenu(ctx)
	return menu.Show()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
