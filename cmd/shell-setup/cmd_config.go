package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoro11031/shell-setup/internal/config"
)

var configUnset bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change configuration",
	Long: `Inspect and change the shell-setup configuration file.

Known keys:
  ` + strings.Join(config.KnownKeys, "\n  "),
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  configGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY [VALUE]",
	Short: "Set or remove a configuration value",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  configSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values, including defaults",
	Args:  cobra.NoArgs,
	RunE:  configList,
}

func init() {
	configSetCmd.Flags().BoolVar(&configUnset, "unset", false, "Remove the key instead of setting it")
	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}

func checkKey(key string) error {
	if !config.IsKnownKey(key) {
		return fmt.Errorf("unknown configuration key %s (known keys: %s)", key, strings.Join(config.KnownKeys, ", "))
	}
	return nil
}

func configGet(cmd *cobra.Command, args []string) error {
	key := strings.ToUpper(args[0])
	if err := checkKey(key); err != nil {
		return err
	}

	ctx, err := newContext(true)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ctx.Config.GetOrDefault(key, defaultFor(key)))
	return nil
}

func configSet(cmd *cobra.Command, args []string) error {
	key := strings.ToUpper(args[0])
	if err := checkKey(key); err != nil {
		return err
	}
	if !configUnset && len(args) != 2 {
		return fmt.Errorf("missing value for %s", key)
	}

	ctx, err := newContext(true)
	if err != nil {
		return err
	}

	if configUnset {
		if err := ctx.Config.Delete(key); err != nil {
			return err
		}
		ctx.UI.Successf("Removed %s", key)
		return nil
	}

	if err := ctx.Config.Set(key, args[1]); err != nil {
		return err
	}
	ctx.UI.Successf("%s saved to %s", key, ctx.Config.FilePath())
	return nil
}

func configList(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(true)
	if err != nil {
		return err
	}

	ctx.UI.Infof("Configuration file: %s", ctx.Config.FilePath())
	ctx.UI.Print("")
	for _, key := range config.KnownKeys {
		value := ctx.Config.GetOrDefault(key, defaultFor(key))
		if ctx.Config.Exists(key) {
			ctx.UI.Printf("  %s=%q", key, value)
		} else {
			ctx.UI.Printf("  %s=%q (default)", key, value)
		}
	}
	return nil
}

func defaultFor(key string) string {
	if key == config.KeyBackupDir {
		return config.DefaultBackupDir()
	}
	return ""
}
