// Package cli provides the command-line interface layer for shell-setup:
// the shared context every command runs with, the patch, status, restore
// and doctor workflows, and the interactive menu.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zoro11031/shell-setup/internal/common"
	"github.com/zoro11031/shell-setup/internal/config"
	"github.com/zoro11031/shell-setup/internal/logging"
	"github.com/zoro11031/shell-setup/internal/system"
	"github.com/zoro11031/shell-setup/internal/ui"
)

// SetupContext holds all dependencies needed by shell-setup commands
type SetupContext struct {
	Config  *config.Config
	UI      *ui.UI
	FS      *system.FileSystem
	Env     *system.Environment
	Journal *config.Journal
	Logger  zerolog.Logger
}

// Options configures NewSetupContextWithOptions
type Options struct {
	ConfigPath     string
	NonInteractive bool
}

// NewSetupContextWithOptions creates a SetupContext with all dependencies
// initialized on the real host
func NewSetupContextWithOptions(opts Options) (*SetupContext, error) {
	cfg := config.New(opts.ConfigPath)
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	uiInstance := ui.New()
	uiInstance.SetNonInteractive(opts.NonInteractive)

	return &SetupContext{
		Config:  cfg,
		UI:      uiInstance,
		FS:      system.NewFileSystem(),
		Env:     system.NewEnvironment(),
		Journal: config.NewJournal(""),
		Logger:  logging.GetLogger("cli"),
	}, nil
}

// ResolveRcFiles returns the rc files to operate on: args when given,
// otherwise the configured list. Paths are expanded and validated.
func (ctx *SetupContext) ResolveRcFiles(args []string) ([]string, error) {
	raw := args
	if len(raw) == 0 {
		raw = ctx.Config.GetList(config.KeyRcFiles)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no rc files given and %s is empty", config.KeyRcFiles)
	}

	seen := make(map[string]bool, len(raw))
	var files []string
	for _, r := range raw {
		path, err := ctx.Env.ExpandPath(r)
		if err != nil {
			return nil, fmt.Errorf("failed to expand rc file path %s: %w", r, err)
		}
		if err := common.ValidateRcFile(path); err != nil {
			return nil, err
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		files = append(files, path)
	}
	return files, nil
}

// ResolveBackupDir returns override when set, otherwise the configured or
// default backup directory, expanded.
func (ctx *SetupContext) ResolveBackupDir(override string) (string, error) {
	dir := override
	if dir == "" {
		dir = ctx.Config.GetOrDefault(config.KeyBackupDir, config.DefaultBackupDir())
	}
	expanded, err := ctx.Env.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand backup directory %s: %w", dir, err)
	}
	if err := common.ValidatePath(expanded); err != nil {
		return "", fmt.Errorf("invalid backup directory: %w", err)
	}
	return expanded, nil
}
