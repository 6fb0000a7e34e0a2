package cli

import (
	"fmt"
	"path/filepath"

	"github.com/zoro11031/shell-setup/internal/common"
	"github.com/zoro11031/shell-setup/internal/config"
)

// Check is the outcome of one doctor probe
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// RunChecks probes the environment the installer depends on: home directory,
// the registered tool, the rc file directories, the backup directory and
// the configured snippets.
func RunChecks(ctx *SetupContext) []Check {
	var checks []Check
	add := func(name string, ok bool, format string, args ...interface{}) {
		checks = append(checks, Check{Name: name, OK: ok, Detail: fmt.Sprintf(format, args...)})
	}

	if home, err := ctx.Env.HomeDir(); err != nil {
		add("home directory", false, "%v", err)
	} else {
		add("home directory", true, "%s", home)
	}

	if tool := ctx.Config.GetOrDefault(config.KeyToolCommand, ""); tool != "" {
		if path, ok := ctx.Env.FindCommand(tool); ok {
			version, err := ctx.Env.RunCommand(path, "--version")
			if err != nil {
				add("tool "+tool, false, "found at %s but --version failed: %v", path, err)
			} else {
				add("tool "+tool, true, "%s (%s)", path, firstLine(version))
			}
		} else {
			add("tool "+tool, false, "not found on PATH (restart the shell after patching)")
		}
	}

	if files, err := ctx.ResolveRcFiles(nil); err != nil {
		add("rc files", false, "%v", err)
	} else {
		for _, f := range files {
			dir := filepath.Dir(f)
			exists, err := ctx.FS.DirectoryExists(dir)
			switch {
			case err != nil:
				add(f, false, "%v", err)
			case !exists:
				add(f, true, "directory %s will be created", dir)
			case !ctx.FS.IsWritableDir(dir):
				add(f, false, "directory %s is not writable", dir)
			default:
				add(f, true, "directory %s is writable", dir)
			}
		}
	}

	if dir, err := ctx.ResolveBackupDir(""); err != nil {
		add("backup directory", false, "%v", err)
	} else if err := ctx.FS.EnsureDirectory(dir); err != nil {
		add("backup directory", false, "%v", err)
	} else if !ctx.FS.IsWritableDir(dir) {
		add("backup directory", false, "%s is not writable", dir)
	} else if names, err := ctx.FS.ListDirectory(dir); err != nil {
		add("backup directory", false, "%v", err)
	} else {
		add("backup directory", true, "%s (%d backup(s))", dir, len(names))
	}

	for _, key := range []string{config.KeyRcPrepend, config.KeyRcAppend} {
		text := ctx.Config.GetOrDefault(key, "")
		if text == "" {
			continue
		}
		if err := common.ValidateShellSnippet(key, text); err != nil {
			add(key, false, "%v", err)
		} else {
			add(key, true, "parses as shell")
		}
	}

	return checks
}

// RunDoctor prints the result of RunChecks and fails if any check failed
func RunDoctor(ctx *SetupContext) error {
	ctx.UI.Header("shell-setup doctor")

	failed := 0
	for _, c := range RunChecks(ctx) {
		ctx.UI.Item(c.OK, fmt.Sprintf("%s: %s", c.Name, c.Detail))
		if !c.OK {
			failed++
		}
	}

	ctx.UI.Print("")
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	ctx.UI.Success("All checks passed")
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
