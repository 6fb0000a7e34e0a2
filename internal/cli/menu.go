package cli

import (
	"errors"
	"fmt"

	"github.com/zoro11031/shell-setup/internal/common"
	"github.com/zoro11031/shell-setup/internal/config"
	"github.com/zoro11031/shell-setup/internal/rcfile"
)

// ErrExit is returned when the user chooses to exit the menu
var ErrExit = errors.New("exit")

// Menu provides an interactive menu interface
type Menu struct {
	ctx *SetupContext
}

// NewMenu creates a new Menu instance
func NewMenu(ctx *SetupContext) *Menu {
	return &Menu{ctx: ctx}
}

type menuAction struct {
	label string
	run   func() error
}

func (m *Menu) actions() []menuAction {
	return []menuAction{
		{"Register tool in rc files", m.runPatch},
		{"Show status", m.showStatus},
		{"Restore rc files from backups", m.runRestore},
		{"Run doctor", m.runDoctor},
		{"Exit", func() error { return ErrExit }},
	}
}

// Show displays the main menu until the user exits
func (m *Menu) Show() error {
	if m.ctx.UI.IsNonInteractive() {
		return errors.New("the menu needs an interactive terminal, use a subcommand instead")
	}

	actions := m.actions()
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.label
	}

	for {
		m.ctx.UI.Header("shell-setup")
		choice, err := m.ctx.UI.PromptSelect("What do you want to do?", labels)
		if err != nil {
			return err
		}

		if err := actions[choice].run(); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			m.ctx.UI.Error(fmt.Sprintf("%v", err))
		}
	}
}

func (m *Menu) runPatch() error {
	opts := m.ctx.PatchFromConfig(PatchOptions{
		Validate: m.ctx.Config.GetBool(config.KeyValidateSnippets, true),
	})
	if opts.Prepend == "" && opts.Append == "" {
		text, err := m.ctx.UI.PromptInput("Line to append to each rc file", "")
		if err != nil {
			return err
		}
		if err := common.ValidateNotEmpty(text); err != nil {
			return err
		}
		opts.Append = text
	}

	_, err := RunPatch(m.ctx, opts)
	return err
}

func (m *Menu) showStatus() error {
	files, err := m.ctx.ResolveRcFiles(nil)
	if err != nil {
		return err
	}
	dir, err := m.ctx.ResolveBackupDir("")
	if err != nil {
		return err
	}
	opts := m.ctx.PatchFromConfig(PatchOptions{})
	return ShowStatus(m.ctx, files, rcfile.Patch{Prepend: opts.Prepend, Append: opts.Append}, dir)
}

func (m *Menu) runRestore() error {
	_, err := RestoreBackups(m.ctx, RestoreOptions{})
	return err
}

func (m *Menu) runDoctor() error {
	return RunDoctor(m.ctx)
}
