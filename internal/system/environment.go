package system

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
)

// Environment groups the parts of the host the installer probes: the home
// directory, environment variables, commands on PATH and command execution.
type Environment struct {
	homeDir   string
	lookupEnv func(string) (string, bool)
	lookPath  func(string) (string, error)
	runner    CommandRunner
}

// EnvironmentOptions overrides parts of an Environment. Zero fields fall
// back to the real host.
type EnvironmentOptions struct {
	HomeDir  string
	Vars     map[string]string
	Commands map[string]string
	Runner   CommandRunner
}

// NewEnvironment returns an Environment backed by the current process
func NewEnvironment() *Environment {
	return NewEnvironmentWithOptions(EnvironmentOptions{})
}

// NewEnvironmentWithOptions returns an Environment with the given overrides.
// When Vars or Commands is set, lookups never reach the real host.
func NewEnvironmentWithOptions(opts EnvironmentOptions) *Environment {
	env := &Environment{
		homeDir:   opts.HomeDir,
		lookupEnv: os.LookupEnv,
		lookPath:  exec.LookPath,
		runner:    opts.Runner,
	}
	if opts.Vars != nil {
		vars := opts.Vars
		env.lookupEnv = func(name string) (string, bool) {
			v, ok := vars[name]
			return v, ok
		}
	}
	if opts.Commands != nil {
		commands := opts.Commands
		env.lookPath = func(name string) (string, error) {
			if p, ok := commands[name]; ok {
				return p, nil
			}
			return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
		}
	}
	if env.runner == nil {
		env.runner = NewCommandRunner()
	}
	return env
}

// HomeDir returns the current user's home directory
func (e *Environment) HomeDir() (string, error) {
	if e.homeDir != "" {
		return e.homeDir, nil
	}

	if home := e.Getenv("HOME"); home != "" {
		return home, nil
	}

	// $HOME may be unset in minimal environments
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	if u.HomeDir == "" {
		return "", fmt.Errorf("user %s has no home directory", u.Username)
	}
	return u.HomeDir, nil
}

// Getenv returns the value of an environment variable, or "" if unset
func (e *Environment) Getenv(name string) string {
	v, _ := e.lookupEnv(name)
	return v
}

// FindCommand returns the full path of a command on PATH
func (e *Environment) FindCommand(name string) (string, bool) {
	p, err := e.lookPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}

// RunCommand runs a command and returns its trimmed combined output
func (e *Environment) RunCommand(name string, args ...string) (string, error) {
	output, err := e.runner.Run(name, args...)
	if err != nil {
		return output, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return output, nil
}

// ExpandPath replaces a leading "~" with the home directory and expands
// $VAR references.
func (e *Environment) ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := e.HomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return os.Expand(path, e.Getenv), nil
}
