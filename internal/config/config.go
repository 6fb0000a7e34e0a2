// Package config provides thread-safe configuration management for
// shell-setup. Configuration is a KEY=VALUE file in the user's config
// directory; the backup journal lives next to it in the state directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// AppName is used for the config, data and state directory names
const AppName = "shell-setup"

// DefaultConfigPath returns $XDG_CONFIG_HOME/shell-setup/shell-setup.conf
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, AppName+".conf")
}

// DefaultBackupDir returns $XDG_DATA_HOME/shell-setup/backups
func DefaultBackupDir() string {
	return filepath.Join(xdg.DataHome, AppName, "backups")
}

// DefaultJournalDir returns $XDG_STATE_HOME/shell-setup/journal
func DefaultJournalDir() string {
	return filepath.Join(xdg.StateHome, AppName, "journal")
}

// Config manages shell-setup configuration with thread-safe operations
type Config struct {
	filePath string
	data     map[string]string
	loaded   bool // Track if configuration has been loaded from disk
	mu       sync.RWMutex
}

// New creates a new Config instance. An empty filePath selects the default
// location.
func New(filePath string) *Config {
	if filePath == "" {
		filePath = DefaultConfigPath()
	}
	return &Config{
		filePath: filePath,
		data:     make(map[string]string),
	}
}

// ensureLoaded loads configuration data from disk once before read operations.
// This method must only be called while holding c.mu.
func (c *Config) ensureLoaded() error {
	if c.loaded {
		return nil
	}
	return c.load()
}

// Load reads configuration from file
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Config) load() error {
	data, err := godotenv.Read(c.filePath)
	if err != nil {
		// If file doesn't exist, that's okay - we'll create it on Save
		if errors.Is(err, fs.ErrNotExist) {
			c.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", c.filePath, err)
	}

	for key, value := range data {
		data[key] = decodeValue(value)
	}
	c.data = data
	c.loaded = true
	return nil
}

// encodeLines renders data as sorted KEY='value' lines. godotenv returns
// single-quoted values verbatim, so plain text is written as is. Text that
// cannot sit between single quotes (quotes, backslashes, line breaks) is
// stored as a Go string literal inside the quotes and decoded on load.
func encodeLines(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s='%s'\n", k, encodeValue(data[k]))
	}
	return b.String()
}

func encodeValue(value string) string {
	if !strings.ContainsAny(value, "'\\\n\r") && !strings.HasPrefix(value, `"`) {
		return value
	}
	return strings.ReplaceAll(strconv.Quote(value), "'", `\x27`)
}

func decodeValue(value string) string {
	if len(value) < 2 || !strings.HasPrefix(value, `"`) || !strings.HasSuffix(value, `"`) {
		return value
	}
	if decoded, err := strconv.Unquote(value); err == nil {
		return decoded
	}
	return value
}

// save writes configuration to file using atomic write pattern.
// This method must only be called while holding c.mu.Lock.
func (c *Config) save() error {
	body := encodeLines(c.data)

	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create temporary file in the same directory for atomic rename
	tmpFile, err := os.CreateTemp(dir, "."+AppName+".conf.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // Cleanup on error

	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}

	fmt.Fprintln(tmpFile, "# shell-setup configuration")
	fmt.Fprintf(tmpFile, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprint(tmpFile, body)

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file to config: %w", err)
	}

	return nil
}

// Get retrieves a configuration value (thread-safe)
func (c *Config) Get(key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	value, exists := c.data[key]
	if !exists {
		return "", fmt.Errorf("config key not found: %s", key)
	}
	return value, nil
}

// GetOrDefault retrieves a value or returns default if not found (thread-safe)
// First checks the config, then the Defaults table, then the provided fallback
func (c *Config) GetOrDefault(key, defaultValue string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return defaultValue
	}
	if value, exists := c.data[key]; exists {
		return value
	}
	if tableDefault, exists := Defaults[key]; exists {
		return tableDefault
	}
	return defaultValue
}

// GetList returns a comma-separated value as a list with blanks removed
func (c *Config) GetList(key string) []string {
	var items []string
	for _, item := range strings.Split(c.GetOrDefault(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// GetBool returns a boolean value, falling back to defaultValue when the
// key is unset or not a boolean
func (c *Config) GetBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(c.GetOrDefault(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

// Set sets a configuration value and saves the file (thread-safe)
func (c *Config) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Load existing configuration first to avoid overwriting
	if err := c.ensureLoaded(); err != nil {
		return fmt.Errorf("failed to load existing config before set: %w", err)
	}

	c.data[key] = value
	return c.save()
}

// Exists checks if a key exists (thread-safe)
func (c *Config) Exists(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return false
	}
	_, exists := c.data[key]
	return exists
}

// GetAll returns all configuration data (thread-safe)
func (c *Config) GetAll() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return map[string]string{}
	}
	// Return a copy to prevent external modification
	result := make(map[string]string, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

// Delete removes a configuration key and saves the file (thread-safe)
func (c *Config) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return fmt.Errorf("failed to load existing config before delete: %w", err)
	}

	delete(c.data, key)
	return c.save()
}

// FilePath returns the configuration file path
func (c *Config) FilePath() string {
	return c.filePath
}
