package common

import (
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ValidatePath validates that a path is absolute
func ValidatePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	return nil
}

// ValidateNotEmpty validates that a string is not empty
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

// ValidateRcFile validates an rc file path: it must be absolute and name a
// file rather than a directory.
func ValidateRcFile(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if strings.HasSuffix(path, "/") {
		return fmt.Errorf("rc file path names a directory: %s", path)
	}
	base := filepath.Base(path)
	if base == "/" || base == "." || base == ".." {
		return fmt.Errorf("rc file path has no file name: %s", path)
	}
	return nil
}

// ValidateShellSnippet checks that text parses as a complete bash program,
// so a typo cannot leave an rc file with an unterminated quote or block.
// Empty text is valid.
func ValidateShellSnippet(name, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(strings.NewReader(text), name); err != nil {
		return fmt.Errorf("invalid shell snippet: %w", err)
	}
	return nil
}
