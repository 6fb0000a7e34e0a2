package config

// Configuration key constants to prevent typos and enable autocomplete
const (
	// Rc file patching
	KeyRcFiles   = "RC_FILES"   // Comma-separated rc files, "~" and $VARS allowed
	KeyRcPrepend = "RC_PREPEND" // Text inserted at the start of each rc file
	KeyRcAppend  = "RC_APPEND"  // Text inserted at the end of each rc file

	// Backups
	KeyBackupDir = "BACKUP_DIR"

	// Tool being registered, checked by doctor
	KeyToolCommand = "TOOL_COMMAND"

	// Reject snippets that do not parse as shell
	KeyValidateSnippets = "VALIDATE_SNIPPETS"
)

// Defaults for configuration keys. BACKUP_DIR defaults to DefaultBackupDir()
// and is resolved by the caller since it depends on the environment.
var Defaults = map[string]string{
	KeyRcFiles:          "~/.bashrc,~/.zshrc",
	KeyValidateSnippets: "true",
}

// KnownKeys lists every key the tool reads, in display order
var KnownKeys = []string{
	KeyRcFiles,
	KeyRcPrepend,
	KeyRcAppend,
	KeyBackupDir,
	KeyToolCommand,
	KeyValidateSnippets,
}

// IsKnownKey reports whether key is one of KnownKeys
func IsKnownKey(key string) bool {
	for _, k := range KnownKeys {
		if k == key {
			return true
		}
	}
	return false
}
