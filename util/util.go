package util

import (
	"os"
	"path/filepath"
	"strings"
)

// FileExists returns true if the file at path exists.
// This returns false if the file does not exist, or if we simply
// can't stat it due to a permissions error.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExpandTilde expands the tilde in a file path to the current
// user's home directory. For example, on most *nix systems,
// "~/data" expands to something like "/home/josie/data".
func ExpandTilde(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, strings.TrimPrefix(filePath, "~")), nil
}

// LooksSafeToDelete returns true if path looks safe to delete. To
// qualify, the path must have a minimum length of minLength and at
// least minSeparators path separators. This helps prevent us from
// deleting critical system paths like "/", "/etc" and "/home".
func LooksSafeToDelete(path string, minLength, minSeparators int) bool {
	separators := strings.Count(path, string(os.PathSeparator))
	return len(path) >= minLength && separators >= minSeparators
}

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	if list != nil {
		for i := range list {
			if list[i] == item {
				return true
			}
		}
	}
	return false
}
