package userhome

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves a leading "~" or "~/" in path to the current user's home
// directory. Paths without a tilde prefix, and "~user" forms, come back
// unchanged.
func Expand(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns a path joined under the current user's home directory.
func Dir(elem ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}
