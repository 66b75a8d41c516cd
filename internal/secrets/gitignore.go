package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureGitignore appends each name to root/.gitignore unless a line with the
// same pattern is already present. The file is created when missing.
func EnsureGitignore(root string, names ...string) error {
	gitignorePath := filepath.Join(root, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return &EnvWriteError{Path: gitignorePath, Err: err}
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var missing []string
	for _, name := range names {
		line := "/" + strings.TrimPrefix(name, "/")
		if present[name] || present[line] {
			continue
		}
		present[line] = true
		missing = append(missing, line)
	}
	if len(missing) == 0 {
		return nil
	}

	// Ensure there's a newline before our addition.
	suffix := strings.Join(missing, "\n") + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &EnvWriteError{Path: gitignorePath, Err: fmt.Errorf("opening for append: %w", err)}
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return &EnvWriteError{Path: gitignorePath, Err: err}
	}
	return nil
}
