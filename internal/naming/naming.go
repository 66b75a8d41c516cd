package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// CurrentDir is the sentinel name that targets the working directory itself.
const CurrentDir = "."

// maxNameLength mirrors the npm package name limit.
const maxNameLength = 214

// fallbackName is used when a directory base name normalizes to nothing usable.
const fallbackName = "app"

var (
	namePattern   = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)
	disallowed    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
	reservedNames = map[string]bool{"node_modules": true, "favicon.ico": true}
)

// ProjectName is a resolved project name.
type ProjectName struct {
	Raw        string // exactly what the operator typed
	Normalized string // package-safe name, or CurrentDir
}

// IsCurrentDir reports whether the name is the current-directory sentinel.
func (n ProjectName) IsCurrentDir() bool {
	return n.Normalized == CurrentDir
}

// String returns the normalized name.
func (n ProjectName) String() string {
	return n.Normalized
}

// InvalidNameError is returned when a name cannot be normalized into a valid
// package name.
type InvalidNameError struct {
	Raw    string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid app name %q: %s", e.Raw, e.Reason)
}

// Resolve normalizes and validates raw. The CurrentDir sentinel is returned
// unchanged without validation.
func Resolve(raw string) (ProjectName, error) {
	if raw == CurrentDir {
		return ProjectName{Raw: raw, Normalized: CurrentDir}, nil
	}

	normalized := Slugify(raw)
	if err := Validate(normalized); err != nil {
		return ProjectName{}, &InvalidNameError{Raw: raw, Reason: err.Error()}
	}
	return ProjectName{Raw: raw, Normalized: normalized}, nil
}

// Slugify lowercases s, maps every character outside [a-z0-9-] to a hyphen,
// collapses hyphen runs and trims hyphens from both ends.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = disallowed.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Validate checks name against the package-name rules.
func Validate(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("name must not be empty")
	case len(name) > maxNameLength:
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	case reservedNames[name]:
		return fmt.Errorf("%q is a reserved name", name)
	case !namePattern.MatchString(name):
		return fmt.Errorf("must match pattern %s", namePattern.String())
	}
	return nil
}

// FromDir derives an application name from a directory's base name. It is
// used when scaffolding into the current directory.
func FromDir(dir string) string {
	name := Slugify(filepath.Base(filepath.Clean(dir)))
	if Validate(name) != nil {
		return fallbackName
	}
	return name
}
