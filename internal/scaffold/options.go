package scaffold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/evdstack/create-evd/internal/substitute"
)

// Defaults for the generation options.
const (
	DefaultDevPort       = 8080
	DefaultProdPort      = 8081
	DefaultVersion       = "0.1.0"
	DefaultMySQLPlatform = "linux/arm64/v8" // offered by the interactive toggle
	maxPort              = 65535
)

// Options are the resolved generation settings.
type Options struct {
	DevPort       int
	ProdPort      int
	Version       string
	MySQLPlatform string // empty leaves platform directives untouched
	InitVCS       bool
	Force         bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DevPort:  DefaultDevPort,
		ProdPort: DefaultProdPort,
		Version:  DefaultVersion,
	}
}

// InvalidOptionsError reports an option that cannot be used.
type InvalidOptionsError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Validate checks port ranges, the port pair and the version string. The
// version is kept verbatim; it only has to fit on one line.
func (o Options) Validate() error {
	if err := validPort("dev port", o.DevPort); err != nil {
		return err
	}
	if err := validPort("prod port", o.ProdPort); err != nil {
		return err
	}
	var conflict *substitute.PortConflictError
	if err := substitute.CheckPorts(o.DevPort, o.ProdPort); errors.As(err, &conflict) {
		return &InvalidOptionsError{
			Field:  conflict.Which + " port",
			Value:  fmt.Sprint(conflict.Port),
			Reason: err.Error(),
		}
	}
	if strings.TrimSpace(o.Version) == "" {
		return &InvalidOptionsError{Field: "version", Value: o.Version, Reason: "must not be empty"}
	}
	if strings.ContainsAny(o.Version, "\r\n") {
		return &InvalidOptionsError{Field: "version", Value: o.Version, Reason: "must be a single line"}
	}
	return nil
}

// VersionWarning is reported when the version is not a semantic version.
// The version is still written as given.
type VersionWarning struct {
	Version string
	Err     error
}

func (w *VersionWarning) Error() string {
	return fmt.Sprintf("version %q is not a semantic version: %v", w.Version, w.Err)
}

func (w *VersionWarning) Unwrap() error { return w.Err }

// CheckVersion returns a *VersionWarning when the version does not parse as
// a semantic version (a leading "v" is accepted).
func (o Options) CheckVersion() error {
	if _, err := parseSemver(o.Version); err != nil {
		return &VersionWarning{Version: o.Version, Err: err}
	}
	return nil
}

func validPort(field string, port int) error {
	if port < 1 || port > maxPort {
		return &InvalidOptionsError{
			Field:  field,
			Value:  fmt.Sprint(port),
			Reason: fmt.Sprintf("must be between 1 and %d", maxPort),
		}
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
