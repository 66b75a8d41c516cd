// Package templates locates the project template and copies it into a
// scaffold target. The bundled template is embedded in the binary; a
// reference workspace can be used instead, in which case only an allow-list
// of entries is copied and local artifacts are filtered out.
package templates

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/evdstack/create-evd/internal/logging"
	"github.com/evdstack/create-evd/internal/platform"
	"github.com/rs/zerolog"
)

//go:embed all:bundle
var bundleFS embed.FS

// Strategy names how the template tree was obtained.
type Strategy string

const (
	StrategyBundled   Strategy = "bundled"
	StrategyWorkspace Strategy = "workspace"
)

// AllowList holds the top-level workspace entries copied by the workspace
// strategy. Entries missing from the workspace are skipped.
var AllowList = []string{
	"backend",
	"frontend",
	"nginx",
	"docker-compose.dev.yml",
	"docker-compose.prod.yml",
	"README.md",
}

// Embedded returns the template tree compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(bundleFS, "bundle")
	if err != nil {
		// The directory is embedded at build time; fs.Sub only fails on an
		// invalid name.
		panic(err)
	}
	return sub
}

// CopyError wraps an I/O failure while copying the template. Entries copied
// before the failure are left in place.
type CopyError struct {
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("copying template: %v", e.Err)
	}
	return fmt.Sprintf("copying template %s: %v", e.Path, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// ErrNoSource is wrapped in a CopyError when neither strategy is available.
var ErrNoSource = errors.New("no template source available")

// Source resolves the template tree. Bundled is tried first; Workspace is the
// fallback.
type Source struct {
	Bundled   fs.FS
	Workspace string

	Logger zerolog.Logger
}

// NewSource returns a Source over the embedded template with an optional
// workspace fallback.
func NewSource(workspace string) *Source {
	return &Source{
		Bundled:   Embedded(),
		Workspace: workspace,
		Logger:    logging.Component("templates"),
	}
}

// Result describes what a copy produced.
type Result struct {
	Strategy Strategy
	Origin   string   // workspace path, or "embedded"
	Files    []string // slash-separated paths relative to the target
	Excluded []string // workspace paths rejected by the deny-set
	Missing  []string // allow-list entries absent from the workspace
}

// Strategy reports which strategy CopyInto would use.
func (s *Source) Strategy() (Strategy, error) {
	if s.bundledAvailable() {
		return StrategyBundled, nil
	}
	if s.Workspace != "" {
		return StrategyWorkspace, nil
	}
	return "", &CopyError{Err: ErrNoSource}
}

// CopyInto copies the template into dst, which must already exist.
func (s *Source) CopyInto(ctx context.Context, dst string) (*Result, error) {
	strategy, err := s.Strategy()
	if err != nil {
		return nil, err
	}

	if strategy == StrategyBundled {
		res := &Result{Strategy: StrategyBundled, Origin: "embedded"}
		s.Logger.Info().Str("target", dst).Msg("Copying bundled template")
		if err := copyTree(ctx, s.Bundled, ".", dst, nil, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	return s.copySelected(ctx, dst)
}

func (s *Source) bundledAvailable() bool {
	if s.Bundled == nil {
		return false
	}
	entries, err := fs.ReadDir(s.Bundled, ".")
	if err != nil {
		s.Logger.Debug().Err(err).Msg("Bundled template unreadable, falling back")
		return false
	}
	return len(entries) > 0
}

// copySelected copies the allow-listed entries from the workspace, filtering
// each directory entry through Denied.
func (s *Source) copySelected(ctx context.Context, dst string) (*Result, error) {
	info, err := os.Stat(s.Workspace)
	if err != nil {
		return nil, &CopyError{Path: s.Workspace, Err: err}
	}
	if !info.IsDir() {
		return nil, &CopyError{Path: s.Workspace, Err: errors.New("workspace is not a directory")}
	}

	res := &Result{Strategy: StrategyWorkspace, Origin: s.Workspace}
	s.Logger.Info().Str("workspace", s.Workspace).Str("target", dst).Msg("Copying selected template entries")

	src := os.DirFS(s.Workspace)
	for _, item := range AllowList {
		entry, err := fs.Stat(src, item)
		if errors.Is(err, fs.ErrNotExist) {
			res.Missing = append(res.Missing, item)
			s.Logger.Debug().Str("entry", item).Msg("Allow-listed entry missing, skipping")
			continue
		}
		if err != nil {
			return nil, &CopyError{Path: item, Err: err}
		}

		if entry.IsDir() {
			err = copyTree(ctx, src, item, filepath.Join(dst, filepath.FromSlash(item)), Denied, res)
		} else {
			err = copyFile(src, item, filepath.Join(dst, filepath.FromSlash(item)), res)
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// copyTree walks root inside src and mirrors it under dst. When deny is
// non-nil it is applied to the path segments relative to root and a denied
// directory is skipped together with its descendants.
func copyTree(ctx context.Context, src fs.FS, root, dst string, deny func([]string) bool, res *Result) error {
	return fs.WalkDir(src, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &CopyError{Path: p, Err: walkErr}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if root == "." {
			rel = p
			if rel == "." {
				rel = ""
			}
		}

		if rel != "" && deny != nil && deny(Segments(rel)) {
			res.Excluded = append(res.Excluded, p)
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		out := dst
		if rel != "" {
			out = filepath.Join(dst, filepath.FromSlash(rel))
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(out, platform.DirPermNormal); err != nil {
				return &CopyError{Path: p, Err: err}
			}
		case d.Type().IsRegular():
			return copyFile(src, p, out, res)
		}
		// Symlinks and other special files are not copied.
		return nil
	})
}

// copyFile copies one regular file, keeping its permission bits but always
// leaving it readable and writable by the owner so later stages can rewrite it.
func copyFile(src fs.FS, name, out string, res *Result) error {
	data, err := fs.ReadFile(src, name)
	if err != nil {
		return &CopyError{Path: name, Err: err}
	}
	info, err := fs.Stat(src, name)
	if err != nil {
		return &CopyError{Path: name, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(out), platform.DirPermNormal); err != nil {
		return &CopyError{Path: name, Err: err}
	}
	if err := os.WriteFile(out, data, info.Mode().Perm()|0o600); err != nil {
		return &CopyError{Path: name, Err: err}
	}
	res.Files = append(res.Files, path.Clean(name))
	return nil
}
