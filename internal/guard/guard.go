// Package guard makes sure a scaffold target directory exists and is safe to
// write into, asking the operator before it erases anything.
package guard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/evdstack/create-evd/internal/platform"
)

// Target describes the scaffold destination as observed once before any
// write happens.
type Target struct {
	Path   string // absolute path
	Exists bool
	Empty  bool
}

// Confirmer asks the operator whether a non-empty target may be overwritten.
type Confirmer interface {
	ConfirmOverwrite(ctx context.Context, path string) (bool, error)
}

// UserAbortedError is returned when the operator declines to overwrite a
// non-empty target. Nothing has been modified when it is returned.
type UserAbortedError struct {
	Path string
}

func (e *UserAbortedError) Error() string {
	return fmt.Sprintf("aborted by user: %s was left untouched", e.Path)
}

// DirectoryAccessError wraps a filesystem failure while inspecting, creating
// or emptying the target.
type DirectoryAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error { return e.Err }

// Inspect resolves path to an absolute Target and records whether it exists
// and whether it is empty. A path that exists but is not a directory is an
// error.
func Inspect(path string) (Target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Target{}, &DirectoryAccessError{Op: "resolving", Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return Target{Path: abs}, nil
	}
	if err != nil {
		return Target{}, &DirectoryAccessError{Op: "inspecting", Path: abs, Err: err}
	}
	if !info.IsDir() {
		return Target{}, &DirectoryAccessError{Op: "inspecting", Path: abs, Err: errors.New("not a directory")}
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return Target{}, &DirectoryAccessError{Op: "reading", Path: abs, Err: err}
	}
	return Target{Path: abs, Exists: true, Empty: len(entries) == 0}, nil
}

// Ensure prepares target for writing. A missing directory is created with its
// parents and an empty one is left alone. A non-empty directory is emptied
// when force is set; otherwise confirm decides, and a refusal yields
// *UserAbortedError with the contents untouched.
func Ensure(ctx context.Context, target Target, force bool, confirm Confirmer) error {
	if !target.Exists {
		if err := os.MkdirAll(target.Path, platform.DirPermNormal); err != nil {
			return &DirectoryAccessError{Op: "creating", Path: target.Path, Err: err}
		}
		return nil
	}
	if target.Empty {
		return nil
	}

	if !force {
		if confirm == nil {
			return &UserAbortedError{Path: target.Path}
		}
		ok, err := confirm.ConfirmOverwrite(ctx, target.Path)
		if err != nil {
			return fmt.Errorf("confirming overwrite of %s: %w", target.Path, err)
		}
		if !ok {
			return &UserAbortedError{Path: target.Path}
		}
	}

	return Empty(target.Path)
}

// Empty removes everything inside dir but keeps dir itself.
func Empty(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &DirectoryAccessError{Op: "reading", Path: dir, Err: err}
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(p); err != nil {
			return &DirectoryAccessError{Op: "removing", Path: p, Err: err}
		}
	}
	return nil
}
