package substitute

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/evdstack/create-evd/internal/logging"
	"github.com/rs/zerolog"
)

// FileError wraps a read or write failure on a target file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("rewriting %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Report lists what happened to each planned file.
type Report struct {
	Changed   []string
	Unchanged []string
	Skipped   []string // not present in the scaffold
}

// Engine applies file plans under a scaffold root.
type Engine struct {
	Logger zerolog.Logger
}

// NewEngine returns an Engine logging under the "substitute" component.
func NewEngine() *Engine {
	return &Engine{Logger: logging.Component("substitute")}
}

// Apply rewrites the default target files under root with v. Port choices
// that would make a second run rewrite the first run's output are rejected
// before any file is touched.
func (e *Engine) Apply(ctx context.Context, root string, v Values) (*Report, error) {
	if err := CheckPorts(v.DevPort, v.ProdPort); err != nil {
		return nil, err
	}
	return e.ApplyPlan(ctx, root, DefaultPlan(v))
}

// ApplyPlan runs each plan's token set and then its legacy set against the
// file's content. Missing files are skipped, and files whose content does not
// change are not rewritten.
func (e *Engine) ApplyPlan(ctx context.Context, root string, plan []FilePlan) (*Report, error) {
	for _, fp := range plan {
		if err := CheckDisjoint(fp.Token, fp.Legacy); err != nil {
			return nil, fmt.Errorf("rule sets for %s: %w", fp.Path, err)
		}
	}

	report := &Report{}
	for _, fp := range plan {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		changed, err := e.applyFile(root, fp)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			report.Skipped = append(report.Skipped, fp.Path)
			e.Logger.Debug().Str("file", fp.Path).Msg("Substitution target missing, skipping")
		case err != nil:
			return report, err
		case changed:
			report.Changed = append(report.Changed, fp.Path)
			e.Logger.Debug().Str("file", fp.Path).Msg("Rewrote file")
		default:
			report.Unchanged = append(report.Unchanged, fp.Path)
		}
	}
	return report, nil
}

func (e *Engine) applyFile(root string, fp FilePlan) (bool, error) {
	path := filepath.Join(root, filepath.FromSlash(fp.Path))

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err != nil {
		return false, &FileError{Path: fp.Path, Err: err}
	}

	original := string(data)
	updated := fp.Legacy.ApplyFrom(original, fp.Token.Apply(original))
	if updated == original {
		return false, nil
	}

	// os.WriteFile keeps the mode of an existing file.
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, &FileError{Path: fp.Path, Err: err}
	}
	return true, nil
}
