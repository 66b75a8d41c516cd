package scaffold

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/evdstack/create-evd/internal/console"
	"github.com/evdstack/create-evd/internal/guard"
	"github.com/evdstack/create-evd/internal/logging"
	"github.com/evdstack/create-evd/internal/naming"
	"github.com/evdstack/create-evd/internal/secrets"
	"github.com/evdstack/create-evd/internal/substitute"
	"github.com/evdstack/create-evd/internal/templates"
	"github.com/evdstack/create-evd/internal/vcs"
)

// Request is one generation run. WorkDir is the directory a relative name
// is resolved against.
type Request struct {
	RawName string
	Options Options
	WorkDir string
}

// Result holds the outcome of a generation run.
type Result struct {
	TargetDir string
	AppName   string
	DirName   string // "." when generated into the working directory
	Strategy  templates.Strategy
	Files     []string
	Changed   []string
	EnvFiles  []secrets.EnvFileSummary
	Options   Options
	Warnings  []error
}

// VCSInitWarning reports a failed repository initialization. The scaffold
// itself is complete when it is returned.
type VCSInitWarning struct {
	Dir string
	Err error
}

func (w *VCSInitWarning) Error() string {
	return fmt.Sprintf("git initialization skipped or failed in %s: %v", w.Dir, w.Err)
}

func (w *VCSInitWarning) Unwrap() error { return w.Err }

// Generator wires the generation stages together.
type Generator struct {
	Templates *templates.Source
	Engine    *substitute.Engine
	Secrets   *secrets.Writer
	VCS       vcs.Initializer // nil disables repository initialization
	Confirm   guard.Confirmer // nil refuses to overwrite non-empty targets
	Printer   *console.Printer
	Logger    zerolog.Logger
}

// NewGenerator returns a Generator using the bundled template.
func NewGenerator(printer *console.Printer) *Generator {
	if printer == nil {
		printer = console.New(io.Discard, true)
	}
	return &Generator{
		Templates: templates.NewSource(""),
		Engine:    substitute.NewEngine(),
		Secrets:   secrets.NewWriter(),
		Printer:   printer,
		Logger:    logging.Component("scaffold"),
	}
}

// Run generates a project. Name and option errors are returned before the
// filesystem is touched. Every later stage error is fatal except repository
// initialization, which is reported in Result.Warnings together with a
// non-semantic version.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	name, err := naming.Resolve(req.RawName)
	if err != nil {
		return nil, err
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}
	version := req.Options.Version

	workDir := req.WorkDir
	if workDir == "" {
		workDir = "."
	}
	dirName := name.Normalized
	targetPath := filepath.Join(workDir, dirName)
	if name.IsCurrentDir() {
		targetPath = workDir
	}

	done := logging.Stage(g.Logger, "guard")
	target, err := guard.Inspect(targetPath)
	if err != nil {
		return nil, err
	}
	if err := guard.Ensure(ctx, target, req.Options.Force, g.Confirm); err != nil {
		return nil, err
	}
	done()

	appName := name.Normalized
	if name.IsCurrentDir() {
		appName = naming.FromDir(target.Path)
	}
	res := &Result{
		TargetDir: target.Path,
		AppName:   appName,
		DirName:   dirName,
		Options:   req.Options,
	}
	if err := req.Options.CheckVersion(); err != nil {
		g.Logger.Warn().Err(err).Msg("Non-semantic version")
		g.Printer.Warn("Warning: %v", err)
		res.Warnings = append(res.Warnings, err)
	}

	done = logging.Stage(g.Logger, "copy")
	copied, err := g.Templates.CopyInto(ctx, target.Path)
	if err != nil {
		return nil, err
	}
	res.Strategy = copied.Strategy
	res.Files = copied.Files
	g.Printer.Info("Copied %s template into %s", copied.Strategy, target.Path)
	done()

	done = logging.Stage(g.Logger, "substitute")
	g.Printer.Info("Applying replacements (names, ports, images, containers)...")
	report, err := g.Engine.Apply(ctx, target.Path, substitute.Values{
		AppName:  appName,
		DevPort:  req.Options.DevPort,
		ProdPort: req.Options.ProdPort,
		Version:  version,
		Platform: req.Options.MySQLPlatform,
	})
	if err != nil {
		return nil, err
	}
	res.Changed = report.Changed
	done()

	done = logging.Stage(g.Logger, "secrets")
	if err := g.Secrets.Write(target.Path, version); err != nil {
		return nil, err
	}
	if res.EnvFiles, err = g.Secrets.Summarize(target.Path); err != nil {
		return nil, err
	}
	done()

	if req.Options.InitVCS && g.VCS != nil {
		done = logging.Stage(g.Logger, "vcs")
		if err := g.VCS.Initialize(ctx, target.Path); err != nil {
			w := &VCSInitWarning{Dir: target.Path, Err: err}
			g.Logger.Warn().Err(err).Str("dir", target.Path).Msg("Repository initialization failed")
			g.Printer.Warn("Git initialization skipped or failed.")
			res.Warnings = append(res.Warnings, w)
		} else {
			g.Printer.Success("Initialized git repository.")
		}
		done()
	}

	g.Logger.Info().
		Str("app", appName).
		Str("target", target.Path).
		Int("files", len(res.Files)).
		Msg("Scaffold generated")
	return res, nil
}

// SecretSummary lists each env file with its key names.
func (r *Result) SecretSummary() []string {
	lines := make([]string, len(r.EnvFiles))
	for i, f := range r.EnvFiles {
		lines[i] = fmt.Sprintf("  %s: %s", f.File, strings.Join(f.Keys, ", "))
	}
	return lines
}

// NextSteps returns the instructions printed after a successful run.
func (r *Result) NextSteps() []string {
	return []string{
		fmt.Sprintf("  1) cd %s", r.DirName),
		"  2) Development:",
		"     docker compose -f docker-compose.dev.yml up -d",
		fmt.Sprintf("     Open http://localhost:%d/api/health", r.Options.DevPort),
		"  3) Production:",
		"     docker compose -f docker-compose.prod.yml up -d --build",
		fmt.Sprintf("     Open http://localhost:%d/api/health", r.Options.ProdPort),
	}
}
