package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evdstack/create-evd/internal/guard"
	"github.com/evdstack/create-evd/internal/naming"
	"github.com/evdstack/create-evd/internal/secrets"
	"github.com/evdstack/create-evd/internal/vcs"
)

type failingVCS struct{ calls int }

func (f *failingVCS) Initialize(context.Context, string) error {
	f.calls++
	return errors.New("git: command not found")
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.DevPort = 3000
	opts.ProdPort = 3001
	opts.MySQLPlatform = DefaultMySQLPlatform
	return opts
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestRunEndToEnd(t *testing.T) {
	work := t.TempDir()
	stale := filepath.Join(work, "demo-app", "stale.txt")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.Force = true
	g := NewGenerator(nil)
	res, err := g.Run(context.Background(), Request{RawName: "Demo App", Options: opts, WorkDir: work})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	root := filepath.Join(work, "demo-app")
	if res.TargetDir != root {
		t.Errorf("TargetDir = %q, want %q", res.TargetDir, root)
	}
	if res.AppName != "demo-app" {
		t.Errorf("AppName = %q, want %q", res.AppName, "demo-app")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should have been removed by force")
	}

	dev := readFile(t, filepath.Join(root, "docker-compose.dev.yml"))
	for _, want := range []string{`"3000:8080"`, "container_name: demo-app-mysql", "platform: linux/arm64/v8", "name: demo-app-dev"} {
		if !strings.Contains(dev, want) {
			t.Errorf("dev compose missing %q", want)
		}
	}
	prod := readFile(t, filepath.Join(root, "docker-compose.prod.yml"))
	if !strings.Contains(prod, `"3001:8080"`) {
		t.Error("prod compose missing published port 3001")
	}
	if strings.Contains(dev+prod, "__") {
		t.Error("compose files still contain placeholder tokens")
	}
	pkg := readFile(t, filepath.Join(root, "backend", "package.json"))
	if !strings.Contains(pkg, `"name": "demo-app-backend"`) {
		t.Errorf("backend package name not substituted:\n%s", pkg)
	}

	if got := readFile(t, filepath.Join(root, "VERSION")); got != "0.1.0\n" {
		t.Errorf("VERSION = %q", got)
	}
	if got := readFile(t, filepath.Join(root, "backend", "VERSION")); got != "0.1.0\n" {
		t.Errorf("backend/VERSION = %q", got)
	}

	for _, name := range []string{".env", ".env.prod"} {
		entries, err := secrets.ParseEnvFile(filepath.Join(root, name))
		if err != nil {
			t.Fatalf("parsing %s: %v", name, err)
		}
		if len(entries) != 5 {
			t.Errorf("%s has %d entries, want 5", name, len(entries))
		}
	}

	if len(res.EnvFiles) != 2 || res.EnvFiles[1].File != ".env.prod" {
		t.Errorf("EnvFiles = %+v", res.EnvFiles)
	}
	for _, line := range res.SecretSummary() {
		if !strings.Contains(line, "MYSQL_ROOT_PASSWORD") {
			t.Errorf("summary line %q lacks MYSQL_ROOT_PASSWORD", line)
		}
	}

	if _, err := os.Stat(filepath.Join(root, ".git")); !os.IsNotExist(err) {
		t.Error(".git should not exist when InitVCS is false")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestRunInvalidNameTouchesNothing(t *testing.T) {
	work := t.TempDir()
	g := NewGenerator(nil)

	_, err := g.Run(context.Background(), Request{RawName: "!!!", Options: testOptions(), WorkDir: work})
	var nameErr *naming.InvalidNameError
	if !errors.As(err, &nameErr) {
		t.Fatalf("expected InvalidNameError, got %v", err)
	}
	assertEmptyDir(t, work)
}

func TestRunInvalidOptionsTouchesNothing(t *testing.T) {
	work := t.TempDir()
	opts := testOptions()
	opts.DevPort = 0

	_, err := NewGenerator(nil).Run(context.Background(), Request{RawName: "shop", Options: opts, WorkDir: work})
	var optErr *InvalidOptionsError
	if !errors.As(err, &optErr) {
		t.Fatalf("expected InvalidOptionsError, got %v", err)
	}
	if optErr.Field != "dev port" {
		t.Errorf("Field = %q, want %q", optErr.Field, "dev port")
	}
	assertEmptyDir(t, work)
}

func TestRunDeclinedOverwrite(t *testing.T) {
	work := t.TempDir()
	keep := filepath.Join(work, "shop", "keep.txt")
	if err := os.MkdirAll(filepath.Dir(keep), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keep, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := NewGenerator(nil)
	asked := ""
	g.Confirm = confirmFunc(func(_ context.Context, path string) (bool, error) {
		asked = path
		return false, nil
	})

	_, err := g.Run(context.Background(), Request{RawName: "shop", Options: testOptions(), WorkDir: work})
	var aborted *guard.UserAbortedError
	if !errors.As(err, &aborted) {
		t.Fatalf("expected UserAbortedError, got %v", err)
	}
	if asked != filepath.Join(work, "shop") {
		t.Errorf("confirm asked about %q", asked)
	}
	entries, _ := os.ReadDir(filepath.Join(work, "shop"))
	if len(entries) != 1 || readFile(t, keep) != "mine" {
		t.Error("declined overwrite must leave the directory untouched")
	}
}

func TestRunCurrentDirectory(t *testing.T) {
	work := filepath.Join(t.TempDir(), "My Shop")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := NewGenerator(nil).Run(context.Background(), Request{RawName: ".", Options: testOptions(), WorkDir: work})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.AppName != "my-shop" {
		t.Errorf("AppName = %q, want %q", res.AppName, "my-shop")
	}
	if res.DirName != "." {
		t.Errorf("DirName = %q, want %q", res.DirName, ".")
	}
	if !strings.Contains(readFile(t, filepath.Join(work, "docker-compose.dev.yml")), "my-shop-backend") {
		t.Error("app name derived from directory was not substituted")
	}
}

func TestRunVCSFailureIsWarning(t *testing.T) {
	opts := testOptions()
	opts.InitVCS = true
	fake := &failingVCS{}
	g := NewGenerator(nil)
	g.VCS = fake

	res, err := g.Run(context.Background(), Request{RawName: "shop", Options: opts, WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("VCS called %d times, want 1", fake.calls)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", res.Warnings)
	}
	var w *VCSInitWarning
	if !errors.As(res.Warnings[0], &w) {
		t.Errorf("warning is %T, want *VCSInitWarning", res.Warnings[0])
	}
}

func TestRunVCSSkippedWhenDisabled(t *testing.T) {
	fake := &failingVCS{}
	g := NewGenerator(nil)
	g.VCS = fake

	if _, err := g.Run(context.Background(), Request{RawName: "shop", Options: testOptions(), WorkDir: t.TempDir()}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if fake.calls != 0 {
		t.Error("VCS must not run when InitVCS is false")
	}
}

func TestRunWithEmbeddedVCS(t *testing.T) {
	opts := testOptions()
	opts.InitVCS = true
	g := NewGenerator(nil)
	g.VCS = &vcs.Embedded{AuthorName: "Test", AuthorEmail: "test@example.com"}

	res, err := g.Run(context.Background(), Request{RawName: "shop", Options: opts, WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if _, err := os.Stat(filepath.Join(res.TargetDir, ".git")); err != nil {
		t.Errorf(".git missing: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"defaults", func(*Options) {}, ""},
		{"v prefix", func(o *Options) { o.Version = "v1.2.3" }, ""},
		{"prod port too high", func(o *Options) { o.ProdPort = 70000 }, "prod port"},
		{"negative dev port", func(o *Options) { o.DevPort = -1 }, "dev port"},
		{"non-semver version", func(o *Options) { o.Version = "release-1" }, ""},
		{"empty version", func(o *Options) { o.Version = "  " }, "version"},
		{"multi-line version", func(o *Options) { o.Version = "1.0.0\nX=1" }, "version"},
		{"dev port on prod reference", func(o *Options) { o.DevPort = 8081; o.ProdPort = 9000 }, "dev port"},
		{"prod port on dev reference", func(o *Options) { o.DevPort = 3000; o.ProdPort = 8080 }, "prod port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunKeepsVersionVerbatim(t *testing.T) {
	opts := testOptions()
	opts.Version = "v1.2"

	res, err := NewGenerator(nil).Run(context.Background(), Request{RawName: "shop", Options: opts, WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	for _, rel := range []string{"VERSION", filepath.Join("backend", "VERSION")} {
		if got := readFile(t, filepath.Join(res.TargetDir, rel)); got != "v1.2\n" {
			t.Errorf("%s = %q, want %q", rel, got, "v1.2\n")
		}
	}
	if !strings.Contains(readFile(t, filepath.Join(res.TargetDir, "README.md")), "v1.2") {
		t.Error("README does not carry the literal version")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("v1.2 parses as semver, unexpected warnings: %v", res.Warnings)
	}
}

func TestRunNonSemverVersionWarns(t *testing.T) {
	opts := testOptions()
	opts.Version = "release-1"

	res, err := NewGenerator(nil).Run(context.Background(), Request{RawName: "shop", Options: opts, WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := readFile(t, filepath.Join(res.TargetDir, "VERSION")); got != "release-1\n" {
		t.Errorf("VERSION = %q, want %q", got, "release-1\n")
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", res.Warnings)
	}
	var w *VersionWarning
	if !errors.As(res.Warnings[0], &w) {
		t.Errorf("warning is %T, want *VersionWarning", res.Warnings[0])
	}
}

func TestRunRejectsReferencePortConflict(t *testing.T) {
	work := t.TempDir()
	opts := testOptions()
	opts.ProdPort = 8080

	_, err := NewGenerator(nil).Run(context.Background(), Request{RawName: "shop", Options: opts, WorkDir: work})
	var optErr *InvalidOptionsError
	if !errors.As(err, &optErr) {
		t.Fatalf("expected InvalidOptionsError, got %v", err)
	}
	assertEmptyDir(t, work)
}

func TestNextSteps(t *testing.T) {
	res := &Result{DirName: "shop", Options: Options{DevPort: 3000, ProdPort: 3001}}
	joined := strings.Join(res.NextSteps(), "\n")
	for _, want := range []string{
		"1) cd shop",
		"docker compose -f docker-compose.dev.yml up -d",
		"http://localhost:3000/api/health",
		"docker compose -f docker-compose.prod.yml up -d --build",
		"http://localhost:3001/api/health",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("next steps missing %q:\n%s", want, joined)
		}
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%s should be empty, has %d entries", dir, len(entries))
	}
}

type confirmFunc func(ctx context.Context, path string) (bool, error)

func (f confirmFunc) ConfirmOverwrite(ctx context.Context, path string) (bool, error) {
	return f(ctx, path)
}
