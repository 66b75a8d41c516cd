//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir      string // HOME, so ~/.create-evd stays sandboxed
	WorkDir      string // where projects are generated
	WorkspaceDir string // a synthetic reference workspace
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:      t.TempDir(),
		WorkDir:      t.TempDir(),
		WorkspaceDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	return env
}

// setupWorkspace fills dir with a reference workspace that still carries the
// legacy "demo" names and ports, plus the clutter a developer workspace
// accumulates (dependencies, runtime data, editor and VCS state).
func setupWorkspace(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, "docker-compose.dev.yml"), `services:
  mysql:
    image: mysql:8.0
    platform: linux/amd64
    container_name: demo-mysql
  redis:
    container_name: demo-redis
  backend:
    container_name: demo-backend
  frontend:
    container_name: demo-frontend
  nginx:
    container_name: demo-nginx
    ports:
      - "8080:8080"
`)
	writeFile(t, filepath.Join(dir, "docker-compose.prod.yml"), `services:
  mysql:
    platform: linux/amd64
    container_name: demo-mysql-prod
  backend:
    image: demo-backend:prod
    container_name: demo-backend-prod
  frontend:
    image: demo-frontend:prod
    container_name: demo-frontend-prod
  nginx:
    container_name: demo-nginx-prod
    ports:
      - "8081:8080"
`)
	writeFile(t, filepath.Join(dir, "README.md"), "# demo\n\nDev: http://localhost:8080/api/health\nProd: http://localhost:8081/api/health\n")
	writeFile(t, filepath.Join(dir, "backend", "package.json"), `{ "name": "demo-backend", "version": "0.0.1" }`+"\n")
	writeFile(t, filepath.Join(dir, "backend", "app", "router.ts"), "export default () => {};\n")
	writeFile(t, filepath.Join(dir, "frontend", "package.json"), `{ "name": "demo-frontend" }`+"\n")
	writeFile(t, filepath.Join(dir, "nginx", "default.conf"), "server { listen 8080; }\n")

	// Clutter that must never reach a generated project.
	writeFile(t, filepath.Join(dir, "backend", "node_modules", "egg", "index.js"), "module.exports = {};\n")
	writeFile(t, filepath.Join(dir, "backend", "logs", "app.log"), "boot\n")
	writeFile(t, filepath.Join(dir, "backend", "run", "pid"), "42\n")
	writeFile(t, filepath.Join(dir, "frontend", ".DS_Store"), "\x00")
	writeFile(t, filepath.Join(dir, "data", "mysql", "ibdata1"), "db")
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(dir, ".env"), "MYSQL_PASSWORD=leaked\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "private\n")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertFileNotContains fails if the file contains substr.
func assertFileNotContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("file %s unexpectedly contains %q.\nContents:\n%s", path, substr, string(data))
	}
}
