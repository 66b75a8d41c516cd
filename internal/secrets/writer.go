package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/evdstack/create-evd/internal/logging"
	"github.com/evdstack/create-evd/internal/platform"
	"github.com/rs/zerolog"
)

// File names written at the scaffold root.
const (
	VersionFile = "VERSION"
	BackendDir  = "backend"
)

// Tier describes one environment file and the strength of its secrets.
type Tier struct {
	Name      string
	File      string
	SecretLen int // random bytes before encoding
}

// Tiers are written in this order.
var (
	Development = Tier{Name: "development", File: ".env", SecretLen: 16}
	Production  = Tier{Name: "production", File: ".env.prod", SecretLen: 24}
)

// Default database identifiers shared by both tiers.
const (
	databaseName = "app_db"
	databaseUser = "app_user"
)

// EnvWriteError wraps a failure to write a version marker, env file or
// .gitignore.
type EnvWriteError struct {
	Path string
	Err  error
}

func (e *EnvWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *EnvWriteError) Unwrap() error { return e.Err }

// Writer generates secrets from Rand and writes them under a scaffold root.
type Writer struct {
	Rand   io.Reader
	Tiers  []Tier
	Logger zerolog.Logger
}

// NewWriter returns a Writer backed by crypto/rand with the development and
// production tiers.
func NewWriter() *Writer {
	return &Writer{
		Rand:   rand.Reader,
		Tiers:  []Tier{Development, Production},
		Logger: logging.Component("secrets"),
	}
}

// Write writes the version marker, the env files and the .gitignore entries
// that keep the env files out of version control.
func (w *Writer) Write(root, version string) error {
	if err := w.WriteVersion(root, version); err != nil {
		return err
	}
	if err := w.WriteEnvFiles(root); err != nil {
		return err
	}
	files := make([]string, len(w.Tiers))
	for i, t := range w.Tiers {
		files[i] = t.File
	}
	return EnsureGitignore(root, files...)
}

// WriteVersion writes "<version>\n" to VERSION at root, and to
// backend/VERSION when the backend directory exists.
func (w *Writer) WriteVersion(root, version string) error {
	content := []byte(version + "\n")

	rootFile := filepath.Join(root, VersionFile)
	if err := os.WriteFile(rootFile, content, platform.FilePermNormal); err != nil {
		return &EnvWriteError{Path: rootFile, Err: err}
	}

	backend := filepath.Join(root, BackendDir)
	info, err := os.Stat(backend)
	if err != nil || !info.IsDir() {
		w.Logger.Debug().Msg("No backend directory, skipping nested version marker")
		return nil
	}

	backendFile := filepath.Join(backend, VersionFile)
	if err := os.WriteFile(backendFile, content, platform.FilePermNormal); err != nil {
		return &EnvWriteError{Path: backendFile, Err: err}
	}
	return nil
}

// WriteEnvFiles writes one env file per tier with freshly generated secrets.
func (w *Writer) WriteEnvFiles(root string) error {
	for _, tier := range w.Tiers {
		entries, err := w.entries(tier)
		if err != nil {
			return &EnvWriteError{Path: tier.File, Err: err}
		}

		path := filepath.Join(root, tier.File)
		if err := platform.WriteFileSecure(path, []byte(FormatEnv(entries))); err != nil {
			return &EnvWriteError{Path: path, Err: err}
		}
		w.Logger.Debug().Str("tier", tier.Name).Str("file", tier.File).Int("keys", len(entries)).Msg("Wrote env file")
	}
	return nil
}

// EnvFileSummary names the keys found in one written env file.
type EnvFileSummary struct {
	File string
	Keys []string
}

// Summarize reads the env file of each tier back from root and reports its
// keys. Values are never returned.
func (w *Writer) Summarize(root string) ([]EnvFileSummary, error) {
	out := make([]EnvFileSummary, 0, len(w.Tiers))
	for _, tier := range w.Tiers {
		entries, err := ParseEnvFile(filepath.Join(root, tier.File))
		if err != nil {
			return nil, err
		}
		out = append(out, EnvFileSummary{File: tier.File, Keys: Keys(entries)})
	}
	return out, nil
}

func (w *Writer) entries(tier Tier) ([]EnvEntry, error) {
	secret := func() (string, error) { return RandomSecret(w.Rand, tier.SecretLen) }

	rootPass, err := secret()
	if err != nil {
		return nil, err
	}
	userPass, err := secret()
	if err != nil {
		return nil, err
	}
	cachePass, err := secret()
	if err != nil {
		return nil, err
	}

	return []EnvEntry{
		{Key: "MYSQL_ROOT_PASSWORD", Value: rootPass},
		{Key: "MYSQL_DATABASE", Value: databaseName},
		{Key: "MYSQL_USER", Value: databaseUser},
		{Key: "MYSQL_PASSWORD", Value: userPass},
		{Key: "REDIS_PASSWORD", Value: cachePass},
	}, nil
}

// RandomSecret reads n bytes from r and returns them base64url encoded
// without padding.
func RandomSecret(r io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", errors.New("secret length must be positive")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FormatEnv renders entries as KEY=VALUE lines, newline terminated.
func FormatEnv(entries []EnvEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(e.Value)
		b.WriteByte('\n')
	}
	return b.String()
}
