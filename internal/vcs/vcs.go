// Package vcs initializes a version-control repository in a freshly
// generated project and records a single initial commit.
package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommitMessage is the message of the initial commit.
const DefaultCommitMessage = "chore: init scaffold"

// Backend names accepted by Select.
const (
	BackendAuto   = "auto"
	BackendGit    = "git"
	BackendGoGit  = "go-git"
	defaultAuthor = "create-evd"
	defaultEmail  = "create-evd@localhost"
)

// Initializer creates a repository in dir and commits its contents.
type Initializer interface {
	Initialize(ctx context.Context, dir string) error
}

// Options configure an Initializer.
type Options struct {
	Backend     string
	Message     string
	AuthorName  string
	AuthorEmail string
}

// Select returns the Initializer for opts.Backend. "auto" prefers the git
// executable and falls back to the in-process implementation when git is
// not on PATH.
func Select(opts Options) (Initializer, error) {
	if opts.Message == "" {
		opts.Message = DefaultCommitMessage
	}
	switch opts.Backend {
	case "", BackendAuto:
		if _, err := exec.LookPath("git"); err == nil {
			return &CLI{Runner: ExecRunner{}, Message: opts.Message}, nil
		}
		return newEmbedded(opts), nil
	case BackendGit:
		return &CLI{Runner: ExecRunner{}, Message: opts.Message}, nil
	case BackendGoGit:
		return newEmbedded(opts), nil
	default:
		return nil, fmt.Errorf("unknown vcs backend %q (want %s, %s or %s)", opts.Backend, BackendAuto, BackendGit, BackendGoGit)
	}
}

// CommandRunner runs an external command in dir and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// CLI initializes repositories with the git executable.
type CLI struct {
	Runner  CommandRunner
	Message string
}

// Initialize runs git init, git add -A and git commit in dir.
func (c *CLI) Initialize(ctx context.Context, dir string) error {
	msg := c.Message
	if msg == "" {
		msg = DefaultCommitMessage
	}
	steps := [][]string{
		{"init"},
		{"add", "-A"},
		{"commit", "-m", msg},
	}
	for _, args := range steps {
		output, err := c.Runner.Run(ctx, dir, "git", args...)
		if err != nil {
			return fmt.Errorf("git %s: %w\n%s", args[0], err, strings.TrimSpace(string(output)))
		}
	}
	return nil
}
