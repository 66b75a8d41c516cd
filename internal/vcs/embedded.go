package vcs

import (
	"context"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Embedded initializes repositories in-process with go-git, so no git
// executable is required.
type Embedded struct {
	Message     string
	AuthorName  string
	AuthorEmail string
	Now         func() time.Time
}

func newEmbedded(opts Options) *Embedded {
	return &Embedded{
		Message:     opts.Message,
		AuthorName:  opts.AuthorName,
		AuthorEmail: opts.AuthorEmail,
	}
}

// Initialize creates a repository in dir, stages every file not ignored by
// .gitignore and commits them.
func (e *Embedded) Initialize(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	if _, err := wt.Commit(e.message(), &git.CommitOptions{Author: e.signature()}); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

func (e *Embedded) message() string {
	if e.Message == "" {
		return DefaultCommitMessage
	}
	return e.Message
}

func (e *Embedded) signature() *object.Signature {
	sig := &object.Signature{Name: e.AuthorName, Email: e.AuthorEmail, When: time.Now()}
	if e.Now != nil {
		sig.When = e.Now()
	}
	if sig.Name == "" {
		sig.Name = defaultAuthor
	}
	if sig.Email == "" {
		sig.Email = defaultEmail
	}
	return sig
}
