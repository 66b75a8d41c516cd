package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evdstack/create-evd/internal/branding"
	"github.com/evdstack/create-evd/internal/console"
	"github.com/evdstack/create-evd/internal/guard"
	"github.com/evdstack/create-evd/internal/logging"
)

// BuildInfo is injected via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootOptions struct {
	verbose int
	noColor bool
}

// NewRootCommand returns the create-evd command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	cmd, _ := newRootCommand(info)
	return cmd
}

func newRootCommand(info BuildInfo) (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   branding.CLIName() + " [app-name|.]",
		Short: branding.Description(),
		Long: branding.DisplayName() + ` generates a runnable full-stack project: an Egg.js backend, a Vite frontend,
an nginx reverse proxy and Docker Compose descriptors for development and production.

Pass "." to generate into the current directory. Without a name the
generator asks for every setting interactively.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(opts.verbose, cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	create := &createOptions{root: opts}
	create.addFlags(cmd)
	cmd.RunE = create.run

	cmd.AddCommand(newVersionCommand(info))
	cmd.AddCommand(newConfigCommand(opts))

	return cmd, opts
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string) int {
	cmd, opts := newRootCommand(BuildInfo{Version: version, Commit: commit, Date: date})
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return exitCode(err, console.New(cmd.ErrOrStderr(), opts.noColor))
}

// exitCode reports err to the operator and maps it to an exit status.
func exitCode(err error, p *console.Printer) int {
	if err == nil {
		return 0
	}
	var aborted *guard.UserAbortedError
	if errors.As(err, &aborted) {
		p.Warn("Aborted by user.")
		return 1
	}
	p.Error("Error: %v", err)
	return 1
}

func workingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return wd, nil
}

func printer(cmd *cobra.Command, opts *rootOptions) *console.Printer {
	return console.New(cmd.OutOrStdout(), opts.noColor)
}
