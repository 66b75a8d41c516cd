package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evdstack/create-evd/internal/branding"
	"github.com/evdstack/create-evd/internal/config"
)

func envVars() []string {
	keys := config.Keys()
	vars := make([]string, len(keys))
	for i, k := range keys {
		vars[i] = branding.EnvVar(k)
	}
	return vars
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user settings",
		Long: `Read and write create-evd configuration stored at ~/.create-evd/config.yaml.

Known keys: ` + strings.Join(config.Keys(), ", ") + `

Every key can be overridden from the environment: ` + strings.Join(envVars(), ", "),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			key, value := args[0], args[1]
			if err := config.Set(key, value); err != nil {
				return fmt.Errorf("setting config key %q: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.FilePath())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a config file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FilePath()
			if len(args) == 1 {
				path = args[0]
			}
			out := printer(cmd, opts)

			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && len(args) == 0 {
				out.Info("No config file at %s; defaults apply.", path)
				return nil
			}

			result, err := config.ValidateFile(path)
			if err != nil {
				return err
			}
			if result.Valid {
				out.Success("%s is valid.", path)
				return nil
			}
			for _, issue := range result.Issues {
				out.Error("  %s", issue)
			}
			return fmt.Errorf("%s has %d issue(s)", path, len(result.Issues))
		},
	})

	return cmd
}
