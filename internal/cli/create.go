package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evdstack/create-evd/internal/config"
	"github.com/evdstack/create-evd/internal/prompt"
	"github.com/evdstack/create-evd/internal/scaffold"
	"github.com/evdstack/create-evd/internal/templates"
	"github.com/evdstack/create-evd/internal/vcs"
)

type createOptions struct {
	root *rootOptions

	git           bool
	force         bool
	fromWorkspace string
}

func (o *createOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("dev-port", scaffold.DefaultDevPort, "Development port to expose")
	f.Int("prod-port", scaffold.DefaultProdPort, "Production port to expose")
	f.String("version", scaffold.DefaultVersion, "Initial VERSION content")
	f.String("mysql-platform", "", "Docker platform for MySQL (e.g., linux/arm64/v8)")
	f.String("template-dir", "", "Use an on-disk template instead of the bundled one")
	f.StringVar(&o.fromWorkspace, "from-workspace", "", "Copy the template from a reference workspace")
	f.BoolVar(&o.git, "git", false, "Initialize a git repository")
	f.BoolVar(&o.force, "force", false, "Overwrite a non-empty directory")
}

// bindFlags lets flags override the config file and environment.
func bindFlags(cmd *cobra.Command) {
	for key, flag := range map[string]string{
		config.KeyDevPort:           "dev-port",
		config.KeyProdPort:          "prod-port",
		config.KeyVersion:           "version",
		config.KeyMySQLPlatform:     "mysql-platform",
		config.KeyTemplateDir:       "template-dir",
		config.KeyTemplateWorkspace: "from-workspace",
	} {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func (o *createOptions) run(cmd *cobra.Command, args []string) error {
	config.Load()
	bindFlags(cmd)
	settings := config.Snapshot()

	term := prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	req := scaffold.Request{
		Options: scaffold.Options{
			DevPort:       settings.DevPort,
			ProdPort:      settings.ProdPort,
			Version:       settings.Version,
			MySQLPlatform: settings.MySQLPlatform,
			InitVCS:       o.git,
			Force:         o.force,
		},
	}

	if len(args) == 1 {
		req.RawName = args[0]
	} else {
		answers, err := term.Ask(cmd.Context(), questions(req.Options))
		if err != nil {
			return err
		}
		applyAnswers(&req, answers)
	}

	wd, err := workingDir()
	if err != nil {
		return err
	}
	req.WorkDir = wd

	out := printer(cmd, o.root)
	g := scaffold.NewGenerator(out)
	g.Confirm = term
	g.Templates = templateSource(settings.Template)
	if req.Options.InitVCS {
		initializer, err := vcs.Select(vcs.Options{
			Backend:     settings.VCS.Backend,
			Message:     settings.VCS.CommitMessage,
			AuthorName:  settings.VCS.AuthorName,
			AuthorEmail: settings.VCS.AuthorEmail,
		})
		if err != nil {
			return err
		}
		g.VCS = initializer
	}

	res, err := g.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	out.Success("Scaffold generated successfully!")
	out.Plain("")
	out.Bold("Generated secrets (keep these files out of version control):")
	for _, line := range res.SecretSummary() {
		out.Plain("%s", line)
	}
	out.Plain("")
	out.Bold("Next steps:")
	for _, line := range res.NextSteps() {
		out.Plain("%s", line)
	}
	return nil
}

// templateSource picks the template location. A workspace forces the
// selective copy; a template directory replaces the bundled tree.
func templateSource(ts config.TemplateSettings) *templates.Source {
	src := templates.NewSource(ts.Workspace)
	switch {
	case ts.Workspace != "":
		src.Bundled = nil
	case ts.Dir != "":
		src.Bundled = os.DirFS(ts.Dir)
	}
	return src
}
