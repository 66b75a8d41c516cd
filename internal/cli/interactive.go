package cli

import (
	"github.com/evdstack/create-evd/internal/prompt"
	"github.com/evdstack/create-evd/internal/scaffold"
)

const defaultAppName = "my-app"

func questions(defaults scaffold.Options) []prompt.Question {
	return []prompt.Question{
		{Name: "appName", Message: "App name (use . for current directory):", Kind: prompt.Text, Initial: defaultAppName},
		{Name: "devPort", Message: "Development port:", Kind: prompt.Number, Initial: defaults.DevPort},
		{Name: "prodPort", Message: "Production port:", Kind: prompt.Number, Initial: defaults.ProdPort},
		{Name: "version", Message: "Initial version:", Kind: prompt.Text, Initial: defaults.Version},
		{Name: "useMysqlPlatform", Message: "Use MySQL platform " + scaffold.DefaultMySQLPlatform + "?", Kind: prompt.Toggle, Initial: true},
		{Name: "git", Message: "Initialize git?", Kind: prompt.Toggle, Initial: defaults.InitVCS},
	}
}

func applyAnswers(req *scaffold.Request, a prompt.Answers) {
	req.RawName = a.String("appName")
	req.Options.DevPort = a.Int("devPort")
	req.Options.ProdPort = a.Int("prodPort")
	req.Options.Version = a.String("version")
	req.Options.InitVCS = a.Bool("git")
	req.Options.MySQLPlatform = ""
	if a.Bool("useMysqlPlatform") {
		req.Options.MySQLPlatform = scaffold.DefaultMySQLPlatform
	}
}
