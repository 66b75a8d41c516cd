package config

import "github.com/spf13/viper"

// Settings is a typed snapshot of the loaded configuration.
type Settings struct {
	DevPort       int
	ProdPort      int
	Version       string
	MySQLPlatform string
	VCS           VCSSettings
	Template      TemplateSettings
}

// VCSSettings configure the initial commit.
type VCSSettings struct {
	Backend       string
	CommitMessage string
	AuthorName    string
	AuthorEmail   string
}

// TemplateSettings locate the template. Dir replaces the bundled template
// with an on-disk copy; Workspace is the reference workspace used when no
// bundled template is available.
type TemplateSettings struct {
	Dir       string
	Workspace string
}

// Snapshot returns the current settings.
func Snapshot() Settings {
	return Settings{
		DevPort:       viper.GetInt(KeyDevPort),
		ProdPort:      viper.GetInt(KeyProdPort),
		Version:       viper.GetString(KeyVersion),
		MySQLPlatform: viper.GetString(KeyMySQLPlatform),
		VCS: VCSSettings{
			Backend:       viper.GetString(KeyVCSBackend),
			CommitMessage: viper.GetString(KeyVCSCommitMessage),
			AuthorName:    viper.GetString(KeyVCSAuthorName),
			AuthorEmail:   viper.GetString(KeyVCSAuthorEmail),
		},
		Template: TemplateSettings{
			Dir:       viper.GetString(KeyTemplateDir),
			Workspace: viper.GetString(KeyTemplateWorkspace),
		},
	}
}
