package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/evdstack/create-evd/internal/branding"
	"github.com/evdstack/create-evd/internal/platform"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the config file.
const (
	KeyDevPort           = "dev_port"
	KeyProdPort          = "prod_port"
	KeyVersion           = "version"
	KeyMySQLPlatform     = "mysql_platform"
	KeyVCSBackend        = "vcs.backend"
	KeyVCSCommitMessage  = "vcs.commit_message"
	KeyVCSAuthorName     = "vcs.author_name"
	KeyVCSAuthorEmail    = "vcs.author_email"
	KeyTemplateDir       = "template.dir"
	KeyTemplateWorkspace = "template.workspace"
)

var defaults = map[string]any{
	KeyDevPort:          8080,
	KeyProdPort:         8081,
	KeyVersion:          "0.1.0",
	KeyVCSBackend:       "auto",
	KeyVCSCommitMessage: "chore: init scaffold",
}

// Keys returns every supported key in sorted order.
func Keys() []string {
	keys := []string{
		KeyDevPort, KeyProdPort, KeyVersion, KeyMySQLPlatform,
		KeyVCSBackend, KeyVCSCommitMessage, KeyVCSAuthorName, KeyVCSAuthorEmail,
		KeyTemplateDir, KeyTemplateWorkspace,
	}
	slices.Sort(keys)
	return keys
}

// Dir returns the path to the config directory (~/.create-evd/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.create-evd/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, platform.DirPermNormal); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. Port values
// are stored as integers.
func Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, typed(key, value))

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func typed(key, value string) any {
	if key != KeyDevPort && key != KeyProdPort {
		return value
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return value
}
