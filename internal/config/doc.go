// Package config manages user-level settings stored at
// ~/.create-evd/config.yaml. The settings supply defaults for the generation
// options, the version-control backend and the template locations. Command
// flags and CREATE_EVD_* environment variables override them.
package config
