// Package cli defines the Cobra command tree for create-evd. The root command
// generates a project; the version and config subcommands report build
// information and manage user settings. Commands only parse flags, talk to
// the operator and delegate to the scaffold package.
package cli
