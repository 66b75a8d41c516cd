// Package secrets writes the generated credentials and the version marker
// into a scaffold. Secret values are produced fresh on every run, written
// once to the env files and never logged or returned to callers.
package secrets
