// Package naming turns a requested project name into a normalized package
// name, or recognizes the "." sentinel meaning "scaffold into the current
// directory".
package naming
