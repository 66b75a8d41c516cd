// Package scaffold generates a new EVD project. Generator.Run resolves the
// name, prepares the target directory, copies the template, applies the
// substitutions, writes VERSION and environment files and optionally records
// an initial commit.
package scaffold
