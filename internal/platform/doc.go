// Package platform wraps the few filesystem calls whose behavior differs
// across operating systems, mainly Unix permission bits which Windows
// ignores.
package platform
