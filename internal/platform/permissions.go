package platform

import (
	"os"
	"runtime"
)

// Permission constants used for generated files and directories.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
	FilePermSecure os.FileMode = 0600
)

// chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// WriteFileSecure writes data readable only by the owner. An existing file
// keeps its inode but has its mode tightened, since os.WriteFile leaves the
// mode of existing files untouched.
func WriteFileSecure(path string, data []byte) error {
	if err := os.WriteFile(path, data, FilePermSecure); err != nil {
		return err
	}
	return chmod(path, FilePermSecure)
}
