package library

import (
	"path/filepath"
	"strings"
)

// IsHidden reports whether a file or directory name is hidden (dot-prefixed).
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// IsPartial reports whether name looks like an incomplete download or an
// editor lock file.
func IsPartial(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "~$") ||
		strings.HasSuffix(lower, ".part") ||
		strings.HasSuffix(lower, ".crdownload") ||
		strings.HasSuffix(lower, ".tmp")
}

// Canonical returns an absolute, symlink-resolved form of path used to
// deduplicate documents and directories. When resolution fails the cleaned
// absolute path is returned.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
