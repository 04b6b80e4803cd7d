package util

import (
	"os"
	"path/filepath"

	"github.com/gruntwork-io/terragen/internal/errors"
)

// ReadFileAsString returns the contents of the file at the given path as a string.
func ReadFileAsString(path string) (string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WithStackTraceAndPrefix(err, "error reading file at path %s", path)
	}

	return string(bytes), nil
}

// JoinPath always joins with the unix path separator, as terraform config is written with forward slashes even on
// Windows.
func JoinPath(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

// CanonicalPath returns the canonical version of the given path, relative to the given base path, if the given path
// is a relative path.
func CanonicalPath(path string, basePath string) (string, error) {
	if !filepath.IsAbs(path) {
		path = JoinPath(basePath, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WithStackTrace(err)
	}

	return filepath.ToSlash(absPath), nil
}
