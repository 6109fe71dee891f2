package utils

import "path/filepath"

// StdStream is the path value meaning stdin for input and stdout for output.
const StdStream = "-"

// GetAbsolutePath returns path if it was absolute, otherwise joins it with baseDir.
// The StdStream marker and empty paths are returned untouched.
func GetAbsolutePath(path, baseDir string) string {
	if path == "" || path == StdStream {
		return path
	}

	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}

	return filepath.Clean(filepath.Join(baseDir, path))
}
