package validate

import "os"

// IsFile checks if the path points to a regular file.
// It returns an error if the path is not a regular file, using the provided message and arguments.
func IsFile(path string, msg string, args ...any) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return createError(msg, args...)
	}
	return nil
}
