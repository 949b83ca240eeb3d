package aputil

import "os"

// FileExists checks to see whether the file/directory at the path location
// exists.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
