package utils

import (
	"io/fs"
	"os"
	"runtime"
)

// CheckPrivate stats path and reports whether group and other users have no
// access to it. On Windows, where modes do not reflect ACLs, it always
// reports true.
func CheckPrivate(path string) (fs.FileMode, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false, err
	}
	perm := info.Mode().Perm()
	if runtime.GOOS == "windows" {
		return perm, true, nil
	}
	return perm, perm&0077 == 0, nil
}
