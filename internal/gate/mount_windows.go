//go:build windows

package gate

import "os"

// Windows has no POSIX mountpoint semantics; a reachable directory is
// treated as mounted. Dev on Windows, run on Linux.
func isMountpoint(path string) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return st.IsDir(), nil
}
