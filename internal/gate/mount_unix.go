//go:build unix

package gate

import (
	"os"
	"path/filepath"
	"syscall"
)

// isMountpoint reports whether path is a mountpoint: its device differs
// from its parent's. The filesystem root is always a mountpoint.
func isMountpoint(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return true, nil
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return false, err
	}
	pi, err := os.Stat(parent)
	if err != nil {
		return false, err
	}

	fst, ok1 := fi.Sys().(*syscall.Stat_t)
	pst, ok2 := pi.Sys().(*syscall.Stat_t)
	if !ok1 || !ok2 {
		return false, nil
	}
	return fst.Dev != pst.Dev, nil
}
