// Package fsprobe checks whether fsnotify works reliably for a directory,
// by performing a real create+remove round trip and waiting for the events.
// Network filesystems often accept watches but never deliver anything.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const probeTimeout = 200 * time.Millisecond

// Supported reports whether fsnotify delivers events for dir, and the
// reason when it does not.
func Supported(dir string) (bool, string) {
	st, err := os.Stat(dir)
	if err != nil {
		return false, fmt.Sprintf("stat failed: %v", err)
	}
	if !st.IsDir() {
		return false, "not a directory"
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return false, fmt.Sprintf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return false, fmt.Sprintf("cannot watch directory: %v", err)
	}

	probe := filepath.Join(dir, ".snapkeeper_probe")
	f, err := os.Create(probe)
	if err != nil {
		return false, fmt.Sprintf("cannot create probe file: %v", err)
	}
	f.Close()
	defer os.Remove(probe)

	deadline := time.After(probeTimeout)
	for {
		select {
		case ev := <-w.Events:
			if ev.Name == probe && ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				return true, ""
			}
		case err := <-w.Errors:
			return false, fmt.Sprintf("watch error: %v", err)
		case <-deadline:
			return false, "no events received"
		}
	}
}
