// Package storage talks to the snapshot-capable storage layer. Each backend
// wraps one technology's CLI; calls block until the underlying command
// finishes and no timeout is imposed here.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrExists signals that a snapshot with the requested name is already
// present. Callers treat it as a no-op success.
var ErrExists = errors.New("snapshot already exists")

// Entry is one on-disk snapshot as reported by a backend. Created is the
// authoritative creation instant from storage metadata; it is zero when the
// backend could not resolve one.
type Entry struct {
	Name    string
	Created time.Time
}

// Backend abstracts one snapshot-capable storage technology. Names passed in
// and returned are engine names (prefix@timestamp); backends translate to
// their own naming where needed.
type Backend interface {
	Create(ctx context.Context, volumePath, name string) error
	List(ctx context.Context, volumePath, prefix string) ([]Entry, error)
	Destroy(ctx context.Context, volumePath, name string) error
}

// RunCommand executes a storage CLI and returns its stdout. Injectable so
// tests never shell out.
type RunCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(exitErr.Stderr))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Open returns the backend named in a volume configuration.
func Open(backend string) (Backend, error) {
	switch backend {
	case "btrfs":
		return NewBtrfs(nil), nil
	case "zfs":
		return NewZFS(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
