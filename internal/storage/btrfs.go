package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coldstore/snapkeeper/internal/snapshot"
)

// SnapshotsDir is where btrfs snapshots live, relative to the volume mount.
const SnapshotsDir = ".snapshots"

// Btrfs manages read-only subvolume snapshots under <volume>/.snapshots.
// The engine name is used verbatim as the snapshot directory name.
type Btrfs struct {
	run RunCommand
}

func NewBtrfs(run RunCommand) *Btrfs {
	if run == nil {
		run = execCommand
	}
	return &Btrfs{run: run}
}

func (b *Btrfs) Create(ctx context.Context, volumePath, name string) error {
	dst := filepath.Join(volumePath, SnapshotsDir, name)
	if _, err := os.Stat(dst); err == nil {
		return ErrExists
	}
	if _, err := b.run(ctx, "btrfs", "subvolume", "snapshot", "-r", volumePath, dst); err != nil {
		return fmt.Errorf("btrfs snapshot %s: %w", dst, err)
	}
	return nil
}

func (b *Btrfs) List(ctx context.Context, volumePath, prefix string) ([]Entry, error) {
	dir := filepath.Join(volumePath, SnapshotsDir)
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var entries []Entry
	for _, ent := range dirents {
		if !ent.IsDir() || !snapshot.MatchesPrefix(ent.Name(), prefix) {
			continue
		}
		entries = append(entries, Entry{
			Name:    ent.Name(),
			Created: b.creationTime(ctx, filepath.Join(dir, ent.Name())),
		})
	}
	return entries, nil
}

func (b *Btrfs) Destroy(ctx context.Context, volumePath, name string) error {
	target := filepath.Join(volumePath, SnapshotsDir, name)
	if _, err := b.run(ctx, "btrfs", "subvolume", "delete", target); err != nil {
		return fmt.Errorf("btrfs delete %s: %w", target, err)
	}
	return nil
}

// creationTime reads the subvolume otime. Zero when the query or parse
// fails; the catalog then falls back to the name timestamp.
func (b *Btrfs) creationTime(ctx context.Context, path string) time.Time {
	out, err := b.run(ctx, "btrfs", "subvolume", "show", path)
	if err != nil {
		return time.Time{}
	}
	return parseOtime(out)
}

// parseOtime finds the "Creation time:" line of `btrfs subvolume show`.
func parseOtime(out []byte) time.Time {
	for _, line := range strings.Split(string(out), "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Creation time:")
		if !ok {
			continue
		}
		t, err := time.Parse("2006-01-02 15:04:05 -0700", strings.TrimSpace(rest))
		if err != nil {
			return time.Time{}
		}
		return t
	}
	return time.Time{}
}
