package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ZFS manages snapshots of a dataset. ZFS forbids '@' inside the snapshot
// component, so the engine name prefix@ts travels as prefix-ts on the wire;
// List translates back before returning.
type ZFS struct {
	run RunCommand
}

func NewZFS(run RunCommand) *ZFS {
	if run == nil {
		run = execCommand
	}
	return &ZFS{run: run}
}

func (z *ZFS) Create(ctx context.Context, volumePath, name string) error {
	full := volumePath + "@" + wireName(name)
	if _, err := z.run(ctx, "zfs", "snapshot", full); err != nil {
		return fmt.Errorf("zfs snapshot %s: %w", full, err)
	}
	return nil
}

func (z *ZFS) List(ctx context.Context, volumePath, prefix string) ([]Entry, error) {
	out, err := z.run(ctx, "zfs", "list", "-H", "-p", "-t", "snapshot", "-o", "name,creation", volumePath)
	if err != nil {
		return nil, fmt.Errorf("zfs list %s: %w", volumePath, err)
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		_, snap, ok := strings.Cut(fields[0], "@")
		if !ok {
			continue
		}
		name, ok := engineName(snap, prefix)
		if !ok {
			continue
		}
		var created time.Time
		if len(fields) > 1 {
			if sec, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				created = time.Unix(sec, 0).UTC()
			}
		}
		entries = append(entries, Entry{Name: name, Created: created})
	}
	return entries, nil
}

func (z *ZFS) Destroy(ctx context.Context, volumePath, name string) error {
	full := volumePath + "@" + wireName(name)
	if _, err := z.run(ctx, "zfs", "destroy", full); err != nil {
		return fmt.Errorf("zfs destroy %s: %w", full, err)
	}
	return nil
}

// wireName turns the engine name prefix@ts into the on-disk prefix-ts.
func wireName(name string) string {
	return strings.Replace(name, "@", "-", 1)
}

// engineName reverses wireName for snapshots carrying the given prefix.
func engineName(snap, prefix string) (string, bool) {
	ts, ok := strings.CutPrefix(snap, prefix+"-")
	if !ok {
		return "", false
	}
	return prefix + "@" + ts, true
}
