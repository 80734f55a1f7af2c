// Package catalog enumerates existing snapshots and resolves each one's
// authoritative creation instant.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/coldstore/snapkeeper/internal/logging"
	"github.com/coldstore/snapkeeper/internal/snapshot"
	"github.com/coldstore/snapkeeper/internal/storage"
)

type Catalog struct {
	backend storage.Backend
	log     logging.Logger
}

func New(backend storage.Backend, log logging.Logger) *Catalog {
	return &Catalog{backend: backend, log: log}
}

// List returns the volume's snapshots newest-first. The creation instant
// comes from storage metadata when the backend reports one, otherwise from
// the timestamp embedded in the name. A snapshot yielding neither is
// excluded and logged; it is never handed to deletion, so nothing gets
// deleted just because its age could not be determined. No side effects;
// callable any number of times per run.
func (c *Catalog) List(ctx context.Context, volumeID, volumePath, prefix string) ([]snapshot.Snapshot, error) {
	entries, err := c.backend.List(ctx, volumePath, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots of %s: %w", volumeID, err)
	}

	snaps := make([]snapshot.Snapshot, 0, len(entries))
	for _, ent := range entries {
		created := ent.Created
		if created.IsZero() {
			t, err := snapshot.ParseName(ent.Name, prefix)
			if err != nil {
				c.log.Warn("skipping snapshot with unresolvable creation instant",
					"volume", volumeID, "snapshot", ent.Name, "error", err)
				continue
			}
			created = t
		}
		snaps = append(snaps, snapshot.Snapshot{Name: ent.Name, Created: created})
	}

	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].Created.Equal(snaps[j].Created) {
			return snaps[i].Created.After(snaps[j].Created)
		}
		return snaps[i].Name > snaps[j].Name
	})
	return snaps, nil
}
