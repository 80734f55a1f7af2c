package rotation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coldstore/snapkeeper/internal/config"
	"github.com/coldstore/snapkeeper/internal/logging"
	"github.com/coldstore/snapkeeper/internal/snapshot"
	"github.com/coldstore/snapkeeper/internal/storage"
)

// Creator makes read-only snapshots, idempotent at minute granularity: if a
// snapshot named for the same minute already exists, creation is a no-op
// success.
type Creator struct {
	backend storage.Backend
	log     logging.Logger
}

func NewCreator(backend storage.Backend, log logging.Logger) *Creator {
	return &Creator{backend: backend, log: log}
}

func (c *Creator) Create(ctx context.Context, vol config.VolumeConfig, instant time.Time) (name string, existed bool, err error) {
	name = snapshot.Name(vol.Prefix, instant)

	entries, err := c.backend.List(ctx, vol.Path, vol.Prefix)
	if err != nil {
		return name, false, fmt.Errorf("checking existing snapshots of %s: %w", vol.ID, err)
	}
	for _, ent := range entries {
		if ent.Name == name {
			c.log.Info("snapshot already exists", "volume", vol.ID, "snapshot", name)
			return name, true, nil
		}
	}

	if err := c.backend.Create(ctx, vol.Path, name); err != nil {
		if errors.Is(err, storage.ErrExists) {
			c.log.Info("snapshot already exists", "volume", vol.ID, "snapshot", name)
			return name, true, nil
		}
		return name, false, fmt.Errorf("creating snapshot %s of %s: %w", name, vol.ID, err)
	}
	c.log.Info("snapshot created", "volume", vol.ID, "snapshot", name)
	return name, false, nil
}
