package rotation

import (
	"context"

	"github.com/coldstore/snapkeeper/internal/config"
	"github.com/coldstore/snapkeeper/internal/logging"
	"github.com/coldstore/snapkeeper/internal/storage"
)

// Executor removes the snapshots the classifier marked for deletion.
type Executor struct {
	backend storage.Backend
	log     logging.Logger
}

func NewExecutor(backend storage.Backend, log logging.Logger) *Executor {
	return &Executor{backend: backend, log: log}
}

// Delete removes each named snapshot independently. A failure is recorded
// and skipped; the rest of the set is still processed. Nothing is retried.
func (e *Executor) Delete(ctx context.Context, vol config.VolumeConfig, names []string) (deleted, failed []string) {
	for _, name := range names {
		if err := e.backend.Destroy(ctx, vol.Path, name); err != nil {
			e.log.Error("snapshot deletion failed", "volume", vol.ID, "snapshot", name, "error", err)
			failed = append(failed, name)
			continue
		}
		e.log.Info("snapshot deleted", "volume", vol.ID, "snapshot", name)
		deleted = append(deleted, name)
	}
	return deleted, failed
}
