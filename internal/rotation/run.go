package rotation

import (
	"context"
	"time"

	"github.com/coldstore/snapkeeper/internal/catalog"
	"github.com/coldstore/snapkeeper/internal/config"
	"github.com/coldstore/snapkeeper/internal/logging"
	"github.com/coldstore/snapkeeper/internal/retention"
	"github.com/coldstore/snapkeeper/internal/storage"
)

// Per-volume lifecycle states, logged on every transition.
type state string

const (
	stateIdle        state = "idle"
	stateCreating    state = "creating"
	stateCataloging  state = "cataloging"
	stateClassifying state = "classifying"
	stateExecuting   state = "executing"
	stateDone        state = "done"
	stateFailed      state = "failed"
)

// Runner drives the rotation pipeline. Volumes are processed sequentially
// and independently: one volume's failure never blocks the others, and no
// state is carried between runs.
type Runner struct {
	open func(backend string) (storage.Backend, error)
	log  logging.Logger
}

func New(log logging.Logger) *Runner {
	return &Runner{open: storage.Open, log: log}
}

// CreateResult is the per-volume outcome of a create-only pass.
type CreateResult struct {
	Volume  string
	Name    string
	Existed bool
	Err     error
}

// Rotate runs the full lifecycle for every volume: create a fresh snapshot,
// re-list the catalog, classify under policy, delete the delete partition.
// A config problem aborts before any storage call.
func (r *Runner) Rotate(ctx context.Context, volumes []config.VolumeConfig, policy retention.Policy, now time.Time) (Report, error) {
	if err := config.ValidateVolumes(volumes); err != nil {
		return Report{}, err
	}
	if err := policy.Validate(); err != nil {
		return Report{}, err
	}

	var rep Report
	for _, vol := range volumes {
		rep.Volumes = append(rep.Volumes, r.rotateVolume(ctx, vol, policy, now))
	}
	return rep, nil
}

// CreateAll snapshots every volume without pruning anything. Failures are
// per volume.
func (r *Runner) CreateAll(ctx context.Context, volumes []config.VolumeConfig, now time.Time) ([]CreateResult, error) {
	if err := config.ValidateVolumes(volumes); err != nil {
		return nil, err
	}

	results := make([]CreateResult, 0, len(volumes))
	for _, vol := range volumes {
		res := CreateResult{Volume: vol.ID}
		backend, err := r.open(vol.Backend)
		if err != nil {
			res.Err = err
		} else {
			res.Name, res.Existed, res.Err = NewCreator(backend, r.log).Create(ctx, vol, now)
		}
		if res.Err != nil {
			r.log.Error("snapshot creation failed", "volume", vol.ID, "error", res.Err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) rotateVolume(ctx context.Context, vol config.VolumeConfig, policy retention.Policy, now time.Time) VolumeReport {
	report := VolumeReport{Volume: vol.ID}

	run := volumeRun{vol: vol.ID, state: stateIdle, log: r.log}

	backend, err := r.open(vol.Backend)
	if err != nil {
		// Unreachable after validation; kept so a bad open is never silent.
		r.log.Error("opening storage backend failed", "volume", vol.ID, "error", err)
		report.Failed = true
		report.FailureReason = "create"
		run.to(stateFailed)
		return report
	}

	run.to(stateCreating)
	if _, _, err := NewCreator(backend, r.log).Create(ctx, vol, now); err != nil {
		r.log.Error("snapshot creation failed", "volume", vol.ID, "error", err)
		report.Failed = true
		report.FailureReason = "create"
		run.to(stateFailed)
		return report
	}

	run.to(stateCataloging)
	snaps, err := catalog.New(backend, r.log).List(ctx, vol.ID, vol.Path, vol.Prefix)
	if err != nil {
		r.log.Error("snapshot catalog failed", "volume", vol.ID, "error", err)
		report.Failed = true
		report.FailureReason = "catalog"
		run.to(stateFailed)
		return report
	}

	run.to(stateClassifying)
	part := retention.Classify(snaps, policy, now)
	for _, d := range part.Decisions {
		age := d.Snapshot.AgeDays(now)
		if d.Keep {
			r.log.Info("snapshot kept", "volume", vol.ID, "snapshot", d.Snapshot.Name, "tier", d.Tier, "ageDays", age)
		} else {
			r.log.Info("snapshot marked for deletion", "volume", vol.ID, "snapshot", d.Snapshot.Name, "ageDays", age)
		}
	}

	run.to(stateExecuting)
	deleted, failed := NewExecutor(backend, r.log).Delete(ctx, vol, part.DeleteNames())

	report.Kept = part.KeptNames()
	report.Deleted = deleted
	report.FailedDeletions = failed
	run.to(stateDone)
	return report
}

type volumeRun struct {
	vol   string
	state state
	log   logging.Logger
}

func (v *volumeRun) to(next state) {
	v.log.Debug("rotation state", "volume", v.vol, "from", v.state, "to", next)
	v.state = next
}
