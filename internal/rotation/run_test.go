package rotation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldstore/snapkeeper/internal/config"
	"github.com/coldstore/snapkeeper/internal/logging"
	"github.com/coldstore/snapkeeper/internal/retention"
	"github.com/coldstore/snapkeeper/internal/snapshot"
	"github.com/coldstore/snapkeeper/internal/storage"
)

// memBackend keeps snapshots in memory, per volume path.
type memBackend struct {
	snaps      map[string][]storage.Entry
	createErr  error
	destroyErr map[string]error // by snapshot name
	created    []string
	destroyed  []string
}

func newMemBackend() *memBackend {
	return &memBackend{snaps: map[string][]storage.Entry{}, destroyErr: map[string]error{}}
}

func (m *memBackend) add(volumePath, name string, created time.Time) {
	m.snaps[volumePath] = append(m.snaps[volumePath], storage.Entry{Name: name, Created: created})
}

func (m *memBackend) Create(_ context.Context, volumePath, name string) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, e := range m.snaps[volumePath] {
		if e.Name == name {
			return storage.ErrExists
		}
	}
	m.snaps[volumePath] = append(m.snaps[volumePath], storage.Entry{Name: name})
	m.created = append(m.created, name)
	return nil
}

func (m *memBackend) List(_ context.Context, volumePath, _ string) ([]storage.Entry, error) {
	return m.snaps[volumePath], nil
}

func (m *memBackend) Destroy(_ context.Context, volumePath, name string) error {
	if err := m.destroyErr[name]; err != nil {
		return err
	}
	kept := m.snaps[volumePath][:0]
	for _, e := range m.snaps[volumePath] {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	m.snaps[volumePath] = kept
	m.destroyed = append(m.destroyed, name)
	return nil
}

func testRunner(backends map[string]*memBackend) *Runner {
	return &Runner{
		open: func(backend string) (storage.Backend, error) {
			b, ok := backends[backend]
			if !ok {
				return nil, errors.New("unknown backend " + backend)
			}
			return b, nil
		},
		log: logging.Nop{},
	}
}

var testNow = time.Date(2026, 1, 21, 12, 0, 0, 0, time.UTC)

func vol(id string) config.VolumeConfig {
	return config.VolumeConfig{ID: id, Path: "/mnt/" + id, Prefix: "data", Backend: "btrfs"}
}

func agedName(age int) string {
	return snapshot.Name("data", testNow.Add(-time.Duration(age)*24*time.Hour))
}

func TestRotate_CreatesClassifiesAndDeletes(t *testing.T) {
	backend := newMemBackend()
	v := vol("tank")
	// Three dailies beyond the cap of two, plus the fresh one created by
	// the run itself.
	for _, age := range []int{1, 2, 3} {
		backend.add(v.Path, agedName(age), testNow.Add(-time.Duration(age)*24*time.Hour))
	}

	rep, err := testRunner(map[string]*memBackend{"btrfs": backend}).
		Rotate(context.Background(), []config.VolumeConfig{v}, retention.Policy{KeepDaily: 2}, testNow)
	require.NoError(t, err)
	require.Len(t, rep.Volumes, 1)

	vr := rep.Volumes[0]
	assert.False(t, vr.Failed)
	assert.Equal(t, []string{agedName(0), agedName(1)}, vr.Kept)
	assert.ElementsMatch(t, []string{agedName(2), agedName(3)}, vr.Deleted)
	assert.Empty(t, vr.FailedDeletions)
	assert.True(t, rep.OverallOk())

	// The freshly created snapshot survived on disk.
	assert.Contains(t, backend.created, agedName(0))
	require.Len(t, backend.snaps[v.Path], 2)
}

func TestRotate_CreateFailureIsolatesVolume(t *testing.T) {
	broken := newMemBackend()
	broken.createErr = errors.New("read-only filesystem")
	healthy := newMemBackend()

	a := vol("broken")
	b := config.VolumeConfig{ID: "healthy", Path: "/tank/data", Prefix: "data", Backend: "zfs"}

	rep, err := testRunner(map[string]*memBackend{"btrfs": broken, "zfs": healthy}).
		Rotate(context.Background(), []config.VolumeConfig{a, b}, retention.Policy{KeepDaily: 7}, testNow)
	require.NoError(t, err)
	require.Len(t, rep.Volumes, 2)

	assert.True(t, rep.Volumes[0].Failed)
	assert.Equal(t, "create", rep.Volumes[0].FailureReason)
	assert.Empty(t, rep.Volumes[0].Deleted, "a failed volume must not reach deletion")

	assert.False(t, rep.Volumes[1].Failed)
	assert.Equal(t, []string{agedName(0)}, rep.Volumes[1].Kept)

	assert.False(t, rep.OverallOk())
}

func TestRotate_DeleteFailureIsRecordedAndRunContinues(t *testing.T) {
	backend := newMemBackend()
	v := vol("tank")
	for _, age := range []int{1, 2, 3} {
		backend.add(v.Path, agedName(age), testNow.Add(-time.Duration(age)*24*time.Hour))
	}
	backend.destroyErr[agedName(2)] = errors.New("snapshot busy")

	rep, err := testRunner(map[string]*memBackend{"btrfs": backend}).
		Rotate(context.Background(), []config.VolumeConfig{v}, retention.Policy{KeepDaily: 2}, testNow)
	require.NoError(t, err)

	vr := rep.Volumes[0]
	assert.False(t, vr.Failed, "delete failures still reach done")
	assert.Equal(t, []string{agedName(3)}, vr.Deleted)
	assert.Equal(t, []string{agedName(2)}, vr.FailedDeletions)
	assert.False(t, rep.OverallOk())
}

func TestRotate_ConfigErrorsAbortBeforeStorage(t *testing.T) {
	backend := newMemBackend()
	r := testRunner(map[string]*memBackend{"btrfs": backend})

	_, err := r.Rotate(context.Background(), nil, retention.Policy{KeepDaily: 1}, testNow)
	assert.ErrorIs(t, err, config.ErrNoVolumes)

	_, err = r.Rotate(context.Background(), []config.VolumeConfig{vol("tank")}, retention.Policy{KeepDaily: -1}, testNow)
	assert.Error(t, err)

	assert.Empty(t, backend.created, "no storage call may precede validation")
}

func TestCreator_IdempotentWithinAMinute(t *testing.T) {
	backend := newMemBackend()
	creator := NewCreator(backend, logging.Nop{})
	v := vol("tank")

	name, existed, err := creator.Create(context.Background(), v, testNow)
	require.NoError(t, err)
	assert.False(t, existed)

	again, existed, err := creator.Create(context.Background(), v, testNow.Add(30*time.Second))
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, name, again)

	require.Len(t, backend.snaps[v.Path], 1)
}

func TestCreator_ErrExistsFromBackendIsSuccess(t *testing.T) {
	backend := newMemBackend()
	v := vol("tank")
	// Present on disk but invisible to the pre-check listing.
	backend.createErr = storage.ErrExists

	_, existed, err := NewCreator(backend, logging.Nop{}).Create(context.Background(), v, testNow)
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestCreateAll_FailuresArePerVolume(t *testing.T) {
	broken := newMemBackend()
	broken.createErr = errors.New("no space left on device")
	healthy := newMemBackend()

	results, err := testRunner(map[string]*memBackend{"btrfs": broken, "zfs": healthy}).
		CreateAll(context.Background(), []config.VolumeConfig{
			vol("broken"),
			{ID: "healthy", Path: "tank/data", Prefix: "data", Backend: "zfs"},
		}, testNow)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Equal(t, agedName(0), results[1].Name)
}

func TestRotate_UnparseableSnapshotIsNeverTouched(t *testing.T) {
	backend := newMemBackend()
	v := vol("tank")
	backend.add(v.Path, "data@garbled", time.Time{}) // no metadata, bad name
	backend.add(v.Path, agedName(40), testNow.Add(-40*24*time.Hour))

	rep, err := testRunner(map[string]*memBackend{"btrfs": backend}).
		Rotate(context.Background(), []config.VolumeConfig{v}, retention.Policy{KeepDaily: 1}, testNow)
	require.NoError(t, err)

	vr := rep.Volumes[0]
	assert.NotContains(t, vr.Kept, "data@garbled")
	assert.NotContains(t, vr.Deleted, "data@garbled")
	assert.NotContains(t, vr.FailedDeletions, "data@garbled")
	assert.NotContains(t, backend.destroyed, "data@garbled")
	assert.True(t, rep.OverallOk(), "a skipped snapshot is not a failure")
}

func TestReportSummary(t *testing.T) {
	rep := Report{Volumes: []VolumeReport{
		{Volume: "tank", Kept: []string{"a", "b"}, Deleted: []string{"c"}},
		{Volume: "media", Failed: true, FailureReason: "create"},
	}}

	s := rep.Summary()
	assert.Contains(t, s, "rotation FAILED across 2 volume(s)")
	assert.Contains(t, s, "tank: kept 2, deleted 1")
	assert.Contains(t, s, "media: FAILED (create)")
}
