package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// scriptRunner records commands and plays back canned output.
type scriptRunner struct {
	calls []call
	out   []byte
	err   error
}

func (s *scriptRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	return s.out, s.err
}

func TestZFSCreateTranslatesName(t *testing.T) {
	runner := &scriptRunner{}
	z := NewZFS(runner.run)

	err := z.Create(context.Background(), "tank/data", "data@2026-01-21-1200")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "zfs", runner.calls[0].name)
	// '@' is illegal inside a zfs snapshot component; the engine timestamp
	// separator travels as '-'.
	assert.Equal(t, []string{"snapshot", "tank/data@data-2026-01-21-1200"}, runner.calls[0].args)
}

func TestZFSListParsesCreationEpochs(t *testing.T) {
	runner := &scriptRunner{out: []byte(
		"tank/data@data-2026-01-21-1200\t1768996800\n" +
			"tank/data@data-2026-01-14-1200\t1768392000\n" +
			"tank/data@manual-backup\t1700000000\n", // foreign prefix, ignored
	)}
	z := NewZFS(runner.run)

	entries, err := z.List(context.Background(), "tank/data", "data")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "data@2026-01-21-1200", entries[0].Name)
	assert.Equal(t, time.Unix(1768996800, 0).UTC(), entries[0].Created)
	assert.Equal(t, "data@2026-01-14-1200", entries[1].Name)
}

func TestZFSListToleratesMissingCreation(t *testing.T) {
	runner := &scriptRunner{out: []byte("tank/data@data-2026-01-21-1200\n")}
	z := NewZFS(runner.run)

	entries, err := z.List(context.Background(), "tank/data", "data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Created.IsZero(), "catalog falls back to the name timestamp")
}

func TestZFSDestroy(t *testing.T) {
	runner := &scriptRunner{}
	z := NewZFS(runner.run)

	require.NoError(t, z.Destroy(context.Background(), "tank/data", "data@2026-01-21-1200"))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"destroy", "tank/data@data-2026-01-21-1200"}, runner.calls[0].args)
}

func TestZFSListPropagatesCommandError(t *testing.T) {
	runner := &scriptRunner{err: errors.New("pool is unavailable")}
	z := NewZFS(runner.run)

	_, err := z.List(context.Background(), "tank/data", "data")
	assert.ErrorContains(t, err, "pool is unavailable")
}

func TestWireNameRoundTrip(t *testing.T) {
	wire := wireName("data@2026-01-21-1200")
	assert.Equal(t, "data-2026-01-21-1200", wire)

	name, ok := engineName(wire, "data")
	require.True(t, ok)
	assert.Equal(t, "data@2026-01-21-1200", name)

	_, ok = engineName("manual-backup", "data")
	assert.False(t, ok)
}

func TestOpen(t *testing.T) {
	for _, name := range []string{"btrfs", "zfs"} {
		b, err := Open(name)
		require.NoError(t, err)
		assert.NotNil(t, b)
	}
	_, err := Open("tape")
	assert.Error(t, err)
}
