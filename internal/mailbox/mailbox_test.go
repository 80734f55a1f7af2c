package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestValueWins(t *testing.T) {
	mb := New[int]()
	mb.Put(1)
	mb.Put(2)
	mb.Put(3)

	v, ok := mb.TryTake()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = mb.TryTake()
	assert.False(t, ok, "the slot holds at most one value")
}

func TestTakeBlocksUntilPut(t *testing.T) {
	mb := New[string]()

	go func() {
		time.Sleep(20 * time.Millisecond)
		mb.Put("go")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, ok := mb.Take(ctx)
	require.True(t, ok)
	assert.Equal(t, "go", v)
}

func TestTakeReturnsFalseOnCancel(t *testing.T) {
	mb := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := mb.Take(ctx)
	assert.False(t, ok)
}

func TestPutNeverBlocks(t *testing.T) {
	mb := New[int]()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			mb.Put(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Put blocked")
	}

	v, ok := mb.TryTake()
	require.True(t, ok)
	assert.Equal(t, 999, v)
}
