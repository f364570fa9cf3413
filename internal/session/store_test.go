package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/db"
)

type counter struct {
	N     int      `json:"n"`
	Notes []string `json:"notes"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	bdb, err := db.OpenSessionDB(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { bdb.Close() })
	return NewStore(bdb)
}

func TestBucketLoadSaveDelete(t *testing.T) {
	ctx := context.Background()
	b := NewBucket[counter](newTestStore(t), "counter", time.Minute)

	_, err := b.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Save(ctx, "s1", counter{N: 3, Notes: []string{"a"}}))

	got, err := b.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.N)
	assert.Equal(t, []string{"a"}, got.Notes)

	_, err = b.Load(ctx, "s2")
	assert.ErrorIs(t, err, ErrNotFound, "sessions are isolated")

	require.NoError(t, b.Delete(ctx, "s1"))
	require.NoError(t, b.Delete(ctx, "s1"))
	_, err = b.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBucketPrefixesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	a := NewBucket[counter](store, "a", 0)
	b := NewBucket[counter](store, "b", 0)

	require.NoError(t, a.Save(ctx, "s1", counter{N: 1}))
	_, err := b.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBucketTTLExpires(t *testing.T) {
	ctx := context.Background()
	b := NewBucket[counter](newTestStore(t), "ttl", time.Second)

	require.NoError(t, b.Save(ctx, "s1", counter{N: 1}))
	_, err := b.Load(ctx, "s1")
	require.NoError(t, err)

	// badger TTLs have one-second granularity.
	time.Sleep(2100 * time.Millisecond)
	_, err = b.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBucketMutate(t *testing.T) {
	ctx := context.Background()
	b := NewBucket[counter](newTestStore(t), "mut", time.Minute)

	t.Run("Creates missing entry", func(t *testing.T) {
		got, err := b.Mutate(ctx, "s1", func(v *counter, found bool) error {
			assert.False(t, found)
			v.N = 1
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, got.N)
	})

	t.Run("Error aborts the write", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := b.Mutate(ctx, "s1", func(v *counter, found bool) error {
			assert.True(t, found)
			v.N = 99
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := b.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.N)
	})

	t.Run("Concurrent increments are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := b.Mutate(ctx, "s1", func(v *counter, found bool) error {
					v.N++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := b.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 5, got.N)
	})
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBucket[counter](newTestStore(t), "ctx", 0)
	assert.ErrorIs(t, b.Save(ctx, "s1", counter{}), context.Canceled)
}
