package memstore_test

import (
	"context"
	"errors"
	"homefix/infras/memstore"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	ID    string
	Value int
}

func TestUpdate_CommitsOnSuccess(t *testing.T) {
	store := memstore.New()

	err := store.Update(context.Background(), func(tx *memstore.Tx) error {
		tx.Put("counters", "a", counter{ID: "a", Value: 1})

		staged, ok := memstore.TxGetAs[counter](tx, "counters", "a")
		require.True(t, ok)
		assert.Equal(t, 1, staged.Value)
		assert.Len(t, memstore.TxListAs[counter](tx, "counters"), 1)

		return nil
	})
	require.NoError(t, err)

	got, ok := memstore.GetAs[counter](store, "counters", "a")
	require.True(t, ok)
	assert.Equal(t, 1, got.Value)
}

func TestUpdate_DiscardsOnError(t *testing.T) {
	store := memstore.New()

	err := store.Update(context.Background(), func(tx *memstore.Tx) error {
		tx.Put("counters", "a", counter{ID: "a", Value: 1})

		return memstore.ErrAborted
	})
	assert.True(t, errors.Is(err, memstore.ErrAborted))

	_, ok := store.Get("counters", "a")
	assert.False(t, ok)
	assert.Empty(t, store.List("counters"))
}

func TestUpdate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := memstore.New().Update(ctx, func(*memstore.Tx) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpdate_SerializesReadModifyWrite(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx *memstore.Tx) error {
		tx.Put("counters", "a", counter{ID: "a"})

		return nil
	}))

	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = store.Update(ctx, func(tx *memstore.Tx) error {
				current, _ := memstore.TxGetAs[counter](tx, "counters", "a")
				current.Value++
				tx.Put("counters", "a", current)

				return nil
			})
		}()
	}

	wg.Wait()

	got, _ := memstore.GetAs[counter](store, "counters", "a")
	assert.Equal(t, 50, got.Value)
}
