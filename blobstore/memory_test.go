package blobstore

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()

	data := []byte("snapshot payload")
	require.NoError(t, store.Put(ctx, "m/model-1.snap", data))
	data[0] = 'X' // caller mutation must not leak into the store

	got, err := Get(ctx, store, "m/model-1.snap")
	require.NoError(t, err)
	assert.Equal(t, "snapshot payload", string(got))

	w, err := store.Create(ctx, "m/model-2.snap")
	require.NoError(t, err)
	_, err = w.Write([]byte("second"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("late"))
	assert.Error(t, err)

	got[0] = 'Y' // Get returns a private copy
	again, err := Get(ctx, store, "m/model-1.snap")
	require.NoError(t, err)
	assert.Equal(t, "snapshot payload", string(again))

	names, err := store.List(ctx, "m/")
	require.NoError(t, err)
	assert.Equal(t, []string{"m/model-1.snap", "m/model-2.snap"}, names)

	blob, err := store.Open(ctx, "m/model-2.snap")
	require.NoError(t, err)
	_, ok := blob.(Mappable)
	assert.True(t, ok)
	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 0)
	assert.Equal(t, 6, n)
	assert.Equal(t, io.EOF, err)

	require.NoError(t, store.Delete(ctx, "m/model-1.snap"))
	_, err = store.Open(ctx, "m/model-1.snap")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Abort(t *testing.T) {
	store := NewMemoryStore()
	ctx := t.Context()

	require.NoError(t, store.Put(ctx, "m/model-1.snap", []byte("good")))

	w, err := store.Create(ctx, "m/model-1.snap")
	require.NoError(t, err)
	_, err = w.Write([]byte("trunc"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	require.NoError(t, w.Close())

	got, err := Get(ctx, store, "m/model-1.snap")
	require.NoError(t, err)
	assert.Equal(t, "good", string(got))

	w, err = store.Create(ctx, "m/model-2.snap")
	require.NoError(t, err)
	require.NoError(t, w.Abort())
	_, err = store.Open(ctx, "m/model-2.snap")
	assert.ErrorIs(t, err, ErrNotFound)
}
