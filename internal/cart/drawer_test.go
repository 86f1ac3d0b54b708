package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawer(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	d := NewDrawer(storage)

	assert.False(t, d.IsOpen())

	d.Open(ctx)
	assert.True(t, d.IsOpen())

	assert.False(t, d.Toggle(ctx))
	assert.True(t, d.Toggle(ctx))

	restored := NewDrawer(storage)
	restored.Hydrate(ctx)
	assert.True(t, restored.IsOpen())

	d.Close(ctx)
	restored.Hydrate(ctx)
	assert.False(t, restored.IsOpen())
}

func TestDrawer_HydrateBadData(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, DrawerStorageKey, []byte("garbage")))

	d := NewDrawer(storage)
	d.Hydrate(ctx)
	assert.False(t, d.IsOpen())
}

func TestDrawer_DoesNotTouchCartKey(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	NewDrawer(storage).Open(ctx)

	data, err := storage.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}
