package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/pet-shop-orders/internal/storage"
)

type staticSource struct {
	n   int
	err error
}

func (s staticSource) PendingCount(context.Context) (int, error) { return s.n, s.err }

func TestCounter(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()

	c := NewCounter(mem, staticSource{n: 4})
	n, err := c.Cached(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = c.Cached(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, mem.Set(ctx, PendingKey, []byte(`"many"`)))
	n, err = c.Cached(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	failing := NewCounter(mem, staticSource{err: errors.New("offline")})
	_, err = failing.Refresh(ctx)
	assert.Error(t, err)
}
