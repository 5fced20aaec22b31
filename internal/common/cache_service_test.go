package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(time.Minute, time.Minute)

	_, found := c.Get(ctx, "missing")
	assert.False(t, found)

	c.Set(ctx, "k", []byte("v"), time.Minute)
	got, found := c.Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, c.ItemCount())

	c.Delete(ctx, "k")
	_, found = c.Get(ctx, "k")
	assert.False(t, found)

	c.Set(ctx, "k2", []byte("v"), time.Minute)
	assert.NoError(t, c.Close())
	assert.Zero(t, c.ItemCount(), "close drops everything")
}

func TestCacheServiceExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(time.Minute, time.Minute)
	c.Set(ctx, "k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	_, found := c.Get(ctx, "k")
	assert.False(t, found)
}
