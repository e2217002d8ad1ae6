package csrf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return true, nil
}

func TestGetOrCreateReturnsStableToken(t *testing.T) {
	m := NewManager(newFakeCache(), time.Hour)
	ctx := context.Background()

	first, err := m.GetOrCreate(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := m.GetOrCreate(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTokensAreIsolatedPerSession(t *testing.T) {
	m := NewManager(newFakeCache(), time.Hour)
	ctx := context.Background()

	a, err := m.GetOrCreate(ctx, "session-a")
	require.NoError(t, err)
	b, err := m.GetOrCreate(ctx, "session-b")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.False(t, m.Validate(ctx, "session-b", a))
}

func TestValidate(t *testing.T) {
	m := NewManager(newFakeCache(), time.Hour)
	ctx := context.Background()

	token, err := m.GetOrCreate(ctx, "session-1")
	require.NoError(t, err)

	assert.True(t, m.Validate(ctx, "session-1", token))
	assert.False(t, m.Validate(ctx, "session-1", "falsifié"))
	assert.False(t, m.Validate(ctx, "session-1", ""))
	assert.False(t, m.Validate(ctx, "inconnue", token))
}

func TestExpiredTokenIsRejectedAndRotated(t *testing.T) {
	m := NewManager(newFakeCache(), time.Hour)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	token, err := m.GetOrCreate(ctx, "session-1")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.False(t, m.Validate(ctx, "session-1", token))

	rotated, err := m.GetOrCreate(ctx, "session-1")
	require.NoError(t, err)
	assert.NotEqual(t, token, rotated)
}
