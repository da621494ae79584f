package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := l.Hit(ctx, "1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, _ := l.Hit(ctx, "5.6.7.8", time.Minute)
	assert.Equal(t, int64(1), n, "keys are counted separately")

	now = now.Add(time.Minute)
	n, _ = l.Hit(ctx, "1.2.3.4", time.Minute)
	assert.Equal(t, int64(1), n, "a new window starts after expiry")
}

func TestKeyValue_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	kv := NewKeyValue[string]()
	kv.now = func() time.Time { return now }

	kv.set("k", "v", time.Second)
	v, ok := kv.get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(time.Second)
	_, ok = kv.get("k")
	assert.False(t, ok)
}
