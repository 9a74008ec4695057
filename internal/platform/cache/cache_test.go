package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/platform/cache"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "novel:12:id", cache.Key("novel", 12, "id"))
	assert.Equal(t, "chapter", cache.Key("chapter"))
}

func TestNoop(t *testing.T) {
	var c cache.Cache = cache.Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "novel:1", map[string]int{"id": 1}, time.Minute, "novel:1"))

	var dest map[string]int
	hit, err := c.Get(ctx, "novel:1", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, "novel:1"))
}
