package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTTL(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	require.NoError(t, m.SetEX(ctx, "k", "v", 20*time.Millisecond))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	time.Sleep(30 * time.Millisecond)
	v, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, v, "过期后视为 miss")
}

func TestMemoryDefaultTTLAndDel(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	_ = m.SetEX(ctx, "k", "v", 0) // ttl<=0 用默认
	d, ok := m.RemainingTTL(ctx, "k")
	require.True(t, ok)
	assert.Greater(t, d, 50*time.Second)

	_ = m.Del(ctx, "k")
	v, _ := m.Get(ctx, "k")
	assert.Empty(t, v)
}

func TestLayeredBackfill(t *testing.T) {
	l1 := NewMemory(time.Minute)
	l2 := NewMemory(time.Minute)
	c := NewLayered(l1, l2)
	ctx := context.Background()

	// 只写 L2，模拟其它实例写入
	_ = l2.SetEX(ctx, "k", "v", 40*time.Second)

	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	// 命中 L2 后应回填 L1 并透传剩余 TTL
	got, _ := l1.Get(ctx, "k")
	assert.Equal(t, "v", got)
	d, ok := l1.RemainingTTL(ctx, "k")
	require.True(t, ok)
	assert.Greater(t, d, 30*time.Second)

	m := c.SnapshotMetrics()
	assert.EqualValues(t, 1, m.HitsL2)
	assert.EqualValues(t, 1, m.BackfillL1)

	// 第二次直接命中 L1
	_, _ = c.Get(ctx, "k")
	m = c.SnapshotMetrics()
	assert.EqualValues(t, 1, m.HitsL1)
}

func TestLayeredSetDelBothLayers(t *testing.T) {
	l1 := NewMemory(time.Minute)
	l2 := NewMemory(time.Minute)
	c := NewLayered(l1, l2)
	ctx := context.Background()

	_ = c.SetEX(ctx, "k", "v", time.Minute)
	v1, _ := l1.Get(ctx, "k")
	v2, _ := l2.Get(ctx, "k")
	assert.Equal(t, "v", v1)
	assert.Equal(t, "v", v2)

	_ = c.Del(ctx, "k")
	v1, _ = l1.Get(ctx, "k")
	v2, _ = l2.Get(ctx, "k")
	assert.Empty(t, v1)
	assert.Empty(t, v2)

	m := c.SnapshotMetrics()
	assert.EqualValues(t, 1, m.SetOps)
	assert.EqualValues(t, 1, m.DelOps)
}
