package service

import (
	"context"
	"testing"
	"time"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigStore struct {
	item  *model.SysConfig
	calls int
}

func (f *fakeConfigStore) SelectByKey(_ context.Context, key string) (*model.SysConfig, error) {
	f.calls++
	return f.item, nil
}

func TestConfigGetByKeyCached(t *testing.T) {
	f := &fakeConfigStore{item: &model.SysConfig{ConfigID: 1, ConfigKey: "sys.index.skinName", ConfigValue: "skin-blue"}}
	s := NewConfigServiceWithCache(f, cache.NewMemory(time.Minute))
	ctx := context.Background()

	got, err := s.GetByKey(ctx, "sys.index.skinName")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "skin-blue", got.ConfigValue)

	_, err = s.GetByKey(ctx, "sys.index.skinName")
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls, "第二次命中缓存")
}

func TestConfigGetValueByKeyMissing(t *testing.T) {
	s := NewConfigServiceWithCache(&fakeConfigStore{}, cache.NewMemory(time.Minute))
	v, err := s.GetValueByKey(context.Background(), "absent")
	require.NoError(t, err)
	assert.Empty(t, v, "未配置返回空串")
}
